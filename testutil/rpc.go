package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type MockRequest struct {
	Path   string
	Method string
	Params json.RawMessage
}

type mockRoute struct {
	method string
	// substring the raw params must contain, if set
	match  string
	bodies []string
}

// MockRPC is a JSON-RPC 2.0 server answering by method name, and optionally by a
// substring of the params.  Queued responses are served in order; the last one repeats.
type MockRPC struct {
	server   *httptest.Server
	lock     sync.Mutex
	routes   []*mockRoute
	requests []MockRequest
}

func NewMockRPC(t *testing.T) *MockRPC {
	m := &MockRPC{}
	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.server.Close)
	return m
}

func (m *MockRPC) URL() string {
	return m.server.URL
}

func (m *MockRPC) Close() {
	m.server.Close()
}

// Result queues a raw JSON result for the method.
func (m *MockRPC) Result(method string, result string) *MockRPC {
	return m.ResultWhen(method, "", result)
}

// ResultWhen queues a raw JSON result for calls of method whose params contain match.
func (m *MockRPC) ResultWhen(method string, match string, result string) *MockRPC {
	return m.queue(method, match, fmt.Sprintf(`"result":%s`, result))
}

func (m *MockRPC) Error(method string, code int, message string) *MockRPC {
	msg, _ := json.Marshal(message)
	return m.queue(method, "", fmt.Sprintf(`"error":{"code":%d,"message":%s}`, code, msg))
}

func (m *MockRPC) queue(method string, match string, body string) *MockRPC {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, route := range m.routes {
		if route.method == method && route.match == match {
			route.bodies = append(route.bodies, body)
			return m
		}
	}
	m.routes = append(m.routes, &mockRoute{method: method, match: match, bodies: []string{body}})
	return m
}

// Calls returns the requests received for a method, in order.
func (m *MockRPC) Calls(method string) []MockRequest {
	m.lock.Lock()
	defer m.lock.Unlock()
	calls := []MockRequest{}
	for _, req := range m.requests {
		if req.Method == method {
			calls = append(calls, req)
		}
	}
	return calls
}

// Requests returns every request received, in order.
func (m *MockRPC) Requests() []MockRequest {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]MockRequest{}, m.requests...)
}

func (m *MockRPC) respond(method string, params string) string {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, route := range m.routes {
		if route.method != method || !strings.Contains(params, route.match) {
			continue
		}
		body := route.bodies[0]
		if len(route.bodies) > 1 {
			route.bodies = route.bodies[1:]
		}
		return body
	}
	return `"error":{"code":-32601,"message":"the method ` + method + ` does not exist/is not available"}`
}

func (m *MockRPC) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.ID) == 0 {
		req.ID = json.RawMessage("1")
	}
	m.lock.Lock()
	m.requests = append(m.requests, MockRequest{Path: r.URL.Path, Method: req.Method, Params: req.Params})
	m.lock.Unlock()

	response := m.respond(req.Method, string(req.Params))
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(fmt.Sprintf(`{"jsonrpc":"2.0","id":%s,%s}`, req.ID, response)))
}
