package utils

import (
	"bytes"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HttpInterceptor rate limits outgoing requests and, when enabled, logs request
// and response bodies at debug level.
type HttpInterceptor struct {
	core    http.RoundTripper
	limiter *rate.Limiter
	enabled bool
}

var _ http.RoundTripper = &HttpInterceptor{}

// ResponseReadError is a failure reading a response the server already started sending.
type ResponseReadError struct {
	Err error
}

func (e *ResponseReadError) Error() string {
	return "reading response: " + e.Err.Error()
}

func (e *ResponseReadError) Unwrap() error {
	return e.Err
}

func NewHttpInterceptor(limiter *rate.Limiter) *HttpInterceptor {
	interceptor := &HttpInterceptor{
		core:    http.DefaultTransport,
		limiter: limiter,
		enabled: false,
	}
	return interceptor
}

func (i *HttpInterceptor) WithTransport(core http.RoundTripper) *HttpInterceptor {
	i.core = core
	return i
}

func (i *HttpInterceptor) Enable() {
	i.enabled = true
}
func (i *HttpInterceptor) Disable() {
	i.enabled = false
}

func (i *HttpInterceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	if i.limiter != nil {
		if err := i.limiter.Wait(req.Context()); err != nil {
			if req.Body != nil {
				_ = req.Body.Close()
			}
			return nil, err
		}
	}
	logging := i.enabled && logrus.IsLevelEnabled(logrus.DebugLevel)
	if logging && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			bz, _ := io.ReadAll(body)
			_ = body.Close()
			logrus.WithField("url", req.URL.String()).WithField("body", string(bz)).Debug("request")
		}
	}

	res, err := i.core.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if logging {
		body, err := io.ReadAll(res.Body)
		_ = res.Body.Close()
		if err != nil {
			return nil, &ResponseReadError{Err: err}
		}
		logrus.WithField("status", res.StatusCode).WithField("body", string(body)).Debug("response")
		res.Body = io.NopCloser(bytes.NewReader(body))
	}
	return res, nil
}
