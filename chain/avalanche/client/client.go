package client

import (
	"context"
	"fmt"
	"net/http"

	xc "github.com/cordialsys/crosschain-avax"
	xclient "github.com/cordialsys/crosschain-avax/client"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/cordialsys/crosschain-avax/utils"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
)

// Node routes, relative to the base URL
const (
	InfoPath   = "/ext/info"
	XChainPath = "/ext/bc/X"
	CEvmPath   = "/ext/bc/C/rpc"
	CAvaxPath  = "/ext/bc/C/avax"
	PChainPath = "/ext/bc/P"
)

// Client for an Avalanche node, covering the info API, the X-Chain asset lookup,
// the C-Chain EVM and atomic APIs, and the P-Chain.
type Client struct {
	cfg         *xc.ChainConfig
	Interceptor *utils.HttpInterceptor

	info      *rpc.Client
	xChain    *rpc.Client
	cEvm      *rpc.Client
	cAvax     *rpc.Client
	pChain    *rpc.Client
	EthClient *ethclient.Client
}

var _ xclient.Client = &Client{}

// NewClient returns a new Avalanche Client
func NewClient(cfgI *xc.ChainConfig) (*Client, error) {
	if cfgI == nil {
		return nil, xcerrors.Configurationf("no chain configuration")
	}
	if err := cfgI.Validate(); err != nil {
		return nil, xcerrors.Wrap(xcerrors.ConfigurationError, err, "invalid chain configuration")
	}
	cfg := *cfgI
	if cfg.Limiter == nil || cfg.Timeout == 0 {
		cfg.Configure()
	}

	interceptor := utils.NewHttpInterceptor(cfg.Limiter)
	interceptor.Enable()
	httpClient := &http.Client{
		Transport: interceptor,
	}
	dial := func(path string) (*rpc.Client, error) {
		c, err := rpc.DialHTTPWithClient(cfg.Endpoint(path), httpClient)
		if err != nil {
			return nil, xcerrors.Wrap(xcerrors.ConfigurationError, err, "dialing url: %s", cfg.Endpoint(path))
		}
		return c, nil
	}

	client := &Client{cfg: &cfg, Interceptor: interceptor}
	var err error
	if client.info, err = dial(InfoPath); err != nil {
		return nil, err
	}
	if client.xChain, err = dial(XChainPath); err != nil {
		return nil, err
	}
	if client.cEvm, err = dial(CEvmPath); err != nil {
		return nil, err
	}
	if client.cAvax, err = dial(CAvaxPath); err != nil {
		return nil, err
	}
	if client.pChain, err = dial(PChainPath); err != nil {
		return nil, err
	}
	client.EthClient = ethclient.NewClient(client.cEvm)
	return client, nil
}

func (client *Client) Config() *xc.ChainConfig {
	return client.cfg
}

// call issues one JSON-RPC request under the configured per request timeout.
func (client *Client) call(ctx context.Context, rpcClient *rpc.Client, result interface{}, method string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, client.cfg.Timeout)
	defer cancel()
	logrus.WithField("method", method).Trace("rpc call")
	return rpcClient.CallContext(ctx, result, method, args...)
}

// fetch is call for read-only requests; any failure is a TransportFailure.
func (client *Client) fetch(ctx context.Context, rpcClient *rpc.Client, result interface{}, method string, args ...interface{}) error {
	if err := client.call(ctx, rpcClient, result, method, args...); err != nil {
		return xcerrors.Wrap(xcerrors.TransportFailure, err, "%s", method)
	}
	return nil
}

func (client *Client) chainClient(chain string) (*rpc.Client, error) {
	switch chain {
	case xc.AliasC:
		return client.cAvax, nil
	case xc.AliasP:
		return client.pChain, nil
	}
	return nil, xcerrors.InvalidArgumentf("atomic txs are not issued on chain %q", chain)
}

func (client *Client) String() string {
	return fmt.Sprintf("AvalancheClient(%s)", client.cfg.URL)
}
