package setup

import (
	"context"
	"fmt"
	"os"
	"time"

	xc "github.com/cordialsys/crosschain-avax"
	avaxclient "github.com/cordialsys/crosschain-avax/chain/avalanche/client"
	xclient "github.com/cordialsys/crosschain-avax/client"
	"github.com/cordialsys/crosschain-avax/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type RpcContextKey string

const ContextConfig RpcContextKey = "config"
const ContextClient RpcContextKey = "client"
const ContextArgs RpcContextKey = "args"

func WrapConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ContextConfig, cfg)
}
func WrapClient(ctx context.Context, client xclient.Client) context.Context {
	return context.WithValue(ctx, ContextClient, client)
}
func WrapArgs(ctx context.Context, args *RpcArgs) context.Context {
	return context.WithValue(ctx, ContextArgs, args)
}
func UnwrapConfig(ctx context.Context) *config.Config {
	return ctx.Value(ContextConfig).(*config.Config)
}
func UnwrapClient(ctx context.Context) xclient.Client {
	return ctx.Value(ContextClient).(xclient.Client)
}
func UnwrapArgs(ctx context.Context) *RpcArgs {
	return ctx.Value(ContextArgs).(*RpcArgs)
}

type RpcArgs struct {
	ConfigPath     string
	Rpc            string
	Network        xc.Network
	VerbosityCount int
	DryRun         bool
	Timeout        time.Duration
	Priority       xc.GasFeePriority
}

func AddRpcArgs(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", os.Getenv("XC_CONFIG"), "Path to a config.yaml with an `avax` section (may set XC_CONFIG env var).")
	cmd.PersistentFlags().String("rpc", "", "Base URL of the Avalanche node, without /ext.  Overrides config.")
	cmd.PersistentFlags().String("network", os.Getenv("XC_NETWORK"), "Network: mainnet, fuji or local (may set XC_NETWORK env var).")
	cmd.PersistentFlags().CountP("verbose", "v", "Set verbosity.")
	cmd.PersistentFlags().Bool("dry-run", false, "Build and sign transactions, but print them instead of broadcasting.")
	cmd.PersistentFlags().Duration("timeout", 0, "Per request timeout.  Overrides config.")
	cmd.PersistentFlags().String("priority", "", "Base fee priority: low, market, aggressive, very-aggressive, or a decimal multiplier.")
}

func RpcArgsFromCmd(cmd *cobra.Command) (*RpcArgs, error) {
	configPath, _ := cmd.Flags().GetString("config")
	rpc, _ := cmd.Flags().GetString("rpc")
	network, _ := cmd.Flags().GetString("network")
	count, _ := cmd.Flags().GetCount("verbose")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	priorityInput, _ := cmd.Flags().GetString("priority")
	var priority xc.GasFeePriority
	if priorityInput != "" {
		priority, err = xc.NewPriority(priorityInput)
		if err != nil {
			return nil, fmt.Errorf("invalid priority: %v", err)
		}
	}
	if network != "" {
		if _, ok := xc.Network(network).ID(); !ok {
			return nil, fmt.Errorf("invalid network: %s\noptions: %v", network, []xc.Network{xc.Mainnet, xc.Fuji, xc.Local})
		}
	}
	return &RpcArgs{
		ConfigPath:     configPath,
		Rpc:            rpc,
		Network:        xc.Network(network),
		VerbosityCount: count,
		DryRun:         dryRun,
		Timeout:        timeout,
		Priority:       priority,
	}, nil
}

// ConfigureLogger maps -v counts onto log levels; CORDIAL_LOG_LEVEL applies when no -v is given.
func ConfigureLogger(args *RpcArgs) {
	level := ""
	switch {
	case args.VerbosityCount == 1:
		level = "info"
	case args.VerbosityCount == 2:
		level = "debug"
	case args.VerbosityCount >= 3:
		level = "trace"
	case os.Getenv(config.CordialLogLevel) == "":
		level = "warn"
	}
	config.ConfigureLogger(level)
}

// LoadConfig reads the config file and applies the command line overrides.
func LoadConfig(args *RpcArgs) (*config.Config, error) {
	network := args.Network
	if network == "" {
		network = xc.Fuji
	}
	cfg, err := config.Load(args.ConfigPath, network)
	if err != nil {
		return nil, err
	}
	OverrideChainSettings(cfg.Chain, args)
	if err := cfg.Chain.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func OverrideChainSettings(chain *xc.ChainConfig, args *RpcArgs) {
	if args.Network != "" && args.Network != chain.Network {
		chain.Network = args.Network
		// a network switch without --rpc moves to that network's public node
		if def, ok := xc.DefaultChainConfig(args.Network); ok && args.Rpc == "" {
			chain.URL = def.URL
		}
	}
	if args.Rpc != "" {
		chain.URL = args.Rpc
	}
	if args.Timeout > 0 {
		chain.Timeout = args.Timeout
	}
	if args.Priority != "" {
		chain.FeePriority = args.Priority
	}
	chain.Configure()
}

// NewClient connects to the configured node; with --dry-run, submissions are only printed.
func NewClient(cfg *config.Config, args *RpcArgs) (xclient.Client, error) {
	client, err := avaxclient.NewClient(cfg.Chain)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"rpc":     cfg.Chain.URL,
		"network": cfg.Chain.Network,
	}).Info("chain")
	if args.DryRun {
		return NewDryRunClient(client, os.Stdout), nil
	}
	return client, nil
}

func CreateContext(ctx context.Context, cfg *config.Config, client xclient.Client, args *RpcArgs) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = WrapConfig(ctx, cfg)
	ctx = WrapClient(ctx, client)
	ctx = WrapArgs(ctx, args)
	return ctx
}
