package main

import (
	"context"
	"fmt"
	"os"

	"domaincheck/internal/config"
	"domaincheck/internal/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "dev"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:     "domaincheck",
		Short:   "Verify redirects and DNS records of the cfcarts domains",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("inventory", "", "Inventory YAML (env INVENTORY_PATH, default embedded)")
	cmd.PersistentFlags().String("resolver", "", "DNS resolver host:port (env DNS_RESOLVER)")
	cmd.PersistentFlags().String("log-level", "", "Log level (env LOG_LEVEL)")
	cmd.PersistentFlags().String("log-format", "", "Log format json|console (env LOG_FORMAT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		// flags override env
		fs := c.Flags()
		override(fs, "inventory", &cfg.InventoryPath)
		override(fs, "resolver", &cfg.DNSResolver)
		override(fs, "log-level", &cfg.LogLevel)
		override(fs, "log-format", &cfg.LogFormat)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := utils.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		a.cfg = cfg
		return nil
	}

	cmd.AddCommand(newCmdRun(a))
	cmd.AddCommand(newCmdList(a))
	cmd.AddCommand(newCmdServe(a))
	cmd.AddCommand(newCmdInspect(a))
	return cmd
}

func override(fs *pflag.FlagSet, name string, dst *string) {
	if fs.Changed(name) {
		*dst, _ = fs.GetString(name)
	}
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "domaincheck: %v\n", err)
		_ = utils.Log.Sync()
		os.Exit(1)
	}
	_ = utils.Log.Sync()
}
