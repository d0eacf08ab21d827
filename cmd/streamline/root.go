package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shuhari/streamline"
	"github.com/shuhari/streamline/internal/config"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

type serveFlags struct {
	host        string
	port        int
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "streamline",
		Short:         "Trie based HTTP router with a serialized dispatcher",
		Version:       fmt.Sprintf("%s (%s)", version, gitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c",
		getEnvOrDefault("STREAMLINE_CONFIG", ""), "Path to configuration file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level",
		getEnvOrDefault("STREAMLINE_LOG_LEVEL", ""), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format",
		getEnvOrDefault("STREAMLINE_LOG_FORMAT", ""), "Log format (json, console)")

	cmd.AddCommand(newServeCmd(flags), newRoutesCmd())

	return cmd
}

func newServeCmd(root *rootFlags) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root, flags, cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", streamline.DefaultHost, "Address to listen on")
	cmd.Flags().IntVarP(&flags.port, "port", "p", streamline.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Address of the Prometheus endpoint (disabled when empty)")

	return cmd
}

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			router := newRouter(zap.NewNop(), nil)

			methods := make([]string, 0)
			routes := router.Routes()
			for method := range routes {
				methods = append(methods, method)
			}
			sort.Strings(methods)

			for _, method := range methods {
				for _, path := range routes[method] {
					fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", method, path)
				}
			}
			return nil
		},
	}
}

// loadConfig reads the config file, if any, and applies flags that were set
// explicitly on the command line.
func loadConfig(root *rootFlags, flags *serveFlags, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if root.configPath != "" {
		loaded, err := config.Load(root.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if root.logLevel != "" {
		cfg.Logging.Level = root.logLevel
	}
	if root.logFormat != "" {
		cfg.Logging.Format = root.logFormat
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = flags.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = flags.port
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.Metrics.Address = flags.metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
