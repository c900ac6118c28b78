package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/skillet/internal/config"
	"github.com/cwbudde/skillet/internal/logging"
	"github.com/cwbudde/skillet/internal/plugin"
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/server"
	"github.com/cwbudde/skillet/internal/value"
)

func newServeCmd() *cobra.Command {
	var addr string
	var pluginDir string
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Boot the HTTP embedding server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			if pluginDir != "" {
				cfg.PluginDir = pluginDir
			}

			log, err := logging.New(false)
			if err != nil {
				return err
			}
			defer log.Sync()

			loader := plugin.NewLoader(registry.Default(), noopRunner{})
			if err := loader.Load(cfg.PluginDir); err != nil {
				log.Warn("initial plugin load failed", zap.Error(err))
			}

			srv := server.New(cfg, log, loader)
			log.Info("listening", zap.String("addr", cfg.ListenAddr))
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides config")
	cmd.Flags().StringVar(&pluginDir, "plugins", "", "plugin directory, overrides config")
	cmd.Flags().StringVar(&configPath, "config", "", "path to skillet.yaml/skillet.toml")
	return cmd
}

// noopRunner is the default ScriptRunner wired into "skillet serve": the
// scripting host that actually executes a plugin body is scoped out of this
// core (spec.md §1), so plugins loaded without a real runner injected fail
// at call time rather than at load time.
type noopRunner struct{}

func (noopRunner) Run(path string, args []value.Value) (value.Value, error) {
	return value.Value{}, fmt.Errorf("plugin %s: no script runner configured", path)
}
