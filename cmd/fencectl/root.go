package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fencepro-workflow/pkg/config"
	"github.com/jhoicas/fencepro-workflow/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:          "fencectl",
	Short:        "Herramientas de operación del motor de flujo de trabajo",
	SilenceUsage: true,
}

// Execute registra los subcomandos y ejecuta el que corresponda.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	return rootCmd.ExecuteContext(ctx)
}

// appEnv configuración y logger compartidos por los subcomandos.
type appEnv struct {
	cfg *config.Config
	log *logger.Logger
}

func withEnv(run func(cmd *cobra.Command, args []string, env appEnv) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: cmd.ErrOrStderr()})
		return run(cmd, args, appEnv{cfg: cfg, log: log.Component("fencectl")})
	}
}
