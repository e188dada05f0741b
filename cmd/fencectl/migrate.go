package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/postgres"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Esquema de base de datos",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica las migraciones pendientes",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, _ []string, env appEnv) error {
		if env.cfg.DB.Driver == "sqlite" {
			cfg := env.cfg.DB
			cfg.AutoMigrate = true
			st, err := store.Open(cmd.Context(), cfg, env.log)
			if err != nil {
				return err
			}
			return st.Close()
		}
		return postgres.MigrateUp(env.cfg.DB, env.log)
	}),
}

var downSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte migraciones (solo PostgreSQL)",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(_ *cobra.Command, _ []string, env appEnv) error {
		if env.cfg.DB.Driver != "postgres" {
			return fmt.Errorf("migrate down solo aplica a PostgreSQL")
		}
		return postgres.MigrateDown(env.cfg.DB, downSteps, env.log)
	}),
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión actual del esquema (solo PostgreSQL)",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, _ []string, env appEnv) error {
		if env.cfg.DB.Driver != "postgres" {
			return fmt.Errorf("migrate version solo aplica a PostgreSQL")
		}
		v, dirty, err := postgres.MigrationVersion(env.cfg.DB)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
		return err
	}),
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "cantidad de migraciones a revertir")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
