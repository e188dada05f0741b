package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/seed"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/store"
)

var (
	seedFile    string
	seedCharset string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga territorios, cuadrillas, perfiles, habilidades y cobertura desde YAML",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, _ []string, env appEnv) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("abrir %s: %w", seedFile, err)
		}
		defer f.Close()

		ref, err := seed.Decode(f, seedCharset)
		if err != nil {
			return err
		}
		st, err := store.Open(cmd.Context(), env.cfg.DB, env.log)
		if err != nil {
			return err
		}
		defer st.Close()

		sum, err := seed.Apply(cmd.Context(), st.Tx, ref)
		if err != nil {
			return err
		}
		env.log.Info().
			Str("file", seedFile).
			Int("territories", sum.Territories).
			Int("project_types", sum.ProjectTypes).
			Int("crews", sum.Crews).
			Int("profiles", sum.Profiles).
			Int("skills", sum.Skills).
			Int("coverage", sum.Coverage).
			Msg("datos de referencia cargados")
		return nil
	}),
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "reference.yaml", "archivo YAML de referencia")
	seedCmd.Flags().StringVar(&seedCharset, "charset", "", "codificación del archivo: utf-8 (por defecto) o latin1")
	rootCmd.AddCommand(seedCmd)
}
