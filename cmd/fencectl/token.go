package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgjwt "github.com/jhoicas/fencepro-workflow/pkg/jwt"
)

var (
	tokenActor string
	tokenName  string
	tokenRole  string
	tokenTTL   int
)

// tokenCmd emite un Bearer token firmado con JWT_SECRET para pruebas manuales.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Genera un token JWT para un actor",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, _ []string, env appEnv) error {
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = env.cfg.JWT.Expiration
		}
		tok, err := pkgjwt.Generate(env.cfg.JWT.Secret, env.cfg.JWT.Issuer, pkgjwt.Identity{
			ActorID: tokenActor,
			Name:    tokenName,
			Role:    tokenRole,
		}, ttl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
		return err
	}),
}

func init() {
	tokenCmd.Flags().StringVar(&tokenActor, "actor", "", "ID del actor")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "nombre visible")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "office", "admin | manager | sales_rep | office | yard | crew")
	tokenCmd.Flags().IntVar(&tokenTTL, "ttl", 0, "minutos de validez (por defecto JWT_EXPIRATION_MINUTES)")
	_ = tokenCmd.MarkFlagRequired("actor")
	rootCmd.AddCommand(tokenCmd)
}
