package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/auth"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token signed with the configured secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret (or SUMMARIZER_JWT_SECRET) must be set to mint tokens")
			}
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}
			subject, _ := cmd.Flags().GetString("subject")

			m := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AdminSecret, ttl)
			token, expires, err := m.GenerateToken(subject, auth.RoleAdmin)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"token":      token,
					"expires_at": expires.UTC().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Duration("ttl", 0, "Token lifetime (defaults to auth.token_ttl)")
	cmd.Flags().String("subject", "cli", "Token subject")
	return cmd
}
