package main

import (
	"fmt"

	"github.com/billed/backend/internal/domain/session"
	"github.com/billed/backend/internal/infrastructure/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		email    string
		userType string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a session token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := session.User{Type: session.UserType(userType), Email: email}
			token, expiresAt, err := auth.NewJWTService(a.cfg.JWT).Issue(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.UTC().Format("2006-01-02T15:04:05Z"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&userType, "type", string(session.UserTypeEmployee), "User type: Employee or Admin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
