package main

import (
	"context"
	"database/sql"
	"errors"

	"inventory-tracker/internal/auth"
	"inventory-tracker/internal/config"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts that may sign in",
}

var (
	addUserEmail    string
	addUserPassword string
)

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDatabase()
		if err != nil {
			return err
		}

		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		// Adding a user never issues or checks tokens.
		svc := auth.NewService(auth.NewPostgresUsers(db), nil, nil, logger)
		if _, err := svc.AddUser(cmd.Context(), addUserEmail, addUserPassword); err != nil {
			if errors.Is(err, auth.ErrUserExists) {
				return errors.New("a user with that email already exists")
			}
			return err
		}
		return nil
	},
}

func init() {
	usersAddCmd.Flags().StringVar(&addUserEmail, "email", "", "login email")
	usersAddCmd.Flags().StringVar(&addUserPassword, "password", "", "login password, 8 to 72 bytes")
	_ = usersAddCmd.MarkFlagRequired("email")
	_ = usersAddCmd.MarkFlagRequired("password")
	usersCmd.AddCommand(usersAddCmd)
}

func openDB(ctx context.Context, cfg config.Inventory) (*sql.DB, error) {
	db, err := sql.Open(postgresDriverName, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
