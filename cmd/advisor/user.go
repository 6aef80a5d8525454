package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OldStager01/scaling-advisor/internal/auth"
	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/database"
	"github.com/OldStager01/scaling-advisor/pkg/database/queries"
	"github.com/OldStager01/scaling-advisor/pkg/validation"
)

func newUserCmd(load configLoader) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage API operator accounts",
	}

	user.AddCommand(&cobra.Command{
		Use:   "hash",
		Short: "Print a bcrypt hash of the password read from stdin",
		Long:  "Print a bcrypt hash for api.operator.password_hash. The password is read from stdin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})

	user.AddCommand(&cobra.Command{
		Use:   "set <username>",
		Short: "Create a database operator or reset its password (read from stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			username := validation.SanitizeString(args[0])
			if err := validation.ValidateUsername(username); err != nil {
				return err
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			db, err := database.New(ctx, cfg.Database.ToDBConfig())
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			op, err := queries.NewUserRepository(db.DB).Upsert(ctx, username, hash)
			if err != nil {
				return err
			}
			verb := "updated"
			if op.Created {
				verb = "created"
			}
			logger.Infof("Operator %q %s with id %d", op.Username, verb, op.ID)
			return nil
		},
	})

	return user
}

func readPassword(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if err := validation.ValidatePassword(password); err != nil {
		return "", err
	}
	return password, nil
}
