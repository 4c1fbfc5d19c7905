package main

import (
	"context"
	"fmt"

	"github.com/catalog/pidreg/internal/bootstrap"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <server-id> <record-uuid>",
		Short: "Check whether a record can be registered on a handle server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid server id %q: %w", args[0], err)
			}
			return c.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				status, err := app.Handles.CheckByID(ctx, serverID, args[1])
				if err != nil {
					return err
				}
				if c.jsonOut {
					return writeJSON(cmd.OutOrStdout(), status)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Record %s is ready for registration\n", args[1])
				return nil
			})
		},
	}
}

func (c *cli) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <server-id> <record-uuid>",
		Short: "Register a handle for a record and write it into the record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid server id %q: %w", args[0], err)
			}
			return c.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				result, err := app.Handles.RegisterByID(ctx, serverID, args[1])
				if err != nil {
					return err
				}
				if c.jsonOut {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Handle:       %s\n", result.Identifier)
				fmt.Fprintf(out, "Handle URL:   %s\n", result.IdentifierURL)
				fmt.Fprintf(out, "Landing page: %s\n", result.LandingPage)
				return nil
			})
		},
	}
}
