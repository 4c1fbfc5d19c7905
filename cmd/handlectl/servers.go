package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	handleapp "github.com/catalog/pidreg/internal/application/handle"
	"github.com/catalog/pidreg/internal/bootstrap"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (c *cli) serversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Manage registry servers",
	}
	cmd.AddCommand(c.serversListCmd(), c.serversAddCmd(), c.serversRemoveCmd())
	return cmd
}

func (c *cli) serversListCmd() *cobra.Command {
	var (
		serverType string
		recordUUID string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registry servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				var (
					servers []handleapp.ServerResponse
					err     error
				)
				if recordUUID != "" {
					servers, err = app.Servers.ForRecord(ctx, recordUUID, serverType)
				} else {
					servers, err = app.Servers.List(ctx, serverType)
				}
				if err != nil {
					return err
				}
				if c.jsonOut {
					return writeJSON(cmd.OutOrStdout(), servers)
				}
				if len(servers) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No registry servers")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tTYPE\tPREFIX\tMISSING")
				for _, s := range servers {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Type, s.Prefix, strings.Join(s.MissingFields, ","))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&serverType, "type", "", "only servers of this type (DOI, HANDLE)")
	cmd.Flags().StringVar(&recordUUID, "record", "", "only servers the record may be registered on")
	return cmd
}

func (c *cli) serversAddCmd() *cobra.Command {
	var req handleapp.CreateServerRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a registry server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				server, err := app.Servers.Create(ctx, req)
				if err != nil {
					return err
				}
				if c.jsonOut {
					return writeJSON(cmd.OutOrStdout(), server)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s server %q with id %s\n", server.Type, server.Name, server.ID)
				if len(server.MissingFields) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Not usable until set: %s\n", strings.Join(server.MissingFields, ", "))
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "server name")
	f.StringVar(&req.Description, "description", "", "free text description")
	f.StringVar(&req.Type, "type", "HANDLE", "server type (DOI, HANDLE)")
	f.StringVar(&req.URL, "url", "", "registry API base URL")
	f.StringVar(&req.PublicURL, "public-url", "", "public resolver URL")
	f.StringVar(&req.Username, "username", "", "registry user, e.g. 300:20.500.12345/USER01")
	f.StringVar(&req.Password, "password", "", "registry password")
	f.StringVar(&req.Prefix, "prefix", "", "handle prefix")
	f.StringVar(&req.Pattern, "pattern", "{{uuid}}", "handle suffix pattern")
	f.StringVar(&req.LandingPageTemplate, "landing-page", "", "landing page template")
	f.IntSliceVar(&req.PublicationGroups, "groups", nil, "groups whose records may be registered")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *cli) serversRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <server-id>",
		Short: "Remove a registry server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid server id %q: %w", args[0], err)
			}
			return c.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.Servers.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed server %s\n", id)
				return nil
			})
		},
	}
}
