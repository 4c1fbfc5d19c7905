package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	handleapp "github.com/catalog/pidreg/internal/application/handle"
	"github.com/catalog/pidreg/internal/bootstrap"
	"github.com/spf13/cobra"
)

func (c *cli) recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage catalog records",
	}
	cmd.AddCommand(c.recordsImportCmd(), c.recordsShowCmd())
	return cmd
}

func (c *cli) recordsImportCmd() *cobra.Command {
	var req handleapp.ImportRecordRequest
	cmd := &cobra.Command{
		Use:   "import <file.xml>",
		Short: "Import a metadata record from an XML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			req.Content = string(content)
			if req.UUID == "" {
				req.UUID = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			return c.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				record, err := app.Records.Import(ctx, req)
				if err != nil {
					return err
				}
				if c.jsonOut {
					return writeJSON(cmd.OutOrStdout(), record)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported record %s (%s)\n", record.UUID, record.SchemaID)
				if record.HandleURL != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Existing handle: %s\n", record.HandleURL)
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.UUID, "uuid", "", "record UUID (default: file name without extension)")
	f.StringVar(&req.SchemaID, "schema", "iso19139", "metadata schema")
	f.IntVar(&req.OwnerGroup, "group", 0, "owner group")
	f.BoolVar(&req.Public, "public", false, "make the record visible to all")
	return cmd
}

func (c *cli) recordsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <record-uuid>",
		Short: "Show a stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, app *bootstrap.App) error {
				record, err := app.Records.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), record)
			})
		},
	}
}
