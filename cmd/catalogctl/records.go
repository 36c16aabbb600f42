package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/api"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

func createCmd() *cobra.Command {
	var rec store.Record

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record",
		Long: `Create a record. The new record is announced to every stream subscriber.

Examples:
  catalogctl create --name "Batman Begins" --year 2005 --cast "Christian Bale,Michael Caine"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := newClient().Create(cmd.Context(), rec)
			if err != nil {
				var apiErr *api.APIError
				if errors.As(err, &apiErr) {
					for _, f := range apiErr.Fields {
						logger.Error("invalid field", zap.String("field", f.Field), zap.String("rule", f.Rule))
					}
				}
				return err
			}
			return printJSON(saved)
		},
	}

	cmd.Flags().StringVar(&rec.Name, "name", "", "record name")
	cmd.Flags().IntVar(&rec.Year, "year", 0, "release year")
	cmd.Flags().StringSliceVar(&rec.Cast, "cast", nil, "comma-separated cast members")
	cmd.Flags().StringVar(&rec.ReleaseDate, "release-date", "", "release date (YYYY-MM-DD)")

	return cmd
}

func getCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "get [ID]",
		Short: "Fetch a record by id, or by exact name with --name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()

			var (
				rec *store.Record
				err error
			)
			switch {
			case len(args) == 1:
				rec, err = client.Get(cmd.Context(), args[0])
			case name != "":
				rec, err = client.FindByName(cmd.Context(), name)
			default:
				return fmt.Errorf("an id or --name is required")
			}
			if err != nil {
				return err
			}
			return printJSON(rec)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "find by exact name")

	return cmd
}

func listCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *int
			if cmd.Flags().Changed("year") {
				filter = &year
			}

			recs, err := newClient().List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return printJSON(recs)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "only records from this year")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			logger.Info("record deleted", zap.String("id", args[0]))
			return nil
		},
	}
}
