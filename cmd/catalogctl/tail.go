package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/catalog-stream/internal/store"
)

var errCountReached = errors.New("count reached")

func tailCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow the stream of created records",
		Long: `Print every record on the service's stream as one JSON document per line.
The retained history is printed first, then new records as they are created.

Examples:
  # Follow until interrupted
  catalogctl tail

  # Stop after 10 records
  catalogctl tail --count 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(os.Stdout)
			seen := 0

			err := newClient().StreamRecords(cmd.Context(), func(rec store.Record) error {
				if err := enc.Encode(rec); err != nil {
					return err
				}
				seen++
				if count > 0 && seen >= count {
					return errCountReached
				}
				return nil
			})

			if errors.Is(err, errCountReached) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "stop after this many records (0 = follow forever)")

	return cmd
}
