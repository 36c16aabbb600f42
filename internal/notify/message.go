package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/catalog-stream/internal/importer"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

// FormatRecordMessage creates the body announcing a new record.
func FormatRecordMessage(rec store.Record) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s (%d)\n", rec.Name, rec.Year))
	if len(rec.Cast) > 0 {
		sb.WriteString(fmt.Sprintf("Cast: %s\n", strings.Join(rec.Cast, ", ")))
	}
	if rec.ReleaseDate != "" {
		sb.WriteString(fmt.Sprintf("Released: %s\n", rec.ReleaseDate))
	}
	sb.WriteString(fmt.Sprintf("ID: %s", rec.ID))

	return sb.String()
}

// FormatImportMessage creates an import summary body.
func FormatImportMessage(result *importer.BatchResult, duration time.Duration, err error) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d records\n", result.Total))
	sb.WriteString(fmt.Sprintf("Success: %d\n", result.Success))
	sb.WriteString(fmt.Sprintf("Skipped: %d\n", result.Skipped))
	sb.WriteString(fmt.Sprintf("Invalid: %d\n", result.Invalid))
	sb.WriteString(fmt.Sprintf("Failed: %d\n", result.Failed))
	sb.WriteString(fmt.Sprintf("Duration: %s", duration.Round(time.Second)))

	if err != nil {
		sb.WriteString(fmt.Sprintf("\n\nError: %v", err))
	}

	// Include first 3 error messages if available
	if len(result.Errors) > 0 {
		sb.WriteString("\n\nErrors:\n")
		limit := min(3, len(result.Errors))
		for i := 0; i < limit; i++ {
			sb.WriteString(fmt.Sprintf("- %s\n", result.Errors[i]))
		}
		if len(result.Errors) > 3 {
			sb.WriteString(fmt.Sprintf("... and %d more errors", len(result.Errors)-3))
		}
	}

	return sb.String()
}
