package exporter

import (
	"encoding/json"
	"io"

	apperrors "leadtimecli/internal/errors"
)

// SummaryFileName is the JSON analysis document written next to the CSV export.
const SummaryFileName = "leadtime_summary.json"

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return apperrors.NewStorageError("failed to encode JSON", err)
	}
	return nil
}

// WriteJSONFile writes v as indented JSON to path.
func WriteJSONFile(path string, v interface{}) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, v)
	})
}
