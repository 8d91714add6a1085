package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lockwhz/leakcheck/models"
)

// JSONWriter escreve o relatório completo, um documento por execução.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("serializar relatório %s: %w", report.ScanID, err)
	}
	return nil
}
