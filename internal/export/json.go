package export

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/AI2HU/bikeshare/internal/models"
)

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, report *models.Report) error {
	data, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
