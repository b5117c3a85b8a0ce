// Package jsonfmt renders aggregated reports as indented JSON.
package jsonfmt

import (
	"encoding/json"
	"fmt"

	"github.com/academicworkflow/awap/internal/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatJSON
}

func (r *Renderer) Render(data *types.ReportData) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling report: %w", err)
	}
	return string(out), nil
}
