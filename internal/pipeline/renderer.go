package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/claimaudit/internal/model"
)

// Renderer writes audit reports as JSON files
type Renderer struct {
	dir string
}

// NewRenderer creates a renderer writing into dir ("" means the working directory)
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// ReportPath returns the file a report for documentName is written to
func (r *Renderer) ReportPath(documentName string) string {
	return filepath.Join(r.dir, fmt.Sprintf("audit_report_%s.json", filepath.Base(documentName)))
}

// WriteReport writes the report and returns the file path
func (r *Renderer) WriteReport(report *model.AuditReport) (string, error) {
	data, err := EncodeReport(report)
	if err != nil {
		return "", err
	}

	if r.dir != "" {
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			return "", fmt.Errorf("create report dir: %w", err)
		}
	}

	path := r.ReportPath(report.Summary.DocumentName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// EncodeReport renders a report as 4-space indented JSON
func EncodeReport(report *model.AuditReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}
