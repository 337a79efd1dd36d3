package model

// TimestampLayout is the layout used for report and analysis timestamps
const TimestampLayout = "2006-01-02 15:04:05"

// AuditReport is the result of auditing one document.
// It is built once per run and persisted as a flat JSON file.
type AuditReport struct {
	Summary AuditSummary `json:"summary"`
	Claims  []Claim      `json:"claims"`
}

// AuditSummary describes a completed run
type AuditSummary struct {
	AuditID               string       `json:"audit_id,omitempty"`
	TotalClaims           int          `json:"total_claims"`
	ProcessingTimeSeconds float64      `json:"processing_time_seconds"` // Measured wall time, rounded to 2 places
	DocumentName          string       `json:"document_name"`
	Timestamp             string       `json:"timestamp"` // TimestampLayout, local time
	AnalysisMode          AnalysisMode `json:"analysis_mode,omitempty"`
}

// AnalysisMode is the claim extraction mode chosen at startup
type AnalysisMode string

const (
	ModeModelDriven     AnalysisMode = "full_llm_pipeline"
	ModePatternFallback AnalysisMode = "enhanced_pattern_matching"
)

// AnalyzeRequest is the body of an analysis request
type AnalyzeRequest struct {
	Filename string `json:"filename" binding:"required"`
	Content  string `json:"content"`   // Base64-encoded file bytes
	FileType string `json:"file_type"` // "pdf" or "txt"
}
