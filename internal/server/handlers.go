package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/analyze"
	"github.com/ppiankov/claimaudit/internal/ingest"
	"github.com/ppiankov/claimaudit/internal/model"
)

type errorBody struct {
	Detail string `json:"detail"`
}

type rootResponse struct {
	Message       string   `json:"message"`
	Version       string   `json:"version"`
	PDFProcessing bool     `json:"pdf_processing"`
	FullPipeline  bool     `json:"full_pipeline"`
	Features      []string `json:"features"`
}

type statusResponse struct {
	Status        string             `json:"status"`
	Message       string             `json:"message"`
	PDFProcessing bool               `json:"pdf_processing"`
	FullPipeline  bool               `json:"full_pipeline"`
	WebScraping   bool               `json:"web_scraping"`
	AnalysisMode  model.AnalysisMode `json:"analysis_mode"`
}

func (s *Server) fullPipeline() bool {
	return s.analyzer != nil && s.analyzer.Mode() == model.ModeModelDriven
}

func (s *Server) mode() model.AnalysisMode {
	if s.analyzer == nil {
		return model.ModePatternFallback
	}
	return s.analyzer.Mode()
}

func (s *Server) handleRoot(c *gin.Context) {
	extraction := "Enhanced pattern matching"
	if s.fullPipeline() {
		extraction = "Full LLM pipeline with evidence retrieval"
	}
	c.JSON(http.StatusOK, rootResponse{
		Message:       "Robust Professional Document Audit API",
		Version:       Version,
		PDFProcessing: true,
		FullPipeline:  s.fullPipeline(),
		Features: []string{
			"Real PDF text extraction with cleaning",
			extraction,
			"Comprehensive claim analysis",
			"Professional verdict assessment",
			"Multi-category classification",
			"Evidence-based reasoning",
		},
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{
		Status:        "ok",
		Message:       "Robust professional server running",
		PDFProcessing: true,
		FullPipeline:  s.fullPipeline(),
		WebScraping:   s.reviews != nil,
		AnalysisMode:  s.mode(),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if s.analyzer == nil {
		respondError(c, http.StatusInternalServerError, "Robust analysis failed: analyzer not configured")
		return
	}

	s.logger.Info("analyzing document",
		zap.String("filename", req.Filename),
		zap.String("file_type", req.FileType))

	report, err := s.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		status, detail := analyzeError(req.Filename, err)
		respondError(c, status, detail)
		return
	}
	c.JSON(http.StatusOK, report)
}

// analyzeError maps analysis failures to a status and a client-facing detail
func analyzeError(filename string, err error) (int, string) {
	switch {
	case errors.Is(err, analyze.ErrInvalidContent):
		return http.StatusBadRequest, "Invalid base64 content: " + cause(err, analyze.ErrInvalidContent)
	case errors.Is(err, ingest.ErrPDFExtraction):
		return http.StatusInternalServerError, "Error extracting PDF: " + cause(err, ingest.ErrPDFExtraction)
	case errors.Is(err, analyze.ErrInsufficientContent), errors.Is(err, ingest.ErrNoReadableText):
		return http.StatusBadRequest, fmt.Sprintf("Insufficient content extracted from %s. "+
			"Please ensure the document contains substantial institutional content with verifiable claims.", filename)
	case errors.Is(err, analyze.ErrNoClaims):
		return http.StatusBadRequest, fmt.Sprintf("No verifiable institutional claims found in %s. "+
			"Please ensure the document contains specific performance metrics, financial data, "+
			"policy statements, or operational claims with quantifiable results.", filename)
	}
	return http.StatusInternalServerError, "Robust analysis failed: " + err.Error()
}

// cause strips the "<sentinel>: " prefix from a wrapped error message
func cause(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return msg
}

func (s *Server) handleReviews(c *gin.Context) {
	university := strings.TrimSpace(c.Query("university"))
	if university == "" {
		respondError(c, http.StatusBadRequest, "University name is required")
		return
	}

	result, err := s.reviews.Search(c.Request.Context(), university)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "University search failed: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

func respondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, errorBody{Detail: detail})
}
