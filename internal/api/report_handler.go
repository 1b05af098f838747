package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/export"
	"paggie/trainer-app/internal/service"
)

const defaultArtifactLimit = 20

// ReportHandler renders and exports finished records.
type ReportHandler struct {
	workspace *service.Workspace
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(workspace *service.Workspace) *ReportHandler {
	return &ReportHandler{workspace: workspace}
}

type ExportRequest struct {
	Type string `json:"type"`
}

// GetReport returns the report document as JSON.
func (h *ReportHandler) GetReport(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	doc, err := h.workspace.Report(kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetView returns the printable HTML of the report.
func (h *ReportHandler) GetView(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	view, err := h.workspace.ReportView(kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(view))
}

// Export rasterizes the report. With ?download=true the file itself is
// returned instead of the result.
func (h *ReportHandler) Export(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	var req ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, msgBadRequest)
			return
		}
	}
	result, err := h.workspace.Export(c.Request.Context(), kind, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeResult(c, result, "application/pdf", c.Query("download") == "true")
}

// Workbook exports the training plan as a spreadsheet download.
func (h *ReportHandler) Workbook(c *gin.Context) {
	result, err := h.workspace.ExportWorkbook(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeResult(c, result, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true)
}

// ListArtifacts returns the trainer's latest exports.
func (h *ReportHandler) ListArtifacts(c *gin.Context) {
	limit := int64(defaultArtifactLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, msgBadRequest)
			return
		}
		limit = n
	}
	artifacts, err := h.workspace.Artifacts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifacts)
}

// DeleteArtifact removes an export and its stored file.
func (h *ReportHandler) DeleteArtifact(c *gin.Context) {
	if err := h.workspace.DeleteArtifact(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReportHandler) writeResult(c *gin.Context, result export.Result, contentType string, download bool) {
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	if !download || len(result.Data) == 0 {
		c.JSON(http.StatusOK, result)
		return
	}
	filename := "relatorio"
	if result.Artifact != nil {
		filename = result.Artifact.FileName
		contentType = artifactContentType(result.Artifact, contentType)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, result.Data)
}

func artifactContentType(a *domain.Artifact, fallback string) string {
	if a.ContentType != "" {
		return a.ContentType
	}
	return fallback
}
