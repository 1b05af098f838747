package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/service"
	"paggie/trainer-app/internal/validation"
	"paggie/trainer-app/internal/wizard"
)

var errMissingUpload = &validation.Error{Message: "Nenhum arquivo enviado."}

// WizardHandler drives the record wizards.
type WizardHandler struct {
	workspace *service.Workspace
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(workspace *service.Workspace) *WizardHandler {
	return &WizardHandler{workspace: workspace}
}

type JumpRequest struct {
	Step int `json:"step" binding:"required,min=1"`
}

// Start opens a fresh draft.
func (h *WizardHandler) Start(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	h.respond(c, func() (wizard.State, error) { return h.workspace.StartWizard(kind) })
}

// Get returns the current draft.
func (h *WizardHandler) Get(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	h.respond(c, func() (wizard.State, error) { return h.workspace.Wizard(kind) })
}

// Dispatch applies one field action to the draft.
func (h *WizardHandler) Dispatch(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	var env wizard.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	h.respond(c, func() (wizard.State, error) { return h.workspace.Dispatch(kind, env) })
}

func (h *WizardHandler) Next(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	h.respond(c, func() (wizard.State, error) { return h.workspace.Next(kind) })
}

func (h *WizardHandler) Prev(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	h.respond(c, func() (wizard.State, error) { return h.workspace.Prev(kind) })
}

func (h *WizardHandler) Jump(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	var req JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	h.respond(c, func() (wizard.State, error) { return h.workspace.Jump(kind, req.Step) })
}

// Complete hands the finished record to the app and returns the new app state.
func (h *WizardHandler) Complete(c *gin.Context) {
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	snap, err := h.workspace.Complete(c.Request.Context(), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UploadPhoto stores a progress photo into the assessment draft.
func (h *WizardHandler) UploadPhoto(c *gin.Context) {
	slot := domain.PhotoSlot(c.Param("slot"))
	header, f, err := openUpload(c, "file")
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	state, err := h.workspace.SetPhoto(domain.KindAssessment, slot, header, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *WizardHandler) respond(c *gin.Context, fn func() (wizard.State, error)) {
	state, err := fn()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// recordKindParam reads :kind, answering 404 for unknown kinds.
func recordKindParam(c *gin.Context) (domain.RecordKind, bool) {
	kind, ok := domain.ParseRecordKind(c.Param("kind"))
	if !ok {
		abortWithError(c, http.StatusNotFound, msgUnknownKind)
		return "", false
	}
	return kind, true
}

// openUpload opens the multipart file in field.
func openUpload(c *gin.Context, field string) (validation.File, multipart.File, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return validation.File{}, nil, errMissingUpload
		}
		return validation.File{}, nil, &validation.Error{Message: msgBadRequest}
	}
	f, err := fileHeader.Open()
	if err != nil {
		return validation.File{}, nil, errMissingUpload
	}
	return validation.File{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}, f, nil
}

// ingestUpload reads the multipart file in field and returns it as a
// compressed data URL.
func ingestUpload(c *gin.Context, workspace *service.Workspace, field string) (string, error) {
	header, f, err := openUpload(c, field)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return workspace.IngestImage(header, f)
}
