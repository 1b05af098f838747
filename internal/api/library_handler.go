package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paggie/trainer-app/internal/catalog"
	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/service"
)

// LibraryHandler serves the exercise picker.
type LibraryHandler struct {
	workspace *service.Workspace
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(workspace *service.Workspace) *LibraryHandler {
	return &LibraryHandler{workspace: workspace}
}

type SelectionRequest struct {
	ID string `json:"id" binding:"required"`
}

type CreateLibraryItemRequest struct {
	Category    string `json:"category" binding:"required"`
	Name        string `json:"name" binding:"required"`
	DefaultSets string `json:"defaultSets"`
	DefaultReps string `json:"defaultReps"`
}

// GetLibrary filters the catalog by ?category= and ?search=.
func (h *LibraryHandler) GetLibrary(c *gin.Context) {
	view, err := h.workspace.Library(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *LibraryHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.workspace.LibraryCategories(c.Request.Context()))
}

// ToggleSelection adds or removes one item from the selection.
func (h *LibraryHandler) ToggleSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	view, err := h.workspace.ToggleSelection(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetBatch changes the sets, reps and rest applied on import.
func (h *LibraryHandler) SetBatch(c *gin.Context) {
	var req catalog.Batch
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	c.JSON(http.StatusOK, h.workspace.SetBatch(c.Request.Context(), req))
}

// Import appends the selection to the active workout of the training draft.
func (h *LibraryHandler) Import(c *gin.Context) {
	state, err := h.workspace.ImportSelection(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// CreateCustom stores a trainer-defined exercise.
func (h *LibraryHandler) CreateCustom(c *gin.Context) {
	var req CreateLibraryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	item, err := h.workspace.CreateLibraryItem(c.Request.Context(), domain.LibraryItem{
		Category:    req.Category,
		Name:        req.Name,
		DefaultSets: req.DefaultSets,
		DefaultReps: req.DefaultReps,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}
