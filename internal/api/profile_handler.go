package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/service"
	"paggie/trainer-app/internal/session"
)

// ProfileHandler reads and saves the trainer profile.
type ProfileHandler struct {
	profiles   service.ProfileService
	workspace  *service.Workspace
	controller *session.Controller
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles service.ProfileService, workspace *service.Workspace, controller *session.Controller) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, workspace: workspace, controller: controller}
}

type ProfileRequest struct {
	Name           string `json:"name" binding:"required"`
	LogoURL        string `json:"logoUrl"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}

// GetProfile returns the loaded profile, or 404 before onboarding.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile := h.controller.Profile()
	if profile == nil {
		abortWithError(c, http.StatusNotFound, "Perfil não encontrado.")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfile stores the profile and moves on to mode selection.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	saved, err := h.workspace.SaveProfile(c.Request.Context(), domain.TrainerProfile{
		Name:           req.Name,
		LogoURL:        req.LogoURL,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// UploadLogo turns an uploaded image into a data URL for the profile form.
func (h *ProfileHandler) UploadLogo(c *gin.Context) {
	dataURL, err := ingestUpload(c, h.workspace, "file")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logoUrl": dataURL})
}

// StorageUsage reports the local cache occupancy.
func (h *ProfileHandler) StorageUsage(c *gin.Context) {
	usage, err := h.profiles.Usage()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}
