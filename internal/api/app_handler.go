package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/session"
)

// AppHandler exposes the top-level step machine.
type AppHandler struct {
	controller *session.Controller
}

// NewAppHandler creates a new AppHandler.
func NewAppHandler(controller *session.Controller) *AppHandler {
	return &AppHandler{controller: controller}
}

type SelectModeRequest struct {
	Mode domain.Mode `json:"mode" binding:"required"`
}

// State returns the current step, session and record flags.
func (h *AppHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Snapshot())
}

// SelectMode opens the screen of a mode selection entry.
func (h *AppHandler) SelectMode(c *gin.Context) {
	var req SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	h.respond(c, h.controller.SelectMode(req.Mode))
}

func (h *AppHandler) Home(c *gin.Context) {
	h.respond(c, h.controller.GoHome())
}

func (h *AppHandler) Back(c *gin.Context) {
	h.respond(c, h.controller.Back())
}

func (h *AppHandler) ForgotPassword(c *gin.Context) {
	h.controller.ForgotPassword()
	h.respond(c, nil)
}

func (h *AppHandler) SwitchToTraining(c *gin.Context) {
	h.respond(c, h.controller.SwitchToTraining())
}

func (h *AppHandler) SwitchToAssessment(c *gin.Context) {
	h.respond(c, h.controller.SwitchToAssessment())
}

func (h *AppHandler) EditProfile(c *gin.Context) {
	h.respond(c, h.controller.EditProfile())
}

func (h *AppHandler) respond(c *gin.Context, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.controller.Snapshot())
}
