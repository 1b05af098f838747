package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/catalog"
	"paggie/trainer-app/internal/imaging"
	"paggie/trainer-app/internal/localcache"
	"paggie/trainer-app/internal/service"
	"paggie/trainer-app/internal/session"
	"paggie/trainer-app/internal/validation"
	"paggie/trainer-app/internal/wizard"
)

const (
	msgUnexpected  = "Erro inesperado. Tente novamente."
	msgUnknownKind = "Tipo de registro desconhecido."
	msgBadRequest  = "Requisição inválida."
)

// errorStatus maps service errors to HTTP statuses. Anything else is 500.
var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrInvalidRecovery, http.StatusUnauthorized},
	{service.ErrNotSignedIn, http.StatusUnauthorized},
	{session.ErrNotAuthenticated, http.StatusUnauthorized},
	{service.ErrAuthTimeout, http.StatusGatewayTimeout},
	{service.ErrPasswordMismatch, http.StatusBadRequest},
	{session.ErrUnknownMode, http.StatusBadRequest},
	{service.ErrWizardNotStarted, http.StatusNotFound},
	{service.ErrNoRecord, http.StatusNotFound},
	{service.ErrNoTrainingWizard, http.StatusConflict},
	{service.ErrStepBlocked, http.StatusConflict},
	{wizard.ErrNotLastStep, http.StatusConflict},
	{wizard.ErrUnknownField, http.StatusBadRequest},
	{wizard.ErrUnsupportedAction, http.StatusBadRequest},
	{wizard.ErrInvalidValue, http.StatusBadRequest},
	{wizard.ErrIndexOutOfRange, http.StatusBadRequest},
	{wizard.ErrLastWorkout, http.StatusBadRequest},
	{wizard.ErrUnknownDay, http.StatusBadRequest},
	{catalog.ErrUnknownCategory, http.StatusNotFound},
	{catalog.ErrUnknownItem, http.StatusNotFound},
	{service.ErrEmptySelection, http.StatusBadRequest},
	{service.ErrPhotosUnsupported, http.StatusBadRequest},
	{imaging.ErrDecode, http.StatusBadRequest},
	{service.ErrChatBusy, http.StatusConflict},
	{service.ErrLibraryDuplicate, http.StatusConflict},
	{service.ErrLibraryUnavailable, http.StatusServiceUnavailable},
	{localcache.ErrUnavailable, http.StatusServiceUnavailable},
	{localcache.ErrQuotaExceeded, http.StatusInsufficientStorage},
}

// respondError writes err with the status of its sentinel. Validation
// failures carry their own message.
func respondError(c *gin.Context, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		abortWithError(c, http.StatusBadRequest, verr.Message)
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			abortWithError(c, e.status, err.Error())
			return
		}
	}
	logrus.WithField("path", c.FullPath()).Errorf("unexpected error: %v", err)
	abortWithError(c, http.StatusInternalServerError, msgUnexpected)
}
