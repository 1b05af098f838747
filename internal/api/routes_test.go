package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/export"
	"paggie/trainer-app/internal/instrumentation"
	"paggie/trainer-app/internal/localcache"
	"paggie/trainer-app/internal/repository"
	"paggie/trainer-app/internal/service"
	"paggie/trainer-app/internal/session"
)

const testSecret = "test-secret"

type memoryUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = *user
	return user.ID, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

type captureSender struct {
	mu    sync.Mutex
	token string
}

func (s *captureSender) SendRecovery(_ context.Context, _, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *captureSender) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

type echoNarrator struct{}

func (echoNarrator) GenerateAssessmentReport(context.Context, domain.Assessment) domain.AIAnalysisResult {
	return domain.AIAnalysisResult{AnalysisText: "Boa evolução."}
}

func (echoNarrator) SendChatMessage(_ context.Context, _ []domain.ChatMessage, msg string) string {
	return "eco: " + msg
}

type okExporter struct{}

func (okExporter) Export(_ context.Context, _ string, opts export.Options) export.Result {
	return export.Result{
		Success:  true,
		Artifact: &domain.Artifact{FileName: opts.Filename, ContentType: "application/pdf"},
		Data:     []byte("%PDF-1.4"),
	}
}

func (okExporter) ExportWorkbook(_ context.Context, _ domain.TrainingPlan, _ domain.TrainerProfile, opts export.Options) export.Result {
	return export.Result{Success: true, Artifact: &domain.Artifact{FileName: opts.Filename}, Data: []byte("PK")}
}

type apiFixture struct {
	router  *gin.Engine
	sender  *captureSender
	metrics *instrumentation.Instrumentation
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cache, err := localcache.Open(localcache.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	reg := prometheus.NewRegistry()
	metrics := instrumentation.NewInstrumentationWithRegisterer("paggie", "test", reg)
	sender := &captureSender{}
	auth := service.NewAuthService(&memoryUsers{users: map[primitive.ObjectID]domain.User{}}, sender, testSecret, time.Hour, time.Hour)
	profiles := service.NewProfileService(nil, cache, 0, metrics)

	ctrl := session.NewController(auth, profiles, session.Options{Interval: time.Millisecond})
	require.NoError(t, ctrl.Start(context.Background()))
	t.Cleanup(ctrl.Stop)

	ws := service.NewWorkspace(service.WorkspaceDeps{
		Controller: ctrl,
		Profiles:   profiles,
		Library:    service.NewLibraryService(nil, 0),
		Narrator:   echoNarrator{},
		Exporter:   okExporter{},
		Metrics:    metrics,
		Now:        func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(ws.Close)

	return &apiFixture{
		router: NewRouter(Dependencies{
			JWTSecret:  testSecret,
			Auth:       auth,
			Profiles:   profiles,
			Controller: ctrl,
			Workspace:  ws,
			Metrics:    metrics,
			Gatherer:   reg,
		}),
		sender:  sender,
		metrics: metrics,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) step(t *testing.T) domain.AppStep {
	t.Helper()
	w := f.do(t, http.MethodGet, "/api/v1/app", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap.Step
}

func (f *apiFixture) signIn(t *testing.T) string {
	t.Helper()
	creds := gin.H{"email": "coach@example.com", "password": "secret1"}
	w := f.do(t, http.MethodPost, "/api/v1/auth/signup", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/auth/signin", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SignInResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "coach@example.com", resp.User.Email)
	return resp.Token
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestPing(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestAuthFlow_OnboardingThenModeSelection(t *testing.T) {
	f := newAPIFixture(t)
	assert.Equal(t, domain.StepAuth, f.step(t))

	w := f.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{"email": "coach@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := f.signIn(t)
	assert.Equal(t, domain.StepOnboarding, f.step(t))

	w = f.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "coach@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{"name": "Coach Ana"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StepModeSelection, f.step(t))

	w = f.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile domain.TrainerProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Coach Ana", profile.Name)
	assert.NotEmpty(t, profile.PrimaryColor)
}

func TestProtectedRoutes_RequireOpenSession(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/chat", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/chat", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := f.signIn(t)
	w = f.do(t, http.MethodGet, "/api/v1/chat", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/signout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, domain.StepAuth, f.step(t))

	w = f.do(t, http.MethodGet, "/api/v1/chat", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordRecovery(t *testing.T) {
	f := newAPIFixture(t)
	f.signIn(t)

	w := f.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{"email": "unknown@example.com"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, f.sender.last())

	w = f.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", gin.H{"email": "coach@example.com"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	token := f.sender.last()
	require.NotEmpty(t, token)

	w = f.do(t, http.MethodPost, "/api/v1/auth/recover", "", gin.H{"token": "bogus"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/recover", "", gin.H{"token": token})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, domain.StepResetPassword, f.step(t))

	// Recovery tokens do not open protected routes.
	w = f.do(t, http.MethodGet, "/api/v1/chat", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{"newPassword": "novasenha", "confirmPassword": "outra"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", gin.H{"newPassword": "novasenha", "confirmPassword": "novasenha"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StepAuth, f.step(t))

	w = f.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{"email": "coach@example.com", "password": "novasenha"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNavigation_BackFromForgotPassword(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/navigation/forgot-password", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StepForgotPassword, f.step(t))

	w = f.do(t, http.MethodPost, "/api/v1/navigation/back", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StepAuth, f.step(t))
}

func TestNavigation_SelectMode(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signIn(t)

	w := f.do(t, http.MethodPost, "/api/v1/navigation/mode", token, gin.H{"mode": "anamnese"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StepAnamneseForm, f.step(t))

	w = f.do(t, http.MethodPost, "/api/v1/navigation/mode", token, gin.H{"mode": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/navigation/switch-training", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StepTrainingForm, f.step(t))
}

func TestWizardRoutes(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signIn(t)

	w := f.do(t, http.MethodPost, "/api/v1/wizards/bogus", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, msgUnknownKind, errorMessage(t, w))

	w = f.do(t, http.MethodGet, "/api/v1/wizards/anamnese", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state struct {
		Step  int `json:"step"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, 1, state.Step)

	w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese/next", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese/actions", token, gin.H{"type": "setText", "field": "studentName", "value": "João"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese/next", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, 2, state.Step)

	w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese/complete", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese/actions", token, gin.H{"type": "teleport"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportRoutes(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signIn(t)

	w := f.do(t, http.MethodGet, "/api/v1/reports/assessment", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/reports/training/workbook", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese/actions", token, gin.H{"type": "setText", "field": "studentName", "value": "João Pé"})
	require.Equal(t, http.StatusOK, w.Code)
	for i := 0; i < 3; i++ {
		w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese/next", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w = f.do(t, http.MethodPost, "/api/v1/wizards/anamnese/complete", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StepAnamneseReport, f.step(t))

	w = f.do(t, http.MethodGet, "/api/v1/reports/anamnese/view", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "report-content")

	w = f.do(t, http.MethodPost, "/api/v1/reports/anamnese/export", token, gin.H{"type": "pdf"})
	require.Equal(t, http.StatusOK, w.Code)
	var result export.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)

	w = f.do(t, http.MethodPost, "/api/v1/reports/anamnese/export?download=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Joao_Pe")
	assert.Equal(t, "%PDF-1.4", w.Body.String())

	w = f.do(t, http.MethodDelete, "/api/v1/artifacts/not-an-id", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = f.do(t, http.MethodDelete, "/api/v1/artifacts/not-an-id", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLibraryRoutes(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signIn(t)

	w := f.do(t, http.MethodGet, "/api/v1/library?category=Peito", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Category string               `json:"category"`
		Items    []domain.LibraryItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Peito", view.Category)
	require.NotEmpty(t, view.Items)

	w = f.do(t, http.MethodPost, "/api/v1/library/selection", token, gin.H{"id": view.Items[0].ID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/library/import", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/library/custom", token, gin.H{"category": "Todos", "name": "Remada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/library/custom", token, gin.H{"category": "Costas", "name": "Remada"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChatRoutes(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signIn(t)

	w := f.do(t, http.MethodPost, "/api/v1/chat", token, gin.H{"message": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/chat", token, gin.H{"message": "Oi"})
	require.Equal(t, http.StatusOK, w.Code)
	var history []domain.ChatMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 3)
	assert.Equal(t, service.ChatWelcomeID, history[0].ID)
	assert.Equal(t, "eco: Oi", history[2].Text)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.do(t, http.MethodGet, "/ping", "", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterRequests.WithLabelValues(http.MethodGet, "200")))

	w := f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "paggie_test_request")
}

func TestPanicRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := instrumentation.NewTestInstrumentation()
	router := gin.New()
	router.Use(PanicRecovery(metrics), RequestMetrics(metrics))
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgUnexpected, errorMessage(t, w))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CounterHandleRequestPanic))
}
