package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"paggie/trainer-app/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeObserver struct {
	mu        sync.Mutex
	current   *Session
	err       error
	listeners map[int]Listener
	next      int
}

func (o *fakeObserver) Current(context.Context) (*Session, error) {
	return o.current, o.err
}

func (o *fakeObserver) Subscribe(l Listener) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.listeners == nil {
		o.listeners = map[int]Listener{}
	}
	id := o.next
	o.next++
	o.listeners[id] = l
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.listeners, id)
	}
}

func (o *fakeObserver) emit(e Event, s *Session) {
	o.mu.Lock()
	ls := make([]Listener, 0, len(o.listeners))
	for _, l := range o.listeners {
		ls = append(ls, l)
	}
	o.mu.Unlock()
	for _, l := range ls {
		l(e, s)
	}
}

type fakeProfiles map[string]*domain.TrainerProfile

func (f fakeProfiles) Load(_ context.Context, userID string) (*domain.TrainerProfile, error) {
	if p, ok := f[userID]; ok {
		return p, nil
	}
	return nil, nil
}

var trainer = &Session{UserID: "u1", Email: "coach@example.com", Token: "tok"}

func startController(t *testing.T, obs *fakeObserver, profiles ProfileSource) *Controller {
	t.Helper()
	c := NewController(obs, profiles, Options{Interval: 5 * time.Millisecond})
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Stop)
	return c
}

func TestStart_Routing(t *testing.T) {
	tests := []struct {
		name     string
		current  *Session
		err      error
		profiles fakeProfiles
		want     domain.AppStep
	}{
		{name: "no session", want: domain.StepAuth},
		{name: "probe failure", err: errors.New("offline"), want: domain.StepAuth},
		{name: "no profile", current: trainer, profiles: fakeProfiles{}, want: domain.StepOnboarding},
		{
			name:     "with profile",
			current:  trainer,
			profiles: fakeProfiles{"u1": {ID: "u1", Name: "Coach"}},
			want:     domain.StepModeSelection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := startController(t, &fakeObserver{current: tt.current, err: tt.err}, tt.profiles)
			assert.Equal(t, tt.want, c.Step())
		})
	}
}

func TestStart_Twice(t *testing.T) {
	c := startController(t, &fakeObserver{}, nil)
	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyStarted)
}

func TestEvents(t *testing.T) {
	obs := &fakeObserver{}
	c := startController(t, obs, fakeProfiles{"u1": {ID: "u1", Name: "Coach"}})
	require.Equal(t, domain.StepAuth, c.Step())

	obs.emit(EventSignedIn, trainer)
	assert.Equal(t, domain.StepModeSelection, c.Step())
	require.NotNil(t, c.Profile())
	assert.Equal(t, "Coach", c.Profile().Name)

	require.NoError(t, c.AnamneseCompleted(domain.Anamnese{}))
	assert.True(t, c.Snapshot().HasAnamnese)

	obs.emit(EventSignedOut, nil)
	assert.Equal(t, domain.StepAuth, c.Step())
	assert.Nil(t, c.Session())
	assert.False(t, c.Snapshot().HasAnamnese)

	obs.emit(EventPasswordRecovery, &Session{UserID: "u1", Recovery: true})
	assert.Equal(t, domain.StepResetPassword, c.Step())
}

func TestStop_Unsubscribes(t *testing.T) {
	obs := &fakeObserver{}
	c := NewController(obs, nil, Options{})
	require.NoError(t, c.Start(context.Background()))
	c.Stop()

	obs.emit(EventSignedIn, trainer)
	assert.Equal(t, domain.StepAuth, c.Step())
}

func TestNavigation_RequiresSession(t *testing.T) {
	c := startController(t, &fakeObserver{}, nil)
	assert.ErrorIs(t, c.SelectMode(domain.ModeTraining), ErrNotAuthenticated)
	assert.ErrorIs(t, c.GoHome(), ErrNotAuthenticated)
	assert.ErrorIs(t, c.SwitchToTraining(), ErrNotAuthenticated)
	assert.ErrorIs(t, c.ProfileSaved(domain.TrainerProfile{Name: "x"}), ErrNotAuthenticated)

	c.ForgotPassword()
	assert.Equal(t, domain.StepForgotPassword, c.Step())
	require.NoError(t, c.Back())
	assert.Equal(t, domain.StepAuth, c.Step())
}

func TestSelectMode(t *testing.T) {
	c := startController(t, &fakeObserver{current: trainer}, fakeProfiles{})
	require.Equal(t, domain.StepOnboarding, c.Step())
	require.NoError(t, c.ProfileSaved(domain.TrainerProfile{ID: "u1", Name: "Coach"}))
	assert.Equal(t, domain.StepModeSelection, c.Step())

	assert.ErrorIs(t, c.SelectMode("yoga"), ErrUnknownMode)
	require.NoError(t, c.SelectMode(domain.ModeLibrary))
	assert.Equal(t, domain.StepLibrary, c.Step())
	require.NoError(t, c.Back())
	assert.Equal(t, domain.StepModeSelection, c.Step())

	require.NoError(t, c.EditProfile())
	assert.Equal(t, domain.StepOnboarding, c.Step())
}

func TestSmartSwitch(t *testing.T) {
	c := startController(t, &fakeObserver{current: trainer}, fakeProfiles{"u1": {Name: "Coach"}})

	require.NoError(t, c.SwitchToTraining())
	assert.Equal(t, domain.StepTrainingForm, c.Step())
	require.NoError(t, c.SwitchToAssessment())
	assert.Equal(t, domain.StepAssessment, c.Step())

	require.NoError(t, c.TrainingCompleted(domain.TrainingPlan{StudentName: "Ana"}))
	assert.Equal(t, domain.StepTrainingReport, c.Step())
	assert.Empty(t, c.Snapshot().AnalyzingText)

	require.NoError(t, c.SwitchToAssessment())
	assert.Equal(t, domain.StepAssessment, c.Step())
	require.NoError(t, c.SwitchToTraining())
	assert.Equal(t, domain.StepTrainingReport, c.Step())

	require.NoError(t, c.Back())
	assert.Equal(t, domain.StepTrainingForm, c.Step())
}

func TestAssessmentAnalyzing(t *testing.T) {
	var (
		mu      sync.Mutex
		changes []StepChange
	)
	obs := &fakeObserver{current: trainer}
	c := NewController(obs, fakeProfiles{"u1": {Name: "Coach"}}, Options{
		Interval: 5 * time.Millisecond,
		OnStep: func(sc StepChange) {
			mu.Lock()
			changes = append(changes, sc)
			mu.Unlock()
		},
	})
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	require.NoError(t, c.AssessmentCompleted(domain.Assessment{StudentName: "Ana"}))
	snap := c.Snapshot()
	assert.Equal(t, domain.StepAnalyzing, snap.Step)
	assert.Equal(t, ProcessingAssessment, snap.Processing)
	assert.Equal(t, "Conectando Neural Engine...", snap.AnalyzingText)

	messages := AnalyzingMessages(ProcessingAssessment)
	assert.Eventually(t, func() bool {
		return c.Snapshot().AnalyzingText == messages[1]
	}, time.Second, time.Millisecond)

	c.AnalysisReady(domain.AIAnalysisResult{Conclusion: "ok"})
	snap = c.Snapshot()
	assert.Equal(t, domain.StepReport, snap.Step)
	assert.True(t, snap.HasAnalysis)
	assert.Empty(t, snap.AnalyzingText)

	require.NoError(t, c.Back())
	assert.Equal(t, domain.StepAssessment, c.Step())
	require.NoError(t, c.SwitchToAssessment())
	assert.Equal(t, domain.StepReport, c.Step())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, changes)
	assert.Equal(t, domain.StepModeSelection, changes[0].To)
}

func TestAnalysisReady_AfterLeaving(t *testing.T) {
	c := startController(t, &fakeObserver{current: trainer}, fakeProfiles{"u1": {Name: "Coach"}})
	require.NoError(t, c.AssessmentCompleted(domain.Assessment{}))
	require.NoError(t, c.GoHome())

	c.AnalysisReady(domain.AIAnalysisResult{Conclusion: "late"})
	assert.Equal(t, domain.StepModeSelection, c.Step())
	require.NotNil(t, c.Records().Analysis)
	assert.Equal(t, "late", c.Records().Analysis.Conclusion)
}

func TestSnapshot_HidesToken(t *testing.T) {
	c := startController(t, &fakeObserver{current: trainer}, nil)
	snap := c.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Empty(t, snap.Session.Token)
	assert.Equal(t, "tok", c.Session().Token)
}

func TestAnalyzingMessages_Copy(t *testing.T) {
	m := AnalyzingMessages(ProcessingTraining)
	require.Len(t, m, 4)
	m[0] = "x"
	assert.Equal(t, "Estruturando periodização...", AnalyzingMessages(ProcessingTraining)[0])
}
