package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/domain"
)

// AnalyzingInterval is the cadence of the analyzing status text.
const AnalyzingInterval = 800 * time.Millisecond

var (
	ErrNotAuthenticated = errors.New("Sessão expirada. Faça login novamente.")
	ErrUnknownMode      = errors.New("Modo desconhecido.")
	ErrAlreadyStarted   = errors.New("session controller already started")
)

// StepChange is passed to the OnStep hook.
type StepChange struct {
	From domain.AppStep
	To   domain.AppStep
}

// Options configure a Controller.
type Options struct {
	// Interval overrides AnalyzingInterval.
	Interval time.Duration
	// OnStep observes every step change. It runs with the controller
	// locked and must not call back into it.
	OnStep func(StepChange)
}

// Controller is the top-level step machine. It is safe for concurrent use.
type Controller struct {
	observer Observer
	profiles ProfileSource
	interval time.Duration
	onStep   func(StepChange)

	mu          sync.Mutex
	step        domain.AppStep
	session     *Session
	profile     *domain.TrainerProfile
	records     Records
	processing  Processing
	loadingText string
	stopCycle   chan struct{}
	unsubscribe func()

	wg sync.WaitGroup
}

// NewController creates a controller showing the auth screen.
func NewController(observer Observer, profiles ProfileSource, opts Options) *Controller {
	interval := opts.Interval
	if interval <= 0 {
		interval = AnalyzingInterval
	}
	return &Controller{
		observer: observer,
		profiles: profiles,
		interval: interval,
		onStep:   opts.OnStep,
		step:     domain.StepAuth,
	}
}

// Start probes the current session and subscribes to auth changes.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.unsubscribe = func() {}
	c.mu.Unlock()

	current, err := c.observer.Current(ctx)
	if err != nil {
		logrus.Warnf("failed to probe session: %v", err)
		current = nil
	}
	c.handleSession(ctx, current)

	unsubscribe := c.observer.Subscribe(func(e Event, s *Session) {
		c.HandleEvent(context.Background(), e, s)
	})
	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return nil
}

// Stop unsubscribes and stops the analyzing ticker.
func (c *Controller) Stop() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.stopCycleLocked()
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	c.wg.Wait()
}

// HandleEvent applies an auth event. A recovery event always opens the
// reset password screen.
func (c *Controller) HandleEvent(ctx context.Context, e Event, s *Session) {
	logrus.WithField("event", e).Debug("auth state changed")
	if e == EventPasswordRecovery {
		c.mu.Lock()
		c.session = cloneSession(s)
		c.setStepLocked(domain.StepResetPassword)
		c.mu.Unlock()
		return
	}
	c.handleSession(ctx, s)
}

func (c *Controller) handleSession(ctx context.Context, s *Session) {
	if s == nil {
		c.mu.Lock()
		c.session = nil
		c.profile = nil
		c.records = Records{}
		c.setStepLocked(domain.StepAuth)
		c.mu.Unlock()
		return
	}

	var profile *domain.TrainerProfile
	if c.profiles != nil {
		p, err := c.profiles.Load(ctx, s.UserID)
		if err != nil {
			logrus.WithField("user", s.UserID).Warnf("profile not loaded: %v", err)
		}
		profile = p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = cloneSession(s)
	c.profile = profile
	if profile != nil {
		c.setStepLocked(domain.StepModeSelection)
	} else {
		c.setStepLocked(domain.StepOnboarding)
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Step:          c.step,
		Session:       cloneSession(c.session),
		Processing:    c.processing,
		AnalyzingText: c.loadingText,
		HasAssessment: c.records.Assessment != nil,
		HasAnalysis:   c.records.Analysis != nil,
		HasPlan:       c.records.Plan != nil,
		HasAnamnese:   c.records.Anamnese != nil,
		HasPhysical:   c.records.Physical != nil,
	}
	if c.profile != nil {
		p := *c.profile
		snap.Profile = &p
	}
	if snap.Session != nil {
		snap.Session.Token = ""
	}
	return snap
}

// Step returns the current step.
func (c *Controller) Step() domain.AppStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Session returns the signed-in session, or nil.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSession(c.session)
}

// Profile returns the trainer profile, or nil before onboarding.
func (c *Controller) Profile() *domain.TrainerProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return nil
	}
	p := *c.profile
	return &p
}

// Records returns a copy of the finished records.
func (c *Controller) Records() Records {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records.clone()
}

// SelectMode opens the screen of mode.
func (c *Controller) SelectMode(mode domain.Mode) error {
	to, ok := mode.Step()
	if !ok {
		return ErrUnknownMode
	}
	return c.navigate(to)
}

// EditProfile reopens onboarding with the current profile.
func (c *Controller) EditProfile() error {
	return c.navigate(domain.StepOnboarding)
}

// ProfileSaved stores the profile and goes to mode selection.
func (c *Controller) ProfileSaved(p domain.TrainerProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotAuthenticated
	}
	c.profile = &p
	c.setStepLocked(domain.StepModeSelection)
	return nil
}

// GoHome returns to mode selection.
func (c *Controller) GoHome() error {
	return c.navigate(domain.StepModeSelection)
}

// ForgotPassword opens the recovery request screen.
func (c *Controller) ForgotPassword() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStepLocked(domain.StepForgotPassword)
}

// Back leaves a report for its form, the recovery screen for sign in and
// anything else for mode selection.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case domain.StepForgotPassword, domain.StepResetPassword:
		c.setStepLocked(domain.StepAuth)
		return nil
	case domain.StepAuth:
		return nil
	}
	if c.session == nil {
		return ErrNotAuthenticated
	}
	switch c.step {
	case domain.StepReport:
		c.setStepLocked(domain.StepAssessment)
	case domain.StepTrainingReport:
		c.setStepLocked(domain.StepTrainingForm)
	case domain.StepAnamneseReport:
		c.setStepLocked(domain.StepAnamneseForm)
	case domain.StepPhysicalAssessmentReport:
		c.setStepLocked(domain.StepPhysicalAssessmentForm)
	default:
		c.setStepLocked(domain.StepModeSelection)
	}
	return nil
}

// SwitchToTraining shows the training report when a plan exists, the
// training form otherwise.
func (c *Controller) SwitchToTraining() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotAuthenticated
	}
	if c.records.Plan != nil {
		c.setStepLocked(domain.StepTrainingReport)
	} else {
		c.setStepLocked(domain.StepTrainingForm)
	}
	return nil
}

// SwitchToAssessment shows the assessment report when both the assessment
// and its analysis exist, the assessment form otherwise.
func (c *Controller) SwitchToAssessment() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotAuthenticated
	}
	if c.records.Assessment != nil && c.records.Analysis != nil {
		c.setStepLocked(domain.StepReport)
	} else {
		c.setStepLocked(domain.StepAssessment)
	}
	return nil
}

// AssessmentCompleted stores a and shows the analyzing screen until
// AnalysisReady is called.
func (c *Controller) AssessmentCompleted(a domain.Assessment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotAuthenticated
	}
	c.records.Assessment = &a
	c.records.Analysis = nil
	c.processing = ProcessingAssessment
	c.setStepLocked(domain.StepAnalyzing)
	return nil
}

// AnalysisReady stores the narrative of the latest assessment and opens the
// report if the analyzing screen is still showing.
func (c *Controller) AnalysisReady(result domain.AIAnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.records.Assessment == nil {
		return
	}
	c.records.Analysis = &result
	if c.step == domain.StepAnalyzing && c.processing == ProcessingAssessment {
		c.setStepLocked(domain.StepReport)
	}
}

// TrainingCompleted stores p and passes through the analyzing screen to
// the training report.
func (c *Controller) TrainingCompleted(p domain.TrainingPlan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotAuthenticated
	}
	c.records.Plan = &p
	c.processing = ProcessingTraining
	c.setStepLocked(domain.StepAnalyzing)
	c.setStepLocked(domain.StepTrainingReport)
	return nil
}

// AnamneseCompleted stores a and opens its report.
func (c *Controller) AnamneseCompleted(a domain.Anamnese) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotAuthenticated
	}
	c.records.Anamnese = &a
	c.setStepLocked(domain.StepAnamneseReport)
	return nil
}

// PhysicalCompleted stores p and opens its report.
func (c *Controller) PhysicalCompleted(p domain.PhysicalAssessment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotAuthenticated
	}
	c.records.Physical = &p
	c.setStepLocked(domain.StepPhysicalAssessmentReport)
	return nil
}

func (c *Controller) navigate(to domain.AppStep) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNotAuthenticated
	}
	c.setStepLocked(to)
	return nil
}

func (c *Controller) setStepLocked(to domain.AppStep) {
	from := c.step
	if from == to {
		return
	}
	if from == domain.StepAnalyzing {
		c.stopCycleLocked()
	}
	c.step = to
	if to == domain.StepAnalyzing {
		c.startCycleLocked()
	}
	logrus.WithFields(logrus.Fields{"from": from, "to": to}).Debug("step changed")
	if c.onStep != nil {
		c.onStep(StepChange{From: from, To: to})
	}
}

// startCycleLocked shows the first status line and advances it every
// interval until the step changes.
func (c *Controller) startCycleLocked() {
	c.stopCycleLocked()
	messages := analyzingMessages[c.processing]
	if len(messages) == 0 {
		return
	}
	c.loadingText = messages[0]
	stop := make(chan struct{})
	c.stopCycle = stop

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.mu.Lock()
				select {
				case <-stop:
					c.mu.Unlock()
					return
				default:
				}
				i = (i + 1) % len(messages)
				c.loadingText = messages[i]
				c.mu.Unlock()
			}
		}
	}()
}

func (c *Controller) stopCycleLocked() {
	if c.stopCycle != nil {
		close(c.stopCycle)
		c.stopCycle = nil
	}
	c.loadingText = ""
}

func cloneSession(s *Session) *Session {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
