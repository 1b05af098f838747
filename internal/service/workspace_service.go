package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"paggie/trainer-app/internal/catalog"
	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/export"
	"paggie/trainer-app/internal/imaging"
	"paggie/trainer-app/internal/instrumentation"
	"paggie/trainer-app/internal/report"
	"paggie/trainer-app/internal/repository"
	"paggie/trainer-app/internal/session"
	"paggie/trainer-app/internal/storage"
	"paggie/trainer-app/internal/validation"
	"paggie/trainer-app/internal/wizard"
)

// --- Error Definitions ---
var (
	ErrWizardNotStarted  = errors.New("Formulário não iniciado.")
	ErrStepBlocked       = errors.New("Não é possível mudar de etapa. Preencha o nome do aluno.")
	ErrNoRecord          = errors.New("Nenhum relatório disponível.")
	ErrNoTrainingWizard  = errors.New("Abra o formulário de treino antes de importar exercícios.")
	ErrEmptySelection    = errors.New("Selecione ao menos um exercício.")
	ErrChatBusy          = errors.New("Aguarde a resposta anterior.")
	ErrPhotosUnsupported = errors.New("Fotos só podem ser enviadas na avaliação.")
)

// ChatWelcomeID marks the greeting, which is never sent to the model.
const ChatWelcomeID = "welcome"

// Narrator writes report narratives and answers chat messages.
type Narrator interface {
	GenerateAssessmentReport(ctx context.Context, a domain.Assessment) domain.AIAnalysisResult
	SendChatMessage(ctx context.Context, history []domain.ChatMessage, msg string) string
}

// ReportExporter produces downloadable files from report views.
type ReportExporter interface {
	Export(ctx context.Context, view string, opts export.Options) export.Result
	ExportWorkbook(ctx context.Context, plan domain.TrainingPlan, trainer domain.TrainerProfile, opts export.Options) export.Result
}

// WorkspaceDeps wires a Workspace.
type WorkspaceDeps struct {
	Controller *session.Controller
	Profiles   ProfileService
	Library    LibraryService
	Narrator   Narrator
	Exporter   ReportExporter
	// Artifacts may be nil when no metadata store is configured.
	Artifacts repository.ArtifactRepository
	// Files holds the exported files behind Artifacts. May be nil.
	Files   storage.FileStorage
	Images  imaging.Options
	Metrics *instrumentation.Instrumentation
	Now     func() time.Time
	NewID   func() string
}

// Workspace is the trainer's working state between requests: the live
// wizards, the library picker and the chat. It is safe for concurrent use.
type Workspace struct {
	deps WorkspaceDeps

	mu        sync.Mutex
	wizards   map[domain.RecordKind]wizard.Flow
	picker    *catalog.Picker
	chat      []domain.ChatMessage
	chatBusy  bool
	analysisN uint64

	wg sync.WaitGroup
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(deps WorkspaceDeps) *Workspace {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Workspace{
		deps:    deps,
		wizards: map[domain.RecordKind]wizard.Flow{},
	}
}

// Close waits for background narrative generation.
func (w *Workspace) Close() {
	w.wg.Wait()
}

// Reset drops every draft, the picker and the chat, e.g. after sign out.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.wizards = map[domain.RecordKind]wizard.Flow{}
	w.picker = nil
	w.chat = nil
	w.analysisN++
}

// SaveProfile persists the profile and leaves onboarding.
func (w *Workspace) SaveProfile(ctx context.Context, profile domain.TrainerProfile) (*domain.TrainerProfile, error) {
	sess := w.deps.Controller.Session()
	if sess == nil {
		return nil, session.ErrNotAuthenticated
	}
	saved, err := w.deps.Profiles.Save(ctx, sess.UserID, profile)
	if err != nil {
		return nil, err
	}
	if err := w.deps.Controller.ProfileSaved(*saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// IngestImage validates and compresses an uploaded image into a data URL.
func (w *Workspace) IngestImage(header validation.File, r io.Reader) (string, error) {
	return imaging.Ingest(header, r, w.deps.Images)
}

// --- Wizards ---

// StartWizard opens a fresh draft of kind, seeded from the finished records.
func (w *Workspace) StartWizard(kind domain.RecordKind) (wizard.State, error) {
	records := w.deps.Controller.Records()
	opts := wizard.Options{
		Now:   w.deps.Now,
		NewID: w.deps.NewID,
		OnTransition: func(t wizard.Transition) {
			logrus.WithFields(logrus.Fields{"wizard": t.Kind, "from": t.From, "to": t.To}).Debug("wizard step")
		},
	}

	var flow wizard.Flow
	switch kind {
	case domain.KindAssessment:
		opts.StudentName = firstName(planName(records.Plan), anamneseName(records.Anamnese))
		flow = wizard.NewAssessmentWizard(opts)
	case domain.KindTrainingPlan:
		if records.Assessment != nil {
			opts.StudentName = records.Assessment.StudentName
			opts.Goal = records.Assessment.Goal
		}
		flow = wizard.NewTrainingWizard(opts)
	case domain.KindAnamnese:
		flow = wizard.NewAnamneseWizard(opts)
	case domain.KindPhysicalAssessment:
		opts.StudentName = firstName(assessmentName(records.Assessment), planName(records.Plan), anamneseName(records.Anamnese))
		flow = wizard.NewPhysicalWizard(opts, records.Physical)
	default:
		return wizard.State{}, ErrWizardNotStarted
	}

	w.mu.Lock()
	w.wizards[kind] = flow
	w.mu.Unlock()
	return flow.Snapshot(), nil
}

// Wizard returns the live draft of kind.
func (w *Workspace) Wizard(kind domain.RecordKind) (wizard.State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	flow, ok := w.wizards[kind]
	if !ok {
		return wizard.State{}, ErrWizardNotStarted
	}
	return flow.Snapshot(), nil
}

// Dispatch applies one action to the draft of kind.
func (w *Workspace) Dispatch(kind domain.RecordKind, env wizard.Envelope) (wizard.State, error) {
	action, err := env.Action()
	if err != nil {
		return wizard.State{}, err
	}
	return w.withWizard(kind, func(flow wizard.Flow) error {
		return flow.Dispatch(action)
	})
}

// Next moves the wizard of kind forward.
func (w *Workspace) Next(kind domain.RecordKind) (wizard.State, error) {
	return w.move(kind, wizard.Flow.Next)
}

// Prev moves the wizard of kind back.
func (w *Workspace) Prev(kind domain.RecordKind) (wizard.State, error) {
	return w.move(kind, wizard.Flow.Prev)
}

// Jump moves the wizard of kind to step.
func (w *Workspace) Jump(kind domain.RecordKind, step int) (wizard.State, error) {
	return w.move(kind, func(f wizard.Flow) bool { return f.Jump(step) })
}

func (w *Workspace) move(kind domain.RecordKind, fn func(wizard.Flow) bool) (wizard.State, error) {
	return w.withWizard(kind, func(flow wizard.Flow) error {
		if !fn(flow) {
			return ErrStepBlocked
		}
		return nil
	})
}

func (w *Workspace) withWizard(kind domain.RecordKind, fn func(wizard.Flow) error) (wizard.State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	flow, ok := w.wizards[kind]
	if !ok {
		return wizard.State{}, ErrWizardNotStarted
	}
	if err := fn(flow); err != nil {
		return flow.Snapshot(), err
	}
	return flow.Snapshot(), nil
}

// SetPhoto stores an uploaded photo in an assessment slot.
func (w *Workspace) SetPhoto(kind domain.RecordKind, slot domain.PhotoSlot, header validation.File, r io.Reader) (wizard.State, error) {
	if kind != domain.KindAssessment {
		return wizard.State{}, ErrPhotosUnsupported
	}
	dataURL, err := w.IngestImage(header, r)
	if err != nil {
		return wizard.State{}, err
	}
	return w.withWizard(kind, func(flow wizard.Flow) error {
		return flow.Dispatch(wizard.SetPhoto{Slot: slot, DataURL: dataURL})
	})
}

// Complete hands the finished draft of kind to the session and returns the
// new session state. Completing an assessment starts the narrative in the
// background.
func (w *Workspace) Complete(ctx context.Context, kind domain.RecordKind) (session.Snapshot, error) {
	w.mu.Lock()
	flow, ok := w.wizards[kind]
	if !ok {
		w.mu.Unlock()
		return session.Snapshot{}, ErrWizardNotStarted
	}

	var (
		err        error
		assessment *domain.Assessment
		ctrlErr    error
	)
	ctrl := w.deps.Controller
	switch f := flow.(type) {
	case *wizard.AssessmentWizard:
		err = f.Complete(func(a domain.Assessment) {
			assessment = &a
			ctrlErr = ctrl.AssessmentCompleted(a)
		})
	case *wizard.TrainingWizard:
		err = f.Complete(func(p domain.TrainingPlan) { ctrlErr = ctrl.TrainingCompleted(p) })
	case *wizard.AnamneseWizard:
		err = f.Complete(func(a domain.Anamnese) { ctrlErr = ctrl.AnamneseCompleted(a) })
	case *wizard.PhysicalWizard:
		err = f.Complete(func(p domain.PhysicalAssessment) { ctrlErr = ctrl.PhysicalCompleted(p) })
	default:
		err = ErrWizardNotStarted
	}
	if err == nil {
		err = ctrlErr
	}
	var gen uint64
	if err == nil && assessment != nil {
		w.analysisN++
		gen = w.analysisN
	}
	w.mu.Unlock()

	if err != nil {
		return session.Snapshot{}, err
	}
	if w.deps.Metrics != nil {
		w.deps.Metrics.CounterWizardCompletions.WithLabelValues(string(kind)).Inc()
	}
	if assessment != nil {
		w.analyze(ctx, gen, *assessment)
	}
	return ctrl.Snapshot(), nil
}

// analyze generates the narrative of a and delivers it unless a newer
// assessment was completed meanwhile.
func (w *Workspace) analyze(ctx context.Context, gen uint64, a domain.Assessment) {
	ctx = context.WithoutCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		result := w.deps.Narrator.GenerateAssessmentReport(ctx, a)

		w.mu.Lock()
		current := w.analysisN == gen
		w.mu.Unlock()
		if !current {
			logrus.WithField("student", a.StudentName).Debug("discarding stale narrative")
			return
		}
		w.deps.Controller.AnalysisReady(result)
	}()
}

// --- Library ---

func (w *Workspace) ensurePicker(ctx context.Context) *catalog.Picker {
	w.mu.Lock()
	picker := w.picker
	w.mu.Unlock()
	if picker != nil {
		return picker
	}

	items := w.deps.Library.Items(ctx, w.trainerID())
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.picker == nil {
		w.picker = catalog.NewPicker(items, w.deps.NewID)
	}
	return w.picker
}

// Library returns the picker view after applying the filters.
func (w *Workspace) Library(ctx context.Context, category, search string) (catalog.View, error) {
	picker := w.ensurePicker(ctx)
	if err := picker.SetCategory(category); err != nil {
		return picker.View(), err
	}
	picker.SetSearch(search)
	return picker.View(), nil
}

// LibraryCategories lists the categories with item counts.
func (w *Workspace) LibraryCategories(ctx context.Context) []catalog.Category {
	return w.ensurePicker(ctx).View().Categories
}

// ToggleSelection adds or removes a library item from the selection.
func (w *Workspace) ToggleSelection(ctx context.Context, itemID string) (catalog.View, error) {
	picker := w.ensurePicker(ctx)
	_, err := picker.Toggle(itemID)
	return picker.View(), err
}

// SetBatch changes the prescription applied on import.
func (w *Workspace) SetBatch(ctx context.Context, b catalog.Batch) catalog.View {
	picker := w.ensurePicker(ctx)
	picker.SetBatch(b)
	return picker.View()
}

// ImportSelection moves the selection into the focused training session.
func (w *Workspace) ImportSelection(ctx context.Context) (wizard.State, error) {
	picker := w.ensurePicker(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	flow, ok := w.wizards[domain.KindTrainingPlan]
	if !ok {
		return wizard.State{}, ErrNoTrainingWizard
	}
	exercises := picker.Import()
	if len(exercises) == 0 {
		return flow.Snapshot(), ErrEmptySelection
	}
	if err := flow.Dispatch(wizard.ImportExercises{Exercises: exercises}); err != nil {
		return flow.Snapshot(), err
	}
	return flow.Snapshot(), nil
}

// CreateLibraryItem stores a custom item and makes it browsable.
func (w *Workspace) CreateLibraryItem(ctx context.Context, item domain.LibraryItem) (*domain.LibraryItem, error) {
	trainerID := w.trainerID()
	if trainerID == "" {
		return nil, session.ErrNotAuthenticated
	}
	created, err := w.deps.Library.CreateItem(ctx, trainerID, item)
	if err != nil {
		return nil, err
	}
	items := w.deps.Library.Items(ctx, trainerID)
	w.ensurePicker(ctx).SetItems(items)
	return created, nil
}

// --- Reports ---

// Report builds the document of the finished record of kind.
func (w *Workspace) Report(kind domain.RecordKind) (report.Document, error) {
	records := w.deps.Controller.Records()
	trainer := w.trainer()
	switch kind {
	case domain.KindAssessment:
		if records.Assessment != nil {
			return report.Assessment(*records.Assessment, records.Analysis, trainer), nil
		}
	case domain.KindTrainingPlan:
		if records.Plan != nil {
			return report.TrainingPlan(*records.Plan, trainer), nil
		}
	case domain.KindAnamnese:
		if records.Anamnese != nil {
			return report.Anamnese(*records.Anamnese, trainer), nil
		}
	case domain.KindPhysicalAssessment:
		if records.Physical != nil {
			return report.PhysicalAssessment(*records.Physical, trainer), nil
		}
	}
	return report.Document{}, ErrNoRecord
}

// ReportView renders the printable HTML of the record of kind.
func (w *Workspace) ReportView(kind domain.RecordKind) (string, error) {
	doc, err := w.Report(kind)
	if err != nil {
		return "", err
	}
	return report.RenderString(doc)
}

// Export rasterizes the report of kind into a file of exportType.
func (w *Workspace) Export(ctx context.Context, kind domain.RecordKind, exportType string) (export.Result, error) {
	doc, err := w.Report(kind)
	if err != nil {
		return export.Result{}, err
	}
	view, err := report.RenderString(doc)
	if err != nil {
		return export.Result{}, err
	}
	if exportType == "" {
		exportType = export.TypePDF
	}
	return w.deps.Exporter.Export(ctx, view, export.Options{
		ElementID: report.ElementID,
		Filename:  report.Filename(report.Prefix(kind), doc.StudentName, w.deps.Now(), export.TypePDF),
		Type:      exportType,
		TrainerID: w.trainerID(),
		Kind:      artifactKind(kind),
	}), nil
}

// ExportWorkbook writes the training plan as a spreadsheet.
func (w *Workspace) ExportWorkbook(ctx context.Context) (export.Result, error) {
	records := w.deps.Controller.Records()
	if records.Plan == nil {
		return export.Result{}, ErrNoRecord
	}
	return w.deps.Exporter.ExportWorkbook(ctx, *records.Plan, w.trainer(), export.Options{
		Filename:  report.Filename(report.PrefixTraining, records.Plan.StudentName, w.deps.Now(), export.TypeXLSX),
		Type:      export.TypeXLSX,
		TrainerID: w.trainerID(),
		Kind:      domain.ArtifactTrainingXLSX,
	}), nil
}

// Artifacts lists the trainer's exported files, newest first.
func (w *Workspace) Artifacts(ctx context.Context, limit int64) ([]domain.Artifact, error) {
	trainerID := w.trainerID()
	if trainerID == "" {
		return nil, session.ErrNotAuthenticated
	}
	if w.deps.Artifacts == nil {
		return []domain.Artifact{}, nil
	}
	return w.deps.Artifacts.GetByTrainerID(ctx, trainerID, limit)
}

// DeleteArtifact removes one of the trainer's exports, file first. A file
// already gone from storage does not block removing its metadata.
func (w *Workspace) DeleteArtifact(ctx context.Context, id string) error {
	trainerID := w.trainerID()
	if trainerID == "" {
		return session.ErrNotAuthenticated
	}
	if w.deps.Artifacts == nil {
		return ErrNoRecord
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoRecord
	}
	artifact, err := w.deps.Artifacts.GetByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNoRecord
	}
	if err != nil {
		return err
	}
	if artifact.TrainerID != trainerID {
		return ErrNoRecord
	}

	if w.deps.Files != nil && artifact.ObjectKey != "" {
		if err := w.deps.Files.DeleteObject(ctx, artifact.ObjectKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return err
		}
	}
	if err := w.deps.Artifacts.Delete(ctx, oid); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	logrus.WithFields(logrus.Fields{"trainer": trainerID, "key": artifact.ObjectKey}).Info("artifact deleted")
	return nil
}

// --- Chat ---

// ChatHistory returns the conversation, greeting first.
func (w *Workspace) ChatHistory() []domain.ChatMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ensureWelcomeLocked()
	return append([]domain.ChatMessage(nil), w.chat...)
}

// SendChat appends msg and the model's reply. Only one message is in
// flight at a time.
func (w *Workspace) SendChat(ctx context.Context, msg string) ([]domain.ChatMessage, error) {
	if strings.TrimSpace(msg) == "" {
		return nil, validation.Required(msg, "Mensagem").Err()
	}

	w.mu.Lock()
	if w.chatBusy {
		w.mu.Unlock()
		return nil, ErrChatBusy
	}
	w.ensureWelcomeLocked()
	history := make([]domain.ChatMessage, 0, len(w.chat))
	for _, m := range w.chat {
		if m.ID != ChatWelcomeID {
			history = append(history, m)
		}
	}
	w.chat = append(w.chat, w.chatMessage(domain.ChatRoleUser, msg))
	w.chatBusy = true
	w.mu.Unlock()

	reply := w.deps.Narrator.SendChatMessage(ctx, history, msg)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.chatBusy = false
	w.chat = append(w.chat, w.chatMessage(domain.ChatRoleModel, reply))
	return append([]domain.ChatMessage(nil), w.chat...), nil
}

func (w *Workspace) ensureWelcomeLocked() {
	if len(w.chat) > 0 {
		return
	}
	name := w.trainer().Name
	if name == "" {
		name = "Treinador"
	}
	w.chat = []domain.ChatMessage{{
		ID:        ChatWelcomeID,
		Role:      domain.ChatRoleModel,
		Text:      "Olá, " + name + "! Sou o ChatPAGGIE 🤖.\nEstou aqui para ajudar a montar treinos, periodizações ou adaptar exercícios para alunos com lesões.\n\nComo posso ajudar hoje?",
		Timestamp: w.deps.Now().UnixMilli(),
	}}
}

func (w *Workspace) chatMessage(role domain.ChatRole, text string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        w.deps.NewID(),
		Role:      role,
		Text:      text,
		Timestamp: w.deps.Now().UnixMilli(),
	}
}

// --- helpers ---

func (w *Workspace) trainerID() string {
	if s := w.deps.Controller.Session(); s != nil {
		return s.UserID
	}
	return ""
}

func (w *Workspace) trainer() domain.TrainerProfile {
	if p := w.deps.Controller.Profile(); p != nil {
		return p.WithDefaults()
	}
	return domain.TrainerProfile{}.WithDefaults()
}

func artifactKind(kind domain.RecordKind) domain.ArtifactKind {
	switch kind {
	case domain.KindTrainingPlan:
		return domain.ArtifactTrainingPDF
	case domain.KindAnamnese:
		return domain.ArtifactAnamnesePDF
	case domain.KindPhysicalAssessment:
		return domain.ArtifactPhysicalPDF
	}
	return domain.ArtifactAssessmentPDF
}

func firstName(names ...string) string {
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			return n
		}
	}
	return ""
}

func assessmentName(a *domain.Assessment) string {
	if a == nil {
		return ""
	}
	return a.StudentName
}

func planName(p *domain.TrainingPlan) string {
	if p == nil {
		return ""
	}
	return p.StudentName
}

func anamneseName(a *domain.Anamnese) string {
	if a == nil {
		return ""
	}
	return a.StudentName
}
