// Package export turns rendered report views into downloadable files.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/instrumentation"
)

// Export types.
const (
	TypePDF  = "pdf"
	TypeXLSX = "xlsx"
)

// DefaultTimeout bounds one rasterization.
const DefaultTimeout = 120 * time.Second

// Messages returned in Result.Error.
const (
	MsgElementNotFound = "Elemento do relatório não encontrado."
	MsgNoBrowser       = "Ambiente do navegador não disponível."
	MsgNotLoaded       = "Biblioteca de PDF não carregada. Recarregue a página e tente novamente."
	MsgUnsupportedType = "Tipo de exportação não suportado."
	MsgTimeout         = "Tempo de espera esgotado ao gerar PDF. O relatório pode ser muito grande."
	MsgFailed          = "Erro ao gerar PDF. Verifique se todas as imagens estão carregadas e tente novamente."
	MsgWorkbookFailed  = "Erro ao gerar planilha. Tente novamente."
)

// Print settings applied to every PDF.
const (
	PageFormat  = "A4"
	PageMargin  = "5mm"
	DeviceScale = 2.0
)

// Options describe one export request.
type Options struct {
	ElementID string
	Filename  string
	Type      string
	// TrainerID and Kind label the stored artifact.
	TrainerID string
	Kind      domain.ArtifactKind
}

// Result is the uniform outcome of an export. Export never fails any other way.
type Result struct {
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Artifact *domain.Artifact `json:"artifact,omitempty"`
	// Data holds the produced file.
	Data []byte `json:"-"`
}

func failure(msg string) Result {
	return Result{Error: msg}
}

// Box is the rendered size of the report element in CSS pixels.
type Box struct {
	Width  float64
	Height float64
}

// PrintOptions are passed to Engine.Print.
type PrintOptions struct {
	ElementID   string
	Landscape   bool
	Format      string
	Margin      string
	DeviceScale float64
}

// Engine renders HTML views. Implementations must honor ctx.
type Engine interface {
	Loaded() bool
	Measure(ctx context.Context, view string, elementID string) (Box, error)
	Print(ctx context.Context, view string, opts PrintOptions) ([]byte, error)
}

// Sink keeps exported files and returns their metadata.
type Sink interface {
	Store(ctx context.Context, artifact domain.Artifact, data []byte) (*domain.Artifact, error)
}

// Exporter runs the export pipeline. engine and sink may be nil.
type Exporter struct {
	engine  Engine
	sink    Sink
	timeout time.Duration
	metrics *instrumentation.Instrumentation
}

// NewExporter creates an exporter. A zero timeout means DefaultTimeout.
func NewExporter(engine Engine, sink Sink, timeout time.Duration, metrics *instrumentation.Instrumentation) *Exporter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Exporter{
		engine:  engine,
		sink:    sink,
		timeout: timeout,
		metrics: metrics,
	}
}

// Export checks the preconditions in order, rasterizes the report element
// and hands the file to the sink.
func (e *Exporter) Export(ctx context.Context, view string, opts Options) Result {
	if !hasElement(view, opts.ElementID) {
		return e.done(opts.Type, instrumentation.OutcomeError, failure(MsgElementNotFound))
	}
	if e.engine == nil {
		return e.done(opts.Type, instrumentation.OutcomeError, failure(MsgNoBrowser))
	}
	if !e.engine.Loaded() {
		return e.done(opts.Type, instrumentation.OutcomeError, failure(MsgNotLoaded))
	}
	if opts.Type != TypePDF {
		return e.done(opts.Type, instrumentation.OutcomeError, failure(MsgUnsupportedType))
	}

	start := time.Now()
	data, err := e.rasterize(ctx, view, opts.ElementID)
	if e.metrics != nil {
		e.metrics.HistExportDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		log := logrus.WithFields(logrus.Fields{"file": opts.Filename, "elapsed": time.Since(start)})
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("pdf export timed out")
			return e.done(opts.Type, instrumentation.OutcomeTimeout, failure(MsgTimeout))
		}
		log.Errorf("pdf export failed: %v", err)
		return e.done(opts.Type, instrumentation.OutcomeError, failure(MsgFailed))
	}

	res, err := e.store(ctx, opts, "application/pdf", data)
	if err != nil {
		logrus.WithField("file", opts.Filename).Errorf("failed to store export: %v", err)
		return e.done(opts.Type, instrumentation.OutcomeError, failure(MsgFailed))
	}
	return e.done(opts.Type, instrumentation.OutcomeOK, res)
}

func (e *Exporter) rasterize(ctx context.Context, view, elementID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type output struct {
		data []byte
		err  error
	}
	done := make(chan output, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- output{err: fmt.Errorf("renderer panic: %v", r)}
			}
		}()
		box, err := e.engine.Measure(ctx, view, elementID)
		if err != nil {
			done <- output{err: fmt.Errorf("measure: %w", err)}
			return
		}
		data, err := e.engine.Print(ctx, view, PrintOptions{
			ElementID:   elementID,
			Landscape:   box.Width > box.Height,
			Format:      PageFormat,
			Margin:      PageMargin,
			DeviceScale: DeviceScale,
		})
		if err != nil {
			err = fmt.Errorf("print: %w", err)
		}
		done <- output{data: data, err: err}
	}()

	select {
	case out := <-done:
		return out.data, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Exporter) store(ctx context.Context, opts Options, contentType string, data []byte) (Result, error) {
	res := Result{Success: true, Data: data}
	if e.sink == nil {
		return res, nil
	}
	artifact, err := e.sink.Store(ctx, domain.Artifact{
		TrainerID:   opts.TrainerID,
		Kind:        opts.Kind,
		FileName:    opts.Filename,
		ContentType: contentType,
	}, data)
	if err != nil {
		return Result{}, err
	}
	res.Artifact = artifact
	return res, nil
}

func (e *Exporter) done(exportType, outcome string, res Result) Result {
	if e.metrics != nil {
		if exportType != TypePDF && exportType != TypeXLSX {
			exportType = "other"
		}
		e.metrics.CounterExports.WithLabelValues(exportType, outcome).Inc()
	}
	return res
}

// hasElement reports whether view contains an element with the given id.
func hasElement(view, elementID string) bool {
	if elementID == "" {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(view))
	if err != nil {
		return false
	}
	return doc.Find(elementSelector(elementID)).Length() > 0
}

// elementSelector matches the element by its id attribute, so ids with CSS
// special characters need no escaping.
func elementSelector(elementID string) string {
	return fmt.Sprintf("[id=%q]", elementID)
}
