package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// avoidBreaks keeps blocks whole across PDF pages.
const avoidBreaks = `* { break-inside: avoid; page-break-inside: avoid; }
img { image-rendering: auto; }`

// PlaywrightEngine rasterizes views in headless Chromium.
type PlaywrightEngine struct {
	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

// InstallBrowsers downloads the playwright driver and Chromium.
func InstallBrowsers() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

// NewPlaywrightEngine starts the driver and launches Chromium. Browsers must
// already be installed.
func NewPlaywrightEngine() (*PlaywrightEngine, error) {
	pw, err := playwright.Run(&playwright.RunOptions{SkipInstallBrowsers: true})
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	logrus.WithField("version", browser.Version()).Info("pdf renderer started")
	return &PlaywrightEngine{pw: pw, browser: browser}, nil
}

// Loaded reports whether the browser is up.
func (p *PlaywrightEngine) Loaded() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.browser != nil && p.browser.IsConnected()
}

// Close stops the browser and the driver.
func (p *PlaywrightEngine) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.browser != nil {
		errs = append(errs, p.browser.Close())
		p.browser = nil
	}
	if p.pw != nil {
		errs = append(errs, p.pw.Stop())
		p.pw = nil
	}
	return errors.Join(errs...)
}

func (p *PlaywrightEngine) Measure(ctx context.Context, view string, elementID string) (Box, error) {
	var box Box
	err := p.withPage(ctx, view, DeviceScale, func(page playwright.Page) error {
		rect, err := page.Locator(elementSelector(elementID)).BoundingBox()
		if err != nil {
			return err
		}
		if rect == nil {
			return fmt.Errorf("element %q is not visible", elementID)
		}
		box = Box{Width: rect.Width, Height: rect.Height}
		return nil
	})
	return box, err
}

func (p *PlaywrightEngine) Print(ctx context.Context, view string, opts PrintOptions) ([]byte, error) {
	var pdf []byte
	err := p.withPage(ctx, view, opts.DeviceScale, func(page playwright.Page) error {
		if _, err := page.AddStyleTag(playwright.PageAddStyleTagOptions{
			Content: playwright.String(avoidBreaks),
		}); err != nil {
			return err
		}
		var err error
		pdf, err = page.PDF(playwright.PagePdfOptions{
			Format:          playwright.String(opts.Format),
			Landscape:       playwright.Bool(opts.Landscape),
			PrintBackground: playwright.Bool(true),
			Margin: &playwright.Margin{
				Top:    playwright.String(opts.Margin),
				Right:  playwright.String(opts.Margin),
				Bottom: playwright.String(opts.Margin),
				Left:   playwright.String(opts.Margin),
			},
		})
		return err
	})
	return pdf, err
}

// withPage loads view into a fresh browser context and runs fn. The
// context is closed when ctx ends, which aborts pending calls.
func (p *PlaywrightEngine) withPage(ctx context.Context, view string, scale float64, fn func(playwright.Page) error) error {
	p.mu.Lock()
	browser := p.browser
	p.mu.Unlock()
	if browser == nil {
		return errors.New("browser not running")
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		DeviceScaleFactor: playwright.Float(scale),
	})
	if err != nil {
		return err
	}
	defer bctx.Close()
	stop := context.AfterFunc(ctx, func() { _ = bctx.Close() })
	defer stop()

	page, err := bctx.NewPage()
	if err != nil {
		return mapPlaywrightError(ctx, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		page.SetDefaultTimeout(float64(time.Until(deadline).Milliseconds()))
	}
	if err := page.SetContent(view, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return mapPlaywrightError(ctx, err)
	}
	return mapPlaywrightError(ctx, fn(page))
}

func mapPlaywrightError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}
