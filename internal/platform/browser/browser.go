package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"jobradar/internal/logger"
	"jobradar/internal/utils/dom"
)

// Service owns one headless Chromium instance shared by all live sources.
type Service struct {
	log     *logger.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
}

func New() (*Service, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwright run: %w", err)
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
			"--no-first-run",
			"--disable-default-apps",
			"--disable-extensions",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	return &Service{log: logger.New("Browser"), pw: pw, browser: b}, nil
}

func (s *Service) Close() error {
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.pw != nil {
		return s.pw.Stop()
	}
	return nil
}

// Open navigates a fresh page to url and returns it as a live dom.Source.
// Each Snapshot re-reads the rendered markup, so callers polling readiness
// observe client-side rendering as it completes.
func (s *Service) Open(ctx context.Context, url string) (dom.Source, error) {
	bctx, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"),
	})
	if err != nil {
		return nil, fmt.Errorf("browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(10000),
	}); err != nil {
		// A second chance with the full load event and a longer budget.
		if _, err = page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   playwright.Float(20000),
		}); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("goto %s: %w", url, err)
		}
	}

	s.log.LogDebugf("opened live page %s", url)
	return &livePage{page: page, bctx: bctx}, nil
}

// livePage adapts a playwright page to dom.Source.
type livePage struct {
	page playwright.Page
	bctx playwright.BrowserContext
}

func (p *livePage) Snapshot(ctx context.Context) (dom.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	html, err := p.page.Content()
	if err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}
	return dom.Parse(html)
}

func (p *livePage) Close() error {
	_ = p.page.Close()
	return p.bctx.Close()
}
