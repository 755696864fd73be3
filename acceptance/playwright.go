//go:build acceptance
// +build acceptance

package acceptance

import (
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

// PlaywrightFixture holds the browser shared by the pages of one test.
type PlaywrightFixture struct {
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// NewPlaywrightFixture starts Chromium. HEADLESS=false shows the browser window,
// SLOWMO=<ms> delays every browser operation.
func NewPlaywrightFixture(t *testing.T) *PlaywrightFixture {
	t.Helper()

	pw, err := playwright.Run()
	require.NoError(t, err, "failed to start playwright")

	options := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(os.Getenv("HEADLESS") != "false"),
	}
	if slowMo, err := strconv.ParseFloat(os.Getenv("SLOWMO"), 64); err == nil {
		options.SlowMo = playwright.Float(slowMo)
	}

	browser, err := pw.Chromium.Launch(options)
	require.NoError(t, err, "failed to launch browser")

	return &PlaywrightFixture{PW: pw, Browser: browser}
}

// NewContext creates a browser context with its own cookies and storage.
func (pf *PlaywrightFixture) NewContext(t *testing.T) playwright.BrowserContext {
	t.Helper()
	ctx, err := pf.Browser.NewContext()
	require.NoError(t, err, "failed to create browser context")
	return ctx
}

// NewPage opens a page that fails the test on uncaught script errors.
func NewPage(t *testing.T, ctx playwright.BrowserContext) playwright.Page {
	t.Helper()

	page, err := ctx.NewPage()
	require.NoError(t, err, "failed to open page")

	var mu sync.Mutex
	var scriptErrors []error
	page.OnPageError(func(err error) {
		mu.Lock()
		scriptErrors = append(scriptErrors, err)
		mu.Unlock()
	})
	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		for _, err := range scriptErrors {
			t.Errorf("script error on page: %v", err)
		}
	})

	return page
}

func (pf *PlaywrightFixture) Close() {
	pf.Browser.Close()
	pf.PW.Stop()
}
