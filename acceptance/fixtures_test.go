//go:build acceptance
// +build acceptance

package acceptance

import (
	"testing"

	"github.com/playwright-community/playwright-go"
)

// TestFixtures bundles all commonly needed test fixtures.
type TestFixtures struct {
	App       *TestApp
	PW        *PlaywrightFixture
	Ctx       playwright.BrowserContext
	Dashboard *DashboardPage
}

// WithTestFixtures creates all fixtures, registers cleanup with t.Cleanup(), and calls the test function.
func WithTestFixtures(t *testing.T, fn func(t *testing.T, f *TestFixtures)) {
	t.Helper()

	WithTestApp(t, func(t *testing.T, app *TestApp, pw *PlaywrightFixture) {
		ctx := pw.NewContext(t)
		t.Cleanup(func() { ctx.Close() })

		fn(t, &TestFixtures{
			App:       app,
			PW:        pw,
			Ctx:       ctx,
			Dashboard: NewDashboardPage(t, ctx, app.DashboardURL),
		})
	})
}

// WithTestApp creates only the test app fixture (useful when the test opens other pages than the dashboard).
func WithTestApp(t *testing.T, fn func(t *testing.T, app *TestApp, pw *PlaywrightFixture)) {
	t.Helper()

	app := NewTestApp(t)
	t.Cleanup(func() { app.Close() })

	pw := NewPlaywrightFixture(t)
	t.Cleanup(func() { pw.Close() })

	fn(t, app, pw)
}
