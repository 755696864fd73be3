//go:build acceptance
// +build acceptance

package acceptance

import (
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 5000

// DashboardPage provides helper methods for interacting with the splitter dashboard.
type DashboardPage struct {
	Page         playwright.Page
	DashboardURL string
	t            *testing.T
}

// NewDashboardPage opens the dashboard and waits until the log stream is connected.
func NewDashboardPage(t *testing.T, ctx playwright.BrowserContext, dashboardURL string) *DashboardPage {
	t.Helper()

	page := NewPage(t, ctx)
	dp := &DashboardPage{
		Page:         page,
		DashboardURL: dashboardURL,
		t:            t,
	}
	dp.Goto("")
	return dp
}

// Goto navigates to the dashboard with the given query string and waits for the log stream.
func (dp *DashboardPage) Goto(query string) {
	dp.t.Helper()

	_, err := dp.Page.Goto(dp.DashboardURL + query)
	require.NoError(dp.t, err)
	dp.waitForLogStream()
}

func (dp *DashboardPage) waitForLogStream() {
	dp.t.Helper()

	err := dp.Page.Locator("#log-list[data-connected='true']").WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(waitTimeout),
	})
	require.NoError(dp.t, err, "log stream did not connect")
}

// FillForm fills the split form. An empty chunkSizeKB keeps the default.
func (dp *DashboardPage) FillForm(input, chunkSizeKB, mode string) {
	dp.t.Helper()

	require.NoError(dp.t, dp.Page.Locator("#input-file").Fill(input))
	if chunkSizeKB != "" {
		require.NoError(dp.t, dp.Page.Locator("#chunk-size").Fill(chunkSizeKB))
	}
	if mode != "" {
		radio := dp.Page.Locator(fmt.Sprintf("input[name='mode'][value='%s']", mode))
		require.NoError(dp.t, radio.Check())
	}
}

// Process submits the split form and waits for the job detail of the new job.
func (dp *DashboardPage) Process() {
	dp.t.Helper()

	require.NoError(dp.t, dp.Page.Locator("#process-button").Click())

	err := dp.Page.WaitForURL("**/splitter/?job=*", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(waitTimeout),
	})
	require.NoError(dp.t, err, "no redirect to the job")
	dp.WaitForSelector("#job-detail")
	dp.waitForLogStream()
}

// ProcessExpectingError submits the split form and returns the form error message.
func (dp *DashboardPage) ProcessExpectingError() string {
	dp.t.Helper()

	require.NoError(dp.t, dp.Page.Locator("#process-button").Click())
	dp.WaitForSelector("#form-error")

	text, err := dp.Page.Locator("#form-error").TextContent()
	require.NoError(dp.t, err)
	return text
}

// Clear clicks the clear button and waits for the empty log list.
func (dp *DashboardPage) Clear() {
	dp.t.Helper()

	require.NoError(dp.t, dp.Page.Locator("#clear-button").Click())
	dp.WaitForSelector("#log-list:not(:has(> li))")
	dp.waitForLogStream()
}

// WaitForSelector waits until selector is attached to the page.
func (dp *DashboardPage) WaitForSelector(selector string) {
	dp.t.Helper()

	err := dp.Page.Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(waitTimeout),
	})
	require.NoError(dp.t, err, "failed to wait for %s", selector)
}

// WaitForLogLine waits for a log line containing text in the output panel.
func (dp *DashboardPage) WaitForLogLine(text string) {
	dp.t.Helper()

	dp.WaitForSelector(fmt.Sprintf("#log-list > li:has-text('%s')", text))
}

// ChunkRows returns the number of chunk rows in the job detail.
func (dp *DashboardPage) ChunkRows() int {
	dp.t.Helper()

	count, err := dp.Page.Locator("#job-detail tbody > tr").Count()
	require.NoError(dp.t, err)
	return count
}

// JobCount returns the number of jobs in the job list.
func (dp *DashboardPage) JobCount() int {
	dp.t.Helper()

	count, err := dp.Page.Locator("#job-list > li[data-job-id]").Count()
	require.NoError(dp.t, err)
	return count
}

// BackgroundColor returns the computed background color of the element matching selector.
func BackgroundColor(t *testing.T, page playwright.Page, selector string) string {
	t.Helper()

	color, err := page.Locator(selector).Evaluate("el => getComputedStyle(el).backgroundColor", nil)
	require.NoError(t, err)
	return color.(string)
}
