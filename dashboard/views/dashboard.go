package views

import (
	"context"
	"io"
	"log/slog"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/gofrs/uuid"

	"github.com/crisiscore-systems/textsplitter/collector"
)

// SplitFormValues are the values of the split form, echoed back after a failed submit.
type SplitFormValues struct {
	Input       string
	ChunkSizeKB string
	Mode        string
}

type DashboardProps struct {
	Form      SplitFormValues
	FormError string

	Jobs          []*collector.Job
	SelectedJob   *collector.Job
	TruncateAfter int

	Logs []slog.Record
	// LogsDropped is the number of older log records no longer kept.
	LogsDropped uint64
}

func Dashboard(props DashboardProps) templ.Component {
	return Page("Text Splitter", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var selectedID *uuid.UUID
		if props.SelectedJob != nil {
			selectedID = &props.SelectedJob.ID
		}

		parts := []any{
			`<div class="grid gap-6 md:grid-cols-2"><div class="space-y-6">`,
			SplitForm(props.Form, props.FormError),
			`<section><h2 class="mb-2 text-sm font-semibold">Output</h2>`,
			LogList(props.Logs),
		}
		if props.LogsDropped > 0 {
			parts = append(parts, `<p id="logs-dropped" class="mt-1 text-xs text-neutral-500">`, esc(humanize.Comma(int64(props.LogsDropped))), ` earlier lines dropped</p>`)
		}
		parts = append(parts,
			`</section></div><div class="space-y-6">`,
		)
		if props.SelectedJob != nil {
			parts = append(parts, JobDetail(props.SelectedJob))
		}
		parts = append(parts,
			`<section><h2 class="mb-2 text-sm font-semibold">Recent jobs</h2>`,
			JobList(JobListProps{
				Jobs:          props.Jobs,
				SelectedJobID: selectedID,
				TruncateAfter: props.TruncateAfter,
			}),
			`</section></div></div>`,
		)
		return write(ctx, w, parts...)
	}))
}

// SplitForm renders the input form with the Process and Clear buttons.
// Clear submits a separate form so it works without scripts.
func SplitForm(values SplitFormValues, formError string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		chunkSize := values.ChunkSizeKB
		if chunkSize == "" {
			chunkSize = "1024"
		}

		parts := []any{
			`<form id="split-form" method="post" class="space-y-4 rounded-md border border-neutral-200 bg-white p-4"`, attr("action", url(ctx, "/split")), `>`,
			`<label class="block text-sm">Input file`,
			`<input id="input-file" name="input" type="text" required class="mt-1 block w-full rounded-md border border-neutral-300 px-3 py-2 font-mono"`, attr("value", values.Input), `></label>`,
			`<label class="block text-sm">Chunk size (KB)`,
			`<input id="chunk-size" name="chunkSizeKB" type="number" min="1" class="mt-1 block w-32 rounded-md border border-neutral-300 px-3 py-2"`, attr("value", chunkSize), `></label>`,
			`<fieldset class="flex gap-4 text-sm"><legend class="mb-1">Mode</legend>`,
			modeRadio("lines", "Lines", values.Mode == "" || values.Mode == "lines"),
			modeRadio("sections", "Sections", values.Mode == "sections"),
			`</fieldset>`,
		}
		if formError != "" {
			parts = append(parts, `<p id="form-error" class="text-sm text-red-600">`, esc(formError), `</p>`)
		}
		parts = append(parts,
			`<div class="flex gap-2">`,
			ButtonWithLabel(ButtonProps{
				ID:    "process-button",
				Type:  "submit",
				Title: "Split the input file",
				Class: "h-10 px-4 py-2",
			}, "Process"),
			ButtonWithLabel(ButtonProps{
				ID:      "clear-button",
				Type:    "submit",
				Form:    "clear-form",
				Title:   "Clear the output",
				Variant: ButtonVariantDestructive,
				Class:   "h-10 px-4 py-2",
			}, "Clear"),
			`</div></form>`,
			`<form id="clear-form" method="post"`, attr("action", url(ctx, "/clear")), `></form>`,
		)
		return write(ctx, w, parts...)
	})
}

func modeRadio(value, label string, checked bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		checkedAttr := ""
		if checked {
			checkedAttr = " checked"
		}
		return write(ctx, w,
			`<label class="inline-flex items-center gap-1"><input type="radio" name="mode"`, attr("value", value), checkedAttr, `>`,
			esc(label), `</label>`,
		)
	})
}
