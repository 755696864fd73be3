package views

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/gofrs/uuid"

	"github.com/crisiscore-systems/textsplitter/collector"
	"github.com/crisiscore-systems/textsplitter/internal/utils"
	"github.com/crisiscore-systems/textsplitter/splitter"
)

func jobURL(ctx context.Context, job *collector.Job) string {
	return url(ctx, "/?job="+job.ID.String())
}

type JobListProps struct {
	Jobs          []*collector.Job
	SelectedJobID *uuid.UUID
	TruncateAfter int
}

func JobList(props JobListProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(ctx, w, `<ul id="job-list" class="divide-y divide-neutral-200 rounded-md border border-neutral-200 bg-white">`); err != nil {
			return err
		}
		if len(props.Jobs) == 0 {
			if err := write(ctx, w, `<li class="p-3 text-sm text-neutral-500" data-empty>No files split yet</li>`); err != nil {
				return err
			}
		}
		for _, job := range props.Jobs {
			selected := props.SelectedJobID != nil && *props.SelectedJobID == job.ID
			if err := JobListItem(job, selected).Render(ctx, w); err != nil {
				return err
			}
		}
		if props.TruncateAfter > 0 && len(props.Jobs) >= props.TruncateAfter {
			if err := write(ctx, w, `<li class="p-3 text-xs text-neutral-500">Showing the last `, strconv.Itoa(props.TruncateAfter), ` jobs</li>`); err != nil {
				return err
			}
		}
		return write(ctx, w, `</ul>`)
	})
}

func JobListItem(job *collector.Job, selected bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := "flex items-center gap-3 p-3 text-sm"
		if selected {
			class = cn(class, "bg-neutral-100")
		}
		return write(ctx, w,
			`<li`, attr("class", class), attr("data-job-id", job.ID.String()), `>`,
			JobStatusBadge(job),
			Badge(BadgeProps{Variant: BadgeVariantSecondary}, string(job.Kind)),
			`<a class="flex-1 truncate font-mono hover:underline"`, attr("href", jobURL(ctx, job)), `>`, esc(job.Input), `</a>`,
			`<span class="text-xs text-neutral-500">`, esc(formatDurationSince(job.Start)), `</span>`,
			`</li>`,
		)
	})
}

func formatJobDuration(job *collector.Job) string {
	if !job.Finished() {
		return "running"
	}
	d := job.Duration()
	if d < time.Millisecond {
		return fmt.Sprintf("%d µs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2f s", d.Seconds())
}

// JobDetail shows the outcome of a job with a row per chunk.
func JobDetail(job *collector.Job) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(ctx, w,
			`<section id="job-detail" class="rounded-md border border-neutral-200 bg-white p-4"`, attr("data-job-id", job.ID.String()), `>`,
			`<div class="mb-3 flex items-center gap-3">`, JobStatusBadge(job),
			`<h2 class="font-mono text-sm font-semibold">`, esc(job.Input), `</h2>`,
			`<span class="text-xs text-neutral-500">`, esc(formatJobDuration(job)), `</span></div>`,
		); err != nil {
			return err
		}

		if job.Failed() {
			if err := write(ctx, w, `<p class="text-sm text-red-600">`, esc(job.Err), `</p>`); err != nil {
				return err
			}
		}

		if job.Result != nil {
			if err := jobResult(job).Render(ctx, w); err != nil {
				return err
			}
		}

		return write(ctx, w, `</section>`)
	})
}

func jobResult(job *collector.Job) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		result := job.Result
		summary := fmt.Sprintf("%d chunks, %s total, encoding %s", len(result.Chunks), utils.FormatSize(result.TotalSize()), result.Encoding)
		if result.SkippedLines > 0 {
			summary += fmt.Sprintf(", %d lines skipped", result.SkippedLines)
		}
		if err := write(ctx, w,
			`<p class="mb-2 text-sm text-neutral-600">`, esc(summary), `</p>`,
			`<table class="w-full text-left text-sm"><thead><tr class="text-xs text-neutral-500">`,
			`<th class="py-1">#</th><th>File</th><th>Size</th><th>Lines</th><th></th></tr></thead><tbody>`,
		); err != nil {
			return err
		}
		for _, chunk := range result.Chunks {
			if err := chunkRow(job, chunk).Render(ctx, w); err != nil {
				return err
			}
		}
		return write(ctx, w, `</tbody></table>`)
	})
}

func chunkRow(job *collector.Job, chunk splitter.Chunk) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		previewURL := url(ctx, fmt.Sprintf("/jobs/%s/chunks/%d", job.ID, chunk.Index))
		return write(ctx, w,
			`<tr class="border-t border-neutral-100">`,
			`<td class="py-1 font-mono">`, strconv.Itoa(chunk.Index), `</td>`,
			`<td class="font-mono">`, esc(chunk.Path), `</td>`,
			`<td>`, esc(utils.FormatSize(chunk.Size)), `</td>`,
			`<td>`, strconv.Itoa(chunk.Lines), `</td>`,
			`<td><a class="text-blue-600 hover:underline"`, attr("href", previewURL), `>Preview</a></td>`,
			`</tr>`,
		)
	})
}

type ChunkPreviewProps struct {
	Job       *collector.Job
	Chunk     splitter.Chunk
	Content   string
	Truncated bool
	// Shown is the number of bytes read for the preview.
	Shown int64
}

// ChunkPreview renders the syntax highlighted beginning of a chunk.
func ChunkPreview(props ChunkPreviewProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(ctx, w,
			`<section id="chunk-preview" class="space-y-3">`,
			`<a class="text-sm text-blue-600 hover:underline"`, attr("href", jobURL(ctx, props.Job)), `>Back to job</a>`,
			`<h2 class="font-mono text-sm font-semibold">`, esc(props.Chunk.Path), `</h2>`,
			`<div class="overflow-x-auto rounded-md text-xs">`,
			highlightContent(props.Content, props.Chunk.Path),
			`</div>`,
		); err != nil {
			return err
		}
		if props.Truncated {
			note := fmt.Sprintf("Preview truncated, read %s of %s", utils.FormatSize(props.Shown), utils.FormatSize(props.Chunk.Size))
			if err := write(ctx, w, `<p class="text-xs text-neutral-500">`, esc(note), `</p>`); err != nil {
				return err
			}
		}
		return write(ctx, w, `</section>`)
	})
}

// ChunkPreviewPage renders ChunkPreview as a full page.
func ChunkPreviewPage(props ChunkPreviewProps) templ.Component {
	return Page("Text Splitter", ChunkPreview(props))
}
