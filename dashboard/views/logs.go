package views

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/a-h/templ"
)

func iterSlogAttrs(record slog.Record) iter.Seq[slog.Attr] {
	return func(yield func(attr slog.Attr) bool) {
		record.Attrs(func(attr slog.Attr) bool {
			return yield(attr)
		})
	}
}

func levelClasses(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "text-red-600"
	case level >= slog.LevelWarn:
		return "text-orange-500"
	case level >= slog.LevelInfo:
		return "text-blue-600"
	default:
		return "text-neutral-500"
	}
}

// formatAttr flattens groups into dotted keys.
func formatAttr(b *strings.Builder, prefix string, a slog.Attr) {
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	value := a.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		for _, ga := range value.Group() {
			formatAttr(b, key, ga)
		}
		return
	}
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(value.String())
}

// LogLine renders one collected log record as a list item.
func LogLine(record slog.Record) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var attrs strings.Builder
		for a := range iterSlogAttrs(record) {
			formatAttr(&attrs, "", a)
		}
		return write(ctx, w,
			`<li class="font-mono text-xs py-0.5">`,
			`<span class="text-neutral-500">`, esc(record.Time.Format("15:04:05.000")), `</span> `,
			`<span`, attr("class", levelClasses(record.Level)), `>`, esc(record.Level.String()), `</span> `,
			`<span>`, esc(record.Message), `</span>`,
			`<span class="text-neutral-500">`, esc(attrs.String()), `</span>`,
			`</li>`,
		)
	})
}

// LogList renders the output panel. New records are appended by app.js from the SSE stream.
func LogList(records []slog.Record) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(ctx, w,
			`<ul id="log-list" class="h-64 overflow-y-auto rounded-md border border-neutral-200 bg-white p-2"`,
			attr("data-sse-url", url(ctx, "/logs-sse")), `>`,
		); err != nil {
			return err
		}
		for _, record := range records {
			if err := LogLine(record).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}
