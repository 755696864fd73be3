package views

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/samber/lo"
)

// cn merges class lists, later lists win on conflicting utility classes.
// The remaining classes keep the order of their last occurrence in classes.
func cn(classes ...string) string {
	merged := lo.Keyify(strings.Fields(twmerge.Merge(lo.Compact(classes)...)))

	fields := strings.Fields(strings.Join(classes, " "))
	ordered := make([]string, 0, len(merged))
	for i, class := range fields {
		if _, ok := merged[class]; !ok {
			continue
		}
		if slices.Contains(fields[i+1:], class) {
			continue
		}
		ordered = append(ordered, class)
	}
	return strings.Join(ordered, " ")
}

// Text renders s HTML-escaped.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(templ.EscapeString(value))
	b.WriteString(`"`)
}

func writeBoolAttr(b *strings.Builder, name string) {
	b.WriteString(" ")
	b.WriteString(name)
}

// writeAttributes writes attrs in key order, skipping reserved keys.
// true booleans are written bare, false booleans and nil values are omitted.
func writeAttributes(ctx context.Context, b *strings.Builder, attrs templ.Attributes, reserved map[string]struct{}) error {
	filtered := make(templ.Attributes, len(attrs))
	for key, value := range attrs {
		if _, skip := reserved[strings.ToLower(key)]; skip {
			continue
		}
		switch v := value.(type) {
		case nil:
		case bool, string:
			filtered[key] = v
		default:
			filtered[key] = fmt.Sprint(v)
		}
	}
	return templ.RenderAttributes(ctx, b, filtered)
}

func formatDurationSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	if d < 0 {
		return "in the future"
	}
	if d < time.Minute {
		return fmt.Sprintf("%d seconds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	}
	return fmt.Sprintf("%d days ago", int(d.Hours()/24))
}

// highlightContent applies syntax highlighting to the content, choosing the lexer by filename
func highlightContent(content string, filename string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lexer := lexers.Match(filename)
		if lexer == nil {
			lexer = lexers.Analyse(content)
		}
		if lexer == nil {
			lexer = lexers.Fallback
		}

		formatter, style := chromaFormatterAndStyle()

		iterator, err := lexer.Tokenise(nil, content)
		if err != nil {
			return err
		}

		return formatter.Format(w, style, iterator)
	})
}

func chromaFormatterAndStyle() (*html.Formatter, *chroma.Style) {
	formatter := html.New(
		html.Standalone(false),
		html.WithClasses(true),
		html.TabWidth(4),
	)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	return formatter, style
}

func chromaStyles() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<style>")
		formatter, style := chromaFormatterAndStyle()
		err := formatter.WriteCSS(w, style)

		_, _ = io.WriteString(w, ".chroma { white-space: pre-wrap; }\n")
		_, _ = io.WriteString(w, "</style>")
		return err
	})
}

// write renders parts in order. Strings are written as raw HTML, components are rendered.
func write(ctx context.Context, w io.Writer, parts ...any) error {
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			if _, err := io.WriteString(w, v); err != nil {
				return err
			}
		case templ.Component:
			if err := v.Render(ctx, w); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported part %T", part)
		}
	}
	return nil
}

// attr returns a single escaped attribute with a leading space.
func attr(name, value string) string {
	var b strings.Builder
	writeAttr(&b, name, value)
	return b.String()
}

func esc(s string) string {
	return templ.EscapeString(s)
}
