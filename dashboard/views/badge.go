package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/crisiscore-systems/textsplitter/collector"
)

type BadgeVariant string

const (
	BadgeVariantSecondary BadgeVariant = "secondary"
	BadgeVariantSuccess   BadgeVariant = "success"
	BadgeVariantWarning   BadgeVariant = "warning"
	BadgeVariantError     BadgeVariant = "error"
)

type BadgeProps struct {
	Variant BadgeVariant
	Class   string
}

func badgeClasses(props BadgeProps) string {
	var variant string
	switch props.Variant {
	case BadgeVariantSecondary:
		variant = "border-transparent bg-neutral-200 text-black"
	case BadgeVariantSuccess:
		variant = "border-transparent bg-green-600 text-white"
	case BadgeVariantWarning:
		variant = "border-transparent bg-orange-400 text-white"
	case BadgeVariantError:
		variant = "border-transparent bg-red-500 text-white"
	default:
		variant = "border-transparent bg-black text-white"
	}

	return cn("inline-flex items-center rounded-full border px-2.5 py-0.5 text-xs font-semibold transition-colors font-mono", variant, props.Class)
}

func Badge(props BadgeProps, label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<span")
		writeAttr(&b, "class", badgeClasses(props))
		b.WriteString(">")
		b.WriteString(templ.EscapeString(label))
		b.WriteString("</span>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// JobStatusBadge shows whether a job is running, failed, produced chunks or produced nothing.
func JobStatusBadge(job *collector.Job) templ.Component {
	switch {
	case !job.Finished():
		return Badge(BadgeProps{Variant: BadgeVariantSecondary}, "running")
	case job.Failed():
		return Badge(BadgeProps{Variant: BadgeVariantError}, "error")
	case job.Result == nil || len(job.Result.Chunks) == 0:
		return Badge(BadgeProps{Variant: BadgeVariantWarning}, "empty")
	default:
		return Badge(BadgeProps{Variant: BadgeVariantSuccess}, "success")
	}
}
