package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Page wraps body in the dashboard's HTML document.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return write(ctx, w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, esc(title), `</title>`,
			`<link rel="stylesheet"`, attr("href", url(ctx, "/static/main.css")), `>`,
			chromaStyles(),
			`</head><body class="bg-neutral-50 text-neutral-900">`,
			`<header class="border-b border-neutral-200 bg-white px-6 py-4"><h1 class="text-xl font-semibold">`, esc(title), `</h1></header>`,
			`<main class="mx-auto max-w-6xl p-6">`,
			body,
			`</main>`,
			`<script`, attr("src", url(ctx, "/static/app.js")), `></script>`,
			`</body></html>`,
		)
	})
}
