package static

import "embed"

// Assets holds the stylesheet and script of the dashboard.
//
//go:embed main.css app.js
var Assets embed.FS
