// Package web embeds the page shell and its static assets.
package web

import "embed"

//go:embed index.html script.js style.css
var Assets embed.FS

// IndexFile is the page shell served at /.
const IndexFile = "index.html"
