// Package site serves the embedded league site.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded site routes to mux. The site is plain
// static HTML/JS that reads the JSON API.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
