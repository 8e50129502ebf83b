package views

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// html writes a format string with every argument HTML escaped.
func html(w io.Writer, format string, args ...any) error {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = templ.EscapeString(fmt.Sprint(a))
	}
	_, err := fmt.Fprintf(w, format, escaped...)
	return err
}

func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := html(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s · SABO Arena</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script><link rel="stylesheet" href="/static/app.css"></head><body>`, title); err != nil {
			return err
		}
		if user := GetUser(ctx); user != nil {
			if err := html(w, `<nav><a href="/">Tournaments</a> <span>%s</span> <button hx-post="/logout">Log out</button></nav>`, user.Username); err != nil {
				return err
			}
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
