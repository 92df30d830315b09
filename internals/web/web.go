// Package web holds the embedded HTML views for the public site and the dashboard page.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed views
var views embed.FS

// Engine builds the view engine; pages render inside "layouts/main".
func Engine() *html.Engine {
	sub, err := fs.Sub(views, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("add", func(a, b int) int { return a + b })
	engine.AddFunc("date", formatDate)
	return engine
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2 Jan 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	}
	return ""
}
