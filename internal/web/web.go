// Package web holds the dashboard page and its browser assets.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/index.html
var indexHTML string

//go:embed static
var static embed.FS

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type Page struct {
	Title string
	Debug bool
}

func RenderIndex(w io.Writer, p Page) error {
	return indexTmpl.Execute(w, p)
}

// Static returns the files served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
