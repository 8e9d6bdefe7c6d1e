package handlers

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"sync"
)

//go:embed openapi.json
var openAPISpec []byte

type docOperation struct {
	Method  string
	Path    string
	Summary string
}

type docPage struct {
	Title       string
	Description string
	Operations  []docOperation
}

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<p><a href="/v1/openapi.json">openapi.json</a></p>
<table>
{{range .Operations}}<tr><td><code>{{.Method}}</code></td><td><code>{{.Path}}</code></td><td>{{.Summary}}</td></tr>
{{end}}</table>
</body>
</html>`))

var (
	docsOnce sync.Once
	docsPage docPage
	docsErr  error
)

// loadDocs flattens the embedded document into a sorted operation list.
func loadDocs() (docPage, error) {
	docsOnce.Do(func() {
		var doc struct {
			Info struct {
				Title       string `json:"title"`
				Description string `json:"description"`
			} `json:"info"`
			Paths map[string]map[string]struct {
				Summary string `json:"summary"`
			} `json:"paths"`
		}
		if docsErr = json.Unmarshal(openAPISpec, &doc); docsErr != nil {
			return
		}
		docsPage = docPage{Title: doc.Info.Title, Description: doc.Info.Description}
		for path, ops := range doc.Paths {
			for method, op := range ops {
				docsPage.Operations = append(docsPage.Operations, docOperation{
					Method:  strings.ToUpper(method),
					Path:    path,
					Summary: op.Summary,
				})
			}
		}
		sort.Slice(docsPage.Operations, func(i, j int) bool {
			a, b := docsPage.Operations[i], docsPage.Operations[j]
			if a.Path != b.Path {
				return a.Path < b.Path
			}
			return a.Method < b.Method
		})
	})
	return docsPage, docsErr
}

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(openAPISpec)
}

// OpenAPIDocs renders a plain endpoint index of the embedded document.
func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	page, err := loadDocs()
	if err != nil {
		a.Logger.Error().Err(err).Msg("openapi: parse embedded document")
		a.error(w, http.StatusInternalServerError, "internal", "api docs unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := docsTemplate.Execute(w, page); err != nil {
		a.Logger.Warn().Err(err).Msg("openapi: render docs")
	}
}
