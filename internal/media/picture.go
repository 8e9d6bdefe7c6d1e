package media

import (
	"bytes"
	"html/template"
)

// PictureAttrs are the <img> attributes of a rendered <picture>.
type PictureAttrs struct {
	Alt           string
	Class         string
	Width         int
	Height        int
	Loading       string
	FetchPriority string
}

var pictureTmpl = template.Must(template.New("picture").Parse(
	`{{if .Sources}}<picture>{{range .Sources}}<source{{if .Media}} media="{{.Media}}"{{end}} srcset="{{.URL}}" type="{{.MIME}}">{{end}}{{template "img" .}}</picture>{{else}}{{template "img" .}}{{end}}` +
		`{{define "img"}}<img src="{{.Src}}" alt="{{.Alt}}" class="{{.Class}}" width="{{.Width}}" height="{{.Height}}" loading="{{.Loading}}" decoding="async"{{if .FetchPriority}} fetchpriority="{{.FetchPriority}}"{{end}}>{{end}}`,
))

type pictureView struct {
	PictureAttrs
	Sources []MediaSource
	Src     string
}

func renderPicture(sources []MediaSource, src string, attrs PictureAttrs) template.HTML {
	if attrs.Loading == "" {
		attrs.Loading = "lazy"
	}
	var buf bytes.Buffer
	if err := pictureTmpl.Execute(&buf, pictureView{PictureAttrs: attrs, Sources: sources, Src: src}); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

// Picture renders a <picture> for a single size token. The original is only
// used as the <img> fallback, never as a <source>. An empty name renders a
// bare <img> pointing at the placeholder.
func (r *Resolver) Picture(name, token string, attrs PictureAttrs) template.HTML {
	var sources []MediaSource
	for _, s := range r.Sources(name, token) {
		if s.MIME == FormatAVIF.MIME() || s.MIME == FormatWebP.MIME() {
			sources = append(sources, MediaSource{MIME: s.MIME, URL: s.URL})
		}
	}
	return renderPicture(sources, r.FallbackSrc(name, token), attrs)
}

// ResponsivePicture renders one <source> per breakpoint and format. The
// <img> fallback uses the last breakpoint (the default viewport).
func (r *Resolver) ResponsivePicture(name string, breakpoints []Breakpoint, attrs PictureAttrs) template.HTML {
	fallbackToken := ""
	if len(breakpoints) > 0 {
		fallbackToken = breakpoints[len(breakpoints)-1].Token
	}
	return renderPicture(r.Responsive(name, breakpoints), r.FallbackSrc(name, fallbackToken), attrs)
}
