package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strconv"
	"strings"

	"paggie/trainer-app/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

var view = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"color":   cssColor,
	"dataURL": imageURL,
	"maxBar":  maxBar,
	"pct":     pct,
}).ParseFS(templateFS, "templates/report.html.tmpl"))

type viewData struct {
	Document
	ElementID string
}

// Render writes the HTML view of doc. The report body is the element with
// id ElementID.
func Render(w io.Writer, doc Document) error {
	if err := view.Execute(w, viewData{Document: doc, ElementID: ElementID}); err != nil {
		return fmt.Errorf("render %s report: %w", doc.Kind, err)
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func cssColor(c string) template.CSS {
	if hexColor.MatchString(c) {
		return template.CSS(c)
	}
	return template.CSS(domain.DefaultPrimaryColor)
}

// imageURL lets embedded images and http(s) links through. Anything else
// renders as nothing.
func imageURL(u string) template.URL {
	switch {
	case strings.HasPrefix(u, "data:image/"),
		strings.HasPrefix(u, "https://"),
		strings.HasPrefix(u, "http://"):
		return template.URL(u)
	}
	return ""
}

func maxBar(bars []Bar) float64 {
	m := 10.0
	for _, b := range bars {
		m = max(m, b.Before, b.After)
	}
	return m
}

// pct is the bar height in percent, never below 2 so empty bars stay visible.
func pct(v, maxValue float64) string {
	p := 2.0
	if maxValue > 0 {
		p = max(v/maxValue*100, 2)
	}
	return strconv.FormatFloat(p, 'f', 1, 64)
}
