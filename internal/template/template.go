package template

import (
	"fmt"
	stdtemplate "html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

type Template struct {
	templates *stdtemplate.Template
}

var ugc = bluemonday.UGCPolicy()

func NewTemplate(fsys fs.FS) *Template {
	funcMap := stdtemplate.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"humantime": humanize.Time,
		"humannumber": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"stringTitle": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"join": strings.Join,
		"contains": func(list []string, v string) bool {
			for _, s := range list {
				if s == v {
					return true
				}
			}
			return false
		},
		"roleError": func(errs map[string]string, i int, field string) string {
			return errs[fmt.Sprintf("developerRoles[%d].%s", i, field)]
		},
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"longDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"markdown": MarkdownToHTML,
		"statusClass": func(status string) string {
			return "status-" + strings.ReplaceAll(strings.ToLower(status), " ", "-")
		},
	}
	return &Template{
		templates: stdtemplate.Must(stdtemplate.New("stdtmpl").Funcs(funcMap).ParseFS(fsys, "static/views/*.html")),
	}
}

func (t *Template) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return t.templates.ExecuteTemplate(w, name, data)
}

// MarkdownToHTML renders user supplied markdown, the output is sanitized
func MarkdownToHTML(s string) stdtemplate.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink |
			blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks |
			blackfriday.HrefTargetBlank,
	})
	return stdtemplate.HTML(ugc.SanitizeBytes(blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer))))
}
