package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/quibly/quibly/internal/server"
	"github.com/snabb/sitemap"
)

// publicPages are the only pages worth indexing, everything else needs a session
var publicPages = []string{"/login", "/company-intake", "/candidate-intake"}

func RobotsTxtHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.TEXT(w, http.StatusOK, fmt.Sprintf("User-agent: *\nDisallow: /dashboard\nDisallow: /x/\nDisallow: /verify\n\nSitemap: %s\n", svr.GetConfig().SiteURL("/sitemap.xml")))
	}
}

func SitemapHandler(svr server.Server, lastMod time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sitemapFile := sitemap.New()
		for _, p := range publicPages {
			sitemapFile.Add(&sitemap.URL{
				Loc:        svr.GetConfig().SiteURL(p),
				LastMod:    &lastMod,
				ChangeFreq: sitemap.ChangeFreq("monthly"),
			})
		}
		buf := new(bytes.Buffer)
		if _, err := sitemapFile.WriteTo(buf); err != nil {
			svr.Log(err, "sitemapFile.WriteTo")
			svr.TEXT(w, http.StatusInternalServerError, "unable to save sitemap file")
			return
		}
		svr.XML(w, http.StatusOK, buf.Bytes())
	}
}

func NotFoundPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.Render(w, http.StatusNotFound, "404.html", nil)
	}
}
