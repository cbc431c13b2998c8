package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/quibly/quibly/internal/config"
	"github.com/quibly/quibly/internal/middleware"
	"github.com/quibly/quibly/internal/template"
	"github.com/rs/zerolog"
)

const draftIDKey = "draft_id"

type Server struct {
	cfg          config.Config
	Conn         *sql.DB
	router       *mux.Router
	tmpl         *template.Template
	SessionStore *sessions.CookieStore
	bigCache     *bigcache.BigCache
	logger       zerolog.Logger
	emailRe      *regexp.Regexp
}

func NewServer(
	cfg config.Config,
	conn *sql.DB,
	r *mux.Router,
	t *template.Template,
	sessionStore *sessions.CookieStore,
) Server {
	raven.SetDSN(cfg.SentryDSN)
	raven.SetEnvironment(cfg.Env)

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("site", cfg.SiteName).Logger()
	if cfg.IsDev() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	bigCache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(cfg.DraftTTL))
	svr := Server{
		cfg:          cfg,
		Conn:         conn,
		router:       r,
		tmpl:         t,
		SessionStore: sessionStore,
		bigCache:     bigCache,
		logger:       logger,
		emailRe:      regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
	}
	if err != nil {
		svr.Log(err, "unable to initialise big cache")
	}

	return svr
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) RegisterNotFound(handler http.HandlerFunc) {
	s.router.NotFoundHandler = handler
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) Logger() zerolog.Logger {
	return s.logger
}

func (s Server) Render(w http.ResponseWriter, status int, htmlView string, data interface{}) error {
	dataMap := make(map[string]interface{}, 0)
	if data != nil {
		dataMap = data.(map[string]interface{})
	}
	dataMap["SiteName"] = s.cfg.SiteName
	dataMap["SupportEmail"] = s.cfg.SupportEmail
	dataMap["SiteHost"] = s.cfg.SiteHost
	dataMap["CurrentYear"] = time.Now().UTC().Year()

	return s.tmpl.Render(w, status, htmlView, dataMap)
}

func (s Server) XML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	w.Write(data)
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

// Log reports err to sentry when configured and writes it to the process log
func (s Server) Log(err error, msg string) {
	if s.cfg.SentryDSN != "" {
		raven.CaptureError(err, map[string]string{"ctx": msg})
	}
	s.logger.Error().Err(err).Msg(msg)
}

func (s Server) Redirect(w http.ResponseWriter, r *http.Request, status int, dst string) {
	http.Redirect(w, r, dst, status)
}

func (s Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.IsDev() {
		s.logger.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	srv := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: middleware.HTTPSMiddleware(
			middleware.GzipMiddleware(
				middleware.LoggingMiddleware(middleware.HeadersMiddleware(s.router, s.cfg.Env)),
			),
			s.cfg.Env,
		),
	}
	return srv.ListenAndServe()
}

func (s Server) GetJWTSigningKey() []byte {
	return s.cfg.JwtSigningKey
}

func (s Server) CacheGet(key string) ([]byte, bool) {
	if s.bigCache == nil {
		return nil, false
	}
	out, err := s.bigCache.Get(key)
	if err != nil {
		return []byte{}, false
	}
	return out, true
}

func (s Server) CacheSet(key string, val []byte) error {
	if s.bigCache == nil {
		return fmt.Errorf("cache is not available")
	}
	return s.bigCache.Set(key, val)
}

func (s Server) CacheDelete(key string) error {
	if s.bigCache == nil {
		return nil
	}
	err := s.bigCache.Delete(key)
	if err == bigcache.ErrEntryNotFound {
		return nil
	}
	return err
}

func (s Server) IsEmail(val string) bool {
	return s.emailRe.MatchString(val)
}

// AddFlash queues a message shown on the next rendered page
func (s Server) AddFlash(w http.ResponseWriter, r *http.Request, msg string) {
	sess, err := middleware.Session(r, s.SessionStore)
	if err != nil {
		s.Log(err, "unable to get session for flash")
		return
	}
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		s.Log(err, "unable to save flash into session")
	}
}

func (s Server) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, err := middleware.Session(r, s.SessionStore)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		s.Log(err, "unable to clear flashes from session")
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// DraftID returns the intake draft id kept in the session, generating one with newID when missing
func (s Server) DraftID(w http.ResponseWriter, r *http.Request, newID func() string) string {
	sess, err := middleware.Session(r, s.SessionStore)
	if err != nil {
		return ""
	}
	if id, ok := sess.Values[draftIDKey].(string); ok && id != "" {
		return id
	}
	id := newID()
	sess.Values[draftIDKey] = id
	if err := sess.Save(r, w); err != nil {
		s.Log(err, "unable to save draft id into session")
		return ""
	}
	return id
}

func (s Server) ClearDraftID(w http.ResponseWriter, r *http.Request) string {
	sess, err := middleware.Session(r, s.SessionStore)
	if err != nil {
		return ""
	}
	id, _ := sess.Values[draftIDKey].(string)
	delete(sess.Values, draftIDKey)
	if err := sess.Save(r, w); err != nil {
		s.Log(err, "unable to clear draft id from session")
	}
	return id
}
