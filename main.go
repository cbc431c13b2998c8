package main

import (
	"embed"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/quibly/quibly/internal/auth"
	"github.com/quibly/quibly/internal/company"
	"github.com/quibly/quibly/internal/config"
	"github.com/quibly/quibly/internal/contractor"
	"github.com/quibly/quibly/internal/database"
	"github.com/quibly/quibly/internal/email"
	"github.com/quibly/quibly/internal/handler"
	"github.com/quibly/quibly/internal/intake"
	"github.com/quibly/quibly/internal/meta"
	"github.com/quibly/quibly/internal/middleware"
	"github.com/quibly/quibly/internal/notify"
	"github.com/quibly/quibly/internal/profile"
	"github.com/quibly/quibly/internal/request"
	"github.com/quibly/quibly/internal/server"
	"github.com/quibly/quibly/internal/template"
	"github.com/quibly/quibly/internal/user"
)

//go:embed static/views/*.html
var views embed.FS

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)
	if err := database.Migrate(conn); err != nil {
		log.Fatalf("unable to migrate database: %v", err)
	}

	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   !cfg.IsDev(),
		SameSite: http.SameSiteLaxMode,
	}

	svr := server.NewServer(
		cfg,
		conn,
		mux.NewRouter(),
		template.NewTemplate(views),
		sessionStore,
	)

	userRepo := user.NewRepository(conn)
	profileRepo := profile.NewRepository(conn)
	requestRepo := request.NewRepository(conn)
	contractorRepo := contractor.NewRepository(conn)
	metaRepo := meta.NewRepository(conn)

	loader := auth.NewLoader(sessionStore, svr.GetJWTSigningKey(), userRepo, profileRepo, cfg.AdminEmail, svr.Logger())
	emailClient := email.NewClient(cfg.EmailAPIKey, cfg.SupportEmail, cfg.NoReplyEmail, cfg.SiteName)
	links := auth.NewMagicLinks(userRepo, emailClient, cfg.SiteURL)
	drafts := intake.NewDraftStore(svr)
	var notifier intake.Notifier
	if tg := notify.NewTelegram(cfg.TelegramAPIToken, cfg.TelegramChannelID, cfg.SiteURL("/dashboard/admin?tab=requests")); tg != nil {
		notifier = tg
	}
	submitter := intake.NewSubmitter(links, requestRepo, notifier, svr.Logger())
	enricher := company.NewEnricher(nil, svr.Logger())

	svr.RegisterRoute("/robots.txt", handler.RobotsTxtHandler(svr), []string{"GET"})
	svr.RegisterRoute("/sitemap.xml", handler.SitemapHandler(svr, time.Now().UTC()), []string{"GET"})

	svr.RegisterRoute("/", handler.IndexPageHandler(svr, loader), []string{"GET"})

	// sign on
	svr.RegisterRoute("/login", handler.LoginPageHandler(svr, loader), []string{"GET"})
	svr.RegisterRoute("/x/auth", handler.RequestTokenSignOn(svr, links), []string{"POST"})
	svr.RegisterRoute("/verify", handler.VerifyTokenSignOn(svr, loader, userRepo, requestRepo), []string{"GET"})
	svr.RegisterRoute("/x/signout", handler.SignOutHandler(svr, drafts), []string{"POST"})

	// intake
	svr.RegisterRoute("/company-intake", handler.CompanyIntakePageHandler(svr, loader, drafts), []string{"GET"})
	svr.RegisterRoute("/x/company-intake", handler.CompanyIntakeStepHandler(svr, loader, drafts, submitter), []string{"POST"})
	svr.RegisterRoute("/candidate-intake", handler.CandidateIntakePageHandler(svr), []string{"GET"})

	// dashboards
	protected := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.UserAuthenticatedMiddleware(sessionStore, svr.GetJWTSigningKey(), next)
	}
	svr.RegisterRoute("/dashboard", protected(handler.DashboardPageHandler(svr, loader)), []string{"GET"})
	svr.RegisterRoute("/dashboard/company", protected(handler.CompanyDashboardPageHandler(svr, loader, requestRepo, contractorRepo)), []string{"GET"})
	svr.RegisterRoute("/dashboard/candidate", protected(handler.CandidateDashboardPageHandler(svr, loader)), []string{"GET"})
	svr.RegisterRoute("/dashboard/admin", protected(handler.AdminDashboardPageHandler(svr, loader, requestRepo, profileRepo)), []string{"GET"})

	// admin actions
	svr.RegisterRoute("/x/admin/request/{id}/status", handler.UpdateRequestStatusHandler(svr, loader, requestRepo), []string{"POST"})
	svr.RegisterRoute("/x/admin/request/{id}/match", handler.AddMatchedDeveloperHandler(svr, loader, contractorRepo), []string{"POST"})
	svr.RegisterRoute("/x/admin/profile/{id}/type", handler.UpdateProfileTypeHandler(svr, loader, profileRepo), []string{"POST"})

	// tasks
	svr.RegisterRoute("/x/task/sign-on-token-cleanup", handler.TriggerSignOnTokenCleanup(svr, userRepo, metaRepo), []string{"POST"})
	svr.RegisterRoute("/x/task/company-enrichment", handler.TriggerCompanyEnrichment(svr, enricher, requestRepo, metaRepo), []string{"POST"})

	svr.RegisterNotFound(handler.NotFoundPageHandler(svr))

	log.Fatal(svr.Run())
}
