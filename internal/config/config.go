package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port              string
	DatabaseUser      string
	DatabasePassword  string
	DatabaseHost      string
	DatabasePort      string
	DatabaseName      string
	DatabaseSSLMode   string
	EmailAPIKey       string
	AdminEmail        string // signs in straight into the admin dashboard
	SupportEmail      string // displayed on the site for support queries
	NoReplyEmail      string // used for transactional emails
	SessionKey        []byte
	JwtSigningKey     []byte
	Env               string // either prod or dev, will disable https and few other bits
	SentryDSN         string
	MachineToken      string
	TelegramAPIToken  string // optional, new request notifications are skipped when empty
	TelegramChannelID int64
	SiteName          string
	SiteHost          string
	URLProtocol       string
	SignOnTokenTTL    time.Duration // how long a magic link stays valid
	SessionTTL        time.Duration
	DraftTTL          time.Duration // how long an unfinished intake form is kept
}

func (c Config) IsDev() bool {
	return c.Env == "dev"
}

// SiteURL returns the absolute url for path on this site
func (c Config) SiteURL(path string) string {
	return c.URLProtocol + c.SiteHost + path
}

func LoadConfig() (Config, error) {
	if strings.EqualFold(os.Getenv("ENV"), "dev") {
		// a missing .env file is fine, variables may come from the shell
		_ = godotenv.Load()
	}
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseUser := os.Getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := os.Getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseHost := os.Getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := os.Getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := os.Getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return Config{}, fmt.Errorf("ADMIN_EMAIL cannot be empty")
	}
	supportEmail := os.Getenv("SUPPORT_EMAIL")
	if supportEmail == "" {
		return Config{}, fmt.Errorf("SUPPORT_EMAIL cannot be empty")
	}
	noReplyEmail := os.Getenv("NO_REPLY_EMAIL")
	if noReplyEmail == "" {
		return Config{}, fmt.Errorf("NO_REPLY_EMAIL cannot be empty")
	}
	emailAPIKey := os.Getenv("EMAIL_API_KEY")
	if emailAPIKey == "" {
		return Config{}, fmt.Errorf("EMAIL_API_KEY cannot be empty")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	siteHost := os.Getenv("SITE_HOST")
	if siteHost == "" {
		return Config{}, fmt.Errorf("SITE_HOST cannot be empty")
	}
	machineToken := os.Getenv("MACHINE_TOKEN")
	if machineToken == "" {
		return Config{}, fmt.Errorf("MACHINE_TOKEN cannot be empty")
	}
	sentryDSN := os.Getenv("SENTRY_DSN")
	telegramAPIToken := os.Getenv("TELEGRAM_API_TOKEN")
	var telegramChannelID int64
	if telegramAPIToken != "" {
		telegramChannelIDStr := os.Getenv("TELEGRAM_CHANNEL_ID")
		if telegramChannelIDStr == "" {
			return Config{}, fmt.Errorf("TELEGRAM_CHANNEL_ID cannot be empty when TELEGRAM_API_TOKEN is set")
		}
		telegramChannelID, err = strconv.ParseInt(telegramChannelIDStr, 10, 64)
		if err != nil {
			return Config{}, errors.Wrap(err, "unable to convert telegram channel id to int")
		}
	}
	signOnTokenTTL, err := durationFromEnv("SIGN_ON_TOKEN_TTL", time.Hour)
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := durationFromEnv("SESSION_TTL", 30*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	draftTTL, err := durationFromEnv("DRAFT_TTL", 12*time.Hour)
	if err != nil {
		return Config{}, err
	}
	urlProtocol := "http://"
	if !strings.EqualFold(env, "dev") {
		urlProtocol = "https://"
	}

	return Config{
		Port:              port,
		DatabaseUser:      databaseUser,
		DatabasePassword:  databasePassword,
		DatabaseHost:      databaseHost,
		DatabasePort:      databasePort,
		DatabaseName:      databaseName,
		DatabaseSSLMode:   databaseSSLMode,
		EmailAPIKey:       emailAPIKey,
		AdminEmail:        strings.ToLower(adminEmail),
		SupportEmail:      supportEmail,
		NoReplyEmail:      noReplyEmail,
		SessionKey:        sessionKeyBytes,
		JwtSigningKey:     jwtSigningKeyBytes,
		Env:               env,
		SentryDSN:         sentryDSN,
		MachineToken:      machineToken,
		TelegramAPIToken:  telegramAPIToken,
		TelegramChannelID: telegramChannelID,
		SiteName:          siteName,
		SiteHost:          siteHost,
		URLProtocol:       urlProtocol,
		SignOnTokenTTL:    signOnTokenTTL,
		SessionTTL:        sessionTTL,
		DraftTTL:          draftTTL,
	}, nil
}

func durationFromEnv(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to parse %s", name)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}
