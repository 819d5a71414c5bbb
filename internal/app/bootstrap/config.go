// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/recordhub/internal/app/store/resettokens"
	"github.com/dalemusser/recordhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for RecordHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_key, etc.
//   - Environment variables: RECORDHUB_MONGO_URI, RECORDHUB_SESSION_KEY, etc.
//   - Command-line flags: --mongo_uri, --session_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "record_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Session tokens
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session token signing key (must be strong in production)"},
	{Name: "session_ttl", Default: "4h", Desc: "Session token lifetime (e.g., 4h, 90m)"},

	// Google federated login
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID (expected ID-token audience)"},

	// Email delivery
	{Name: "mail_provider", Default: "", Desc: "Mail provider: 'resend', 'smtp', or empty to disable"},
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "resend_api_key", Default: "", Desc: "Resend API key (provider 'resend')"},
	{Name: "mail_from", Default: "noreply@recordhub.app", Desc: "From email address"},
	{Name: "mail_from_name", Default: "RecordHub", Desc: "From display name"},

	// Password reset
	{Name: "reset_base_url", Default: "http://localhost:5173/reset-password", Desc: "Link target for password-reset emails"},
	{Name: "reset_token_expiry", Default: "30m", Desc: "Password-reset token lifetime (e.g., 30m, 1h)"},

	// CORS
	{Name: "allowed_origins", Default: "http://localhost:5173", Desc: "Comma-separated allowed origins (any *.netlify.app is also accepted)"},

	// Branding
	{Name: "site_name", Default: "RecordHub", Desc: "Display name used in outbound email"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, RECORDHUB_* for app), and
// command-line flags, with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "RECORDHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey: appValues.String("session_key"),
		SessionTTL: appValues.Duration("session_ttl", auth.DefaultTTL),

		GoogleClientID: appValues.String("google_client_id"),

		MailProvider: appValues.String("mail_provider"),
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		ResendAPIKey: appValues.String("resend_api_key"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		ResetBaseURL:     appValues.String("reset_base_url"),
		ResetTokenExpiry: appValues.Duration("reset_token_expiry", resettokens.DefaultExpiry),

		AllowedOrigins: splitOrigins(appValues.String("allowed_origins")),

		SiteName: appValues.String("site_name"),
	}

	return coreCfg, appCfg, nil
}

func splitOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// RecordHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and refuses mail-provider
// settings that could never deliver.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.MailProvider {
	case "", "smtp":
		// smtp with incomplete settings degrades to dropped mail, logged at send time
	case "resend":
		if appCfg.ResendAPIKey == "" {
			return fmt.Errorf("mail_provider 'resend' requires resend_api_key")
		}
	default:
		return fmt.Errorf("unknown mail_provider %q (want 'resend', 'smtp', or empty)", appCfg.MailProvider)
	}

	if appCfg.ResetTokenExpiry <= 0 {
		return fmt.Errorf("reset_token_expiry must be positive")
	}

	return nil
}
