// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: WAFFLE's CoreConfig
// handles framework-level settings like HTTP ports, TLS, and log level.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session token configuration
	SessionKey string        // Secret key for signing session tokens (must be strong in production)
	SessionTTL time.Duration // Session token lifetime

	// Google federated login
	GoogleClientID string // OAuth client id, the expected ID-token audience

	// Email delivery configuration
	MailProvider string // "resend", "smtp", or "" (disabled)
	MailSMTPHost string // SMTP server host
	MailSMTPPort int    // SMTP server port
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	ResendAPIKey string // Resend API key (provider "resend")
	MailFrom     string // From email address
	MailFromName string // From display name

	// Password reset
	ResetBaseURL     string        // Link target for reset emails
	ResetTokenExpiry time.Duration // Reset token lifetime

	// CORS
	AllowedOrigins []string // Fixed allowed origins; any *.netlify.app is also accepted

	// Display name used in outbound email
	SiteName string
}
