// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	accountsfeature "github.com/dalemusser/recordhub/internal/app/features/accounts"
	healthfeature "github.com/dalemusser/recordhub/internal/app/features/health"
	passwordresetfeature "github.com/dalemusser/recordhub/internal/app/features/passwordreset"
	recordsfeature "github.com/dalemusser/recordhub/internal/app/features/records"
	"github.com/dalemusser/recordhub/internal/app/features/rpc"
	"github.com/dalemusser/recordhub/internal/app/store/courses"
	"github.com/dalemusser/recordhub/internal/app/store/resettokens"
	"github.com/dalemusser/recordhub/internal/app/store/semesters"
	userstore "github.com/dalemusser/recordhub/internal/app/store/users"
	"github.com/dalemusser/recordhub/internal/app/system/auth"
	"github.com/dalemusser/recordhub/internal/app/system/googleid"
	"github.com/dalemusser/recordhub/internal/app/system/mailer"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. RecordHub wires the session manager, the
// Google ID-token verifier, and the mailer, then mounts the health
// endpoint and the operation registry under /rpc.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	sessions, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionTTL, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	googleVerifier := googleid.New(appCfg.GoogleClientID)

	mail := mailer.New(mailer.Config{
		Provider:     appCfg.MailProvider,
		SMTPHost:     appCfg.MailSMTPHost,
		SMTPPort:     appCfg.MailSMTPPort,
		SMTPUser:     appCfg.MailSMTPUser,
		SMTPPass:     appCfg.MailSMTPPass,
		ResendAPIKey: appCfg.ResendAPIKey,
		From:         appCfg.MailFrom,
		FromName:     appCfg.MailFromName,
	}, logger)
	if !mail.Enabled() {
		logger.Warn("mail delivery not configured, reset emails will be dropped")
	}

	users := userstore.New(deps.MongoDatabase)
	tokens := resettokens.New(deps.MongoDatabase, appCfg.ResetTokenExpiry)
	sems := semesters.New(deps.MongoDatabase)
	crs := courses.New(deps.MongoDatabase)

	accounts := accountsfeature.NewHandler(users, sessions, googleVerifier, logger)
	reset := passwordresetfeature.NewHandler(users, tokens, mail, appCfg.ResetBaseURL, appCfg.SiteName, logger)
	records := recordsfeature.NewHandler(sems, crs, accounts, logger)

	registry := rpc.NewRegistry(logger)
	accountsfeature.Register(registry, accounts)
	passwordresetfeature.Register(registry, reset)
	recordsfeature.Register(registry, records)

	r := chi.NewRouter()

	// Fixed origins from config plus any Netlify deploy preview.
	allowed := appCfg.AllowedOrigins
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			for _, o := range allowed {
				if origin == o {
					return true
				}
			}
			return strings.HasSuffix(origin, ".netlify.app")
		},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Operation transport
	r.Mount("/rpc", rpc.Routes(registry))

	return r, nil
}
