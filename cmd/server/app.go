package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/auth"
	"github.com/sig-servicios/cotizador/internal/assistant"
	"github.com/sig-servicios/cotizador/internal/blobstore"
	"github.com/sig-servicios/cotizador/internal/config"
	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/drafts"
	"github.com/sig-servicios/cotizador/internal/handlers"
	"github.com/sig-servicios/cotizador/internal/identity"
	"github.com/sig-servicios/cotizador/internal/inspection"
	"github.com/sig-servicios/cotizador/internal/logging"
	"github.com/sig-servicios/cotizador/internal/services"
)

// App is the root handler with every route and middleware wired.
type App struct {
	handler http.Handler
	redis   *redis.Client
}

// NewApp builds stores, services and handlers from the configuration. anonConn
// may be nil, in which case the anonymous tier shares dbConn.
func NewApp(ctx context.Context, cfg *config.Config, dbConn, anonConn *gorm.DB, logger *logrus.Logger) (*App, error) {
	app := &App{}

	var scoper datastore.Scoper = datastore.NopScoper{}
	if cfg.Database.UsesRLS() {
		scoper = datastore.PostgresScoper{}
	}
	store := datastore.New(anonConn, dbConn, scoper)

	var provider identity.Provider = identity.NewLocalProvider(store)
	if cfg.Auth.Provider == "gotrue" {
		provider = identity.NewGoTrueProvider(cfg.Auth.GoTrueURL, cfg.Auth.AnonKey, cfg.Auth.ServiceKey, nil)
	}
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var draftStore drafts.Store = drafts.NewGormStore(store)
	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		draftStore = drafts.NewRedisStore(app.redis, cfg.Redis.DraftTTL)
	}

	var blobs blobstore.Store = blobstore.NewGormStore(store)
	if cfg.Storage.Enabled() {
		m, err := blobstore.NewMinioStore(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
		if err != nil {
			return nil, fmt.Errorf("object storage: %w", err)
		}
		blobs = m
	}

	quotations := services.NewQuotationService(store, cfg.App.PhoneRegion)
	routes := &handlers.RouterConfig{
		Store:       store,
		Auth:        handlers.NewAuthHandler(services.NewAccountService(store, provider, issuer, cfg.Auth.EmailDomain, logger)),
		Users:       handlers.NewUserHandler(services.NewUserService(store)),
		Company:     handlers.NewCompanyHandler(quotations),
		Clients:     handlers.NewClientHandler(services.NewClientService(store, cfg.App.PhoneRegion)),
		Tariffs:     handlers.NewTariffHandler(services.NewTariffService(store)),
		Quotations:  handlers.NewQuotationHandler(quotations),
		Reports:     handlers.NewReportHandler(services.NewReportService(store)),
		AI:          handlers.NewAIHandler(assistant.New(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, nil)),
		Inspections: handlers.NewInspectionHandler(services.NewInspectionService(store, draftStore, blobs, inspection.DefaultCatalog())),
	}
	mux := http.NewServeMux()
	routes.Register(mux)

	app.handler = issuer.Middleware(
		logging.Middleware(logger)(
			handlers.Recover(
				handlers.CORS(cfg.App.CORSOrigins)(mux))))
	return app, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Close releases the optional cache connection.
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
