package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/handlers/v1/account"
	"github.com/carson-networks/bank-server/internal/handlers/v1/session"
	"github.com/carson-networks/bank-server/internal/handlers/v1/status"
	"github.com/carson-networks/bank-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/bank-server/internal/handlers/v1/user"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/service"
	"github.com/carson-networks/bank-server/internal/storage"
)

const (
	shutdownTimeout  = 15 * time.Second
	bearerSchemeName = "bearer"
	serviceName      = "bank-server"
	apiVersion       = "1.0.0"
	apiTitle         = "Bank Server"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Storage *storage.Storage
	Service *service.Service
	Tokens  *auth.TokenIssuer
}

// Router builds the full HTTP handler: /status as a plain handler, and every
// /v1 operation through huma. Register and login are public; everything else
// requires a bearer token.
func (r *Rest) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	statusHandler := status.NewHandler(r.Storage)
	router.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		bearerSchemeName: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(router, config)
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	session.NewHandler(r.Service.User).Register(api)

	authenticator := auth.NewAuthenticator(r.Tokens, r.Storage.Reader.Users)
	protected := huma.NewGroup(api)
	protected.UseMiddleware(authenticator.Middleware)
	protected.UseSimpleModifier(func(op *huma.Operation) {
		op.Security = []map[string][]string{{bearerSchemeName: {}}}
	})

	session.NewLogoutHandler().Register(protected)

	account.NewCreateAccountHandler(r.Service.Account).Register(protected)
	account.NewListAccountsHandler(r.Service.Account).Register(protected)
	account.NewGetAccountHandler(r.Service.Account).Register(protected)
	account.NewUpdateAccountHandler(r.Service.Account).Register(protected)
	account.NewDeleteAccountHandler(r.Service.Account).Register(protected)
	account.NewBalanceHandler(r.Service.Account).Register(protected)

	transaction.NewTransferHandler(r.Service.Transfer).Register(protected)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(protected)
	transaction.NewStatementHandler(r.Service.Transaction).Register(protected)

	user.NewHandler(r.Service.User).Register(protected)

	return otelhttp.NewHandler(router, serviceName)
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		listenErr <- server.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		return err
	}
	return nil
}
