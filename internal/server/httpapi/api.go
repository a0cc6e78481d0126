// Package httpapi exposes the bookstore REST API over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/and161185/bookstore-api/internal/model"
	"github.com/and161185/bookstore-api/internal/schema"
	"github.com/and161185/bookstore-api/internal/service"
)

// Pinger reports store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the API.
type Deps struct {
	Log         *zap.Logger
	Auth        service.AuthService
	Books       service.BookService
	Users       service.UserService
	Tokens      TokenVerifier
	Store       Pinger
	Metrics     *Metrics
	Cookie      CookieConfig
	CORSOrigins []string
	Production  bool
}

// API wires services into HTTP handlers.
type API struct {
	log     *zap.Logger
	auth    service.AuthService
	books   service.BookService
	users   service.UserService
	tokens  TokenVerifier
	store   Pinger
	metrics *Metrics
	cookie  CookieConfig
	origins []string
	prod    bool
}

// New constructs the API.
func New(d Deps) *API {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &API{
		log:     log,
		auth:    d.Auth,
		books:   d.Books,
		users:   d.Users,
		tokens:  d.Tokens,
		store:   d.Store,
		metrics: d.Metrics,
		cookie:  d.Cookie,
		origins: d.CORSOrigins,
		prod:    d.Production,
	}
}

// Routes builds the router with the global middleware chain.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	sec := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      !a.prod,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(a.log))
	r.Use(Recover(a.log))
	r.Use(a.metrics.Middleware)
	r.Use(sec.Handler)
	if len(a.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   a.origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(Session(a.tokens, a.log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Sorry couldn't find " + r.URL.Path})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: r.Method + " not allowed on " + r.URL.Path})
	})

	r.Get("/", a.root)
	r.Get("/healthz", a.health)
	r.Handle("/metrics", a.metrics.Handler())

	r.Route("/api/books", func(r chi.Router) {
		r.Get("/list", a.listBooks)
		r.Method(http.MethodGet, "/{id}", Guarded(a.log, a.getBook, ValidID("id")))
		r.Method(http.MethodPost, "/add", Guarded(a.log, a.addBook,
			RequireLogin(), ValidBody(schema.BookCreate), RequirePermission(model.PermAddBook)))
		r.Method(http.MethodPut, "/update/{id}", Guarded(a.log, a.updateBook,
			RequireLogin(), ValidID("id"), ValidBody(schema.BookUpdate), RequirePermission(model.PermEditBook)))
		r.Method(http.MethodDelete, "/delete/{id}", Guarded(a.log, a.deleteBook,
			RequireLogin(), ValidID("id"), RequirePermission(model.PermDeleteBook)))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Method(http.MethodGet, "/list", Guarded(a.log, a.listUsers,
			RequireLogin(), RequirePermission(model.PermListUsers)))
		r.Method(http.MethodPost, "/add", Guarded(a.log, a.register, ValidBody(schema.UserRegister)))
		r.Method(http.MethodPost, "/login", Guarded(a.log, a.login, ValidBody(schema.UserLogin)))
		r.Post("/logout", a.logout)
		r.Method(http.MethodPut, "/update/me", Guarded(a.log, a.updateMe,
			RequireLogin(), ValidBody(schema.UserUpdateSelf)))
		r.Method(http.MethodPut, "/update/{id}", Guarded(a.log, a.updateUser,
			RequireLogin(), ValidID("id"), ValidBody(schema.UserUpdate), RequirePermission(model.PermEditUser)))
		r.Method(http.MethodDelete, "/delete/{id}", Guarded(a.log, a.deleteUser,
			RequireLogin(), ValidID("id"), RequirePermission(model.PermDeleteUser)))
		r.Method(http.MethodGet, "/{id}", Guarded(a.log, a.getUser,
			RequireLogin(), ValidID("id"), RequirePermission(model.PermViewUser)))
	})

	return r
}

func (a *API) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageBody{Message: "Bookstore API"})
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeJSON(w, http.StatusOK, messageBody{Message: "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.store.Ping(ctx); err != nil {
		a.log.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "ok"})
}
