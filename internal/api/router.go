package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"rjboard/internal/auth"
	"rjboard/internal/config"
	"rjboard/internal/service"
	"rjboard/internal/upstream"
)

type Server struct {
	router *chi.Mux
	config *config.Config
}

func NewServer(cfg *config.Config, client *upstream.Client) (*Server, error) {
	sessions := auth.NewSessionStore(cfg.Session.Secret, cfg.Session.TTL, cfg.Production())
	gate := auth.NewGate(sessions)

	purchaseService := service.NewPurchaseService(client)
	goodiesService := service.NewGoodiesService(client, purchaseService)
	accomplishmentService := service.NewAccomplishmentService(client)
	userService := service.NewUserService(client)

	resolver, err := NewClientIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}

	authHandler := NewAuthHandler(sessions, client)
	goodiesHandler := NewGoodiesHandler(goodiesService, purchaseService, client)
	accomplishmentHandler := NewAccomplishmentHandler(accomplishmentService, client)
	userHandler := NewUserHandler(userService, client)
	healthHandler := NewHealthHandler(client)

	authMiddleware := NewAuthMiddleware(gate)

	loginLimiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return resolver.Resolve(r), nil
		}),
	)

	r := chi.NewRouter()
	r.Use(slogRequestLogger(resolver))
	r.Use(middleware.Recoverer)
	r.Use(securityHeadersMiddleware)
	r.Use(maxBodySizeMiddleware(1 << 20)) // 1 MB

	r.Get("/health", healthHandler.Check)

	r.With(loginLimiter).Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireSession)

		r.Get("/users/me", userHandler.Me)
		r.Patch("/users/{userId}", userHandler.Update)

		r.Post("/goodies", goodiesHandler.Create)
		r.Route("/goodies/{goodiesId}", func(r chi.Router) {
			r.Get("/", goodiesHandler.Get)
			r.Put("/", goodiesHandler.Purchase)
			r.Patch("/", goodiesHandler.Update)
			r.Delete("/", goodiesHandler.Delete)
		})

		r.Post("/challenges/{challengeId}", accomplishmentHandler.ChallengeAction)
		r.Patch("/accomplishments/{accomplishmentId}", accomplishmentHandler.Update)
		r.Delete("/accomplishments/{accomplishmentId}", accomplishmentHandler.Delete)
	})

	return &Server{
		router: r,
		config: cfg,
	}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func maxBodySizeMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func slogRequestLogger(resolver *ClientIPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"remote", resolver.Resolve(r),
			)
		})
	}
}
