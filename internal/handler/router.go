/*
Package handler provides the HTTP handlers and routing setup for the ShutterChat server.

This file defines the main Router, applying middleware (logging, CORS, IP rate
limiting, role checks) before delegating to the API and WebSocket handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"shutterchat/internal/pkg/auth/jwt"
	"shutterchat/internal/pkg/limiter"
	"shutterchat/internal/pkg/logx"
	"shutterchat/internal/pkg/metrics"
	"shutterchat/internal/pkg/resp"
)

const (
	CreateRate   = 0.05
	CreateBurst  = 2
	ConnectRate  = 0.2
	ConnectBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
func Router(deps *AppDeps) http.Handler {
	createLimiter := limiter.NewIPRateLimiter(rate.Limit(CreateRate), CreateBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "ShutterChat Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/rooms", func(rooms chi.Router) {
			rateLimitedCreate := createLimiter.Middleware(HandleCreateRoom(deps))
			rooms.Post("/", http.HandlerFunc(rateLimitedCreate.ServeHTTP))
			rooms.Post("/{code}/join", HandleJoinRoom(deps))
			rooms.Post("/{code}/leave", HandleLeaveRoom(deps))
			rooms.Get("/{code}/members", HandleRoomMembers(deps))
		})

		api.Route("/messages", func(msgs chi.Router) {
			msgs.Post("/", HandleSubmitMessage(deps))
			msgs.Post("/ack", HandleAcknowledge(deps))
		})

		// Metric sources and moderation tooling push here; operator tokens only.
		api.Route("/dashboard", func(dash chi.Router) {
			dash.Use(jwt.RequireRole(deps.Config.JWTSecret, jwt.RoleOps))
			dash.Post("/metrics", HandlePushMetrics(deps))
			dash.Post("/alerts", HandlePushAlert(deps))
		})

		if deps.Storage != nil {
			api.Route("/files", func(files chi.Router) {
				files.Post("/presign-upload", HandlePresignUpload(deps))
				files.Get("/presign-download", HandlePresignDownload(deps))
			})
		}
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
