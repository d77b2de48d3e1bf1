// Package api provides the HTTP handlers and router for the auth service
// REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/middleware"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/service/security"
)

// Handler carries the service dependencies of every route.
type Handler struct {
	auth        *security.AuthService
	federation  *security.FederationService
	tokens      *security.TokenService
	authz       *security.AuthorizationService
	users       *security.UserService
	groups      *security.GroupService
	permissions *security.PermissionService
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required service dependencies.
func NewHandler(
	auth *security.AuthService,
	federation *security.FederationService,
	tokens *security.TokenService,
	authz *security.AuthorizationService,
	users *security.UserService,
	groups *security.GroupService,
	permissions *security.PermissionService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:        auth,
		federation:  federation,
		tokens:      tokens,
		authz:       authz,
		users:       users,
		groups:      groups,
		permissions: permissions,
		logger:      logger.With("component", "api"),
	}
}

// RouterConfig holds the HTTP-surface knobs the router needs.
type RouterConfig struct {
	CORSAllowedOrigins []string
	RateLimit          middleware.RateLimitConfig
}

// NewRouter mounts the full API surface under /api/v1. Auth endpoints are
// public but rate-limited; everything else requires a session token.
func (h *Handler) NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RateLimiter(cfg.RateLimit))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/local/signup", h.SignupLocal)
			r.Post("/local/login", h.LoginLocal)
			r.Post("/login/social/{provider}", h.LoginSocial)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(h.tokens))

			r.Route("/users", func(r chi.Router) {
				r.With(middleware.RequirePermission(h.authz, "admin.users.read")).
					Get("/", h.ListUsers)
				r.Route("/{userID}", func(r chi.Router) {
					r.With(middleware.RequireSelfOrAdmin(h.authz, "*.users.read")).
						Get("/", h.GetUser)
					r.With(middleware.RequireSelfOrAdmin(h.authz, "*.users.write")).
						Patch("/", h.UpdateUser)
					r.With(middleware.RequireSelfOrAdmin(h.authz, "*.users.write")).
						Delete("/", h.DeleteUser)
				})
			})

			r.Route("/groups", func(r chi.Router) {
				r.With(middleware.RequirePermission(h.authz, "*.groups.read")).
					Get("/", h.ListGroups)
				r.With(middleware.RequirePermission(h.authz, "admin.groups.write")).
					Post("/", h.CreateGroup)
				r.Route("/{groupID}", func(r chi.Router) {
					r.With(middleware.RequirePermission(h.authz, "*.groups.read")).
						Get("/", h.GetGroup)
					r.With(middleware.RequirePermission(h.authz, "admin.groups.write")).
						Patch("/", h.UpdateGroup)
					r.With(middleware.RequirePermission(h.authz, "admin.groups.write")).
						Delete("/", h.DeleteGroup)
					r.With(middleware.RequirePermission(h.authz, "admin.groups.write")).
						Patch("/users", h.AddGroupUsers)
					r.With(middleware.RequirePermission(h.authz, "admin.groups.write")).
						Delete("/users/{userID}", h.RemoveGroupUser)
					r.With(middleware.RequirePermission(h.authz, "*.groups.read")).
						Get("/users", h.ListGroupUsers)
				})
			})

			r.Route("/permissions", func(r chi.Router) {
				r.With(middleware.RequirePermission(h.authz, "admin.permissions.read")).
					Get("/", h.ListPermissions)
				r.With(middleware.RequirePermission(h.authz, "admin.permissions.write")).
					Post("/", h.CreatePermission)
				r.With(middleware.RequirePermission(h.authz, "*.permissions.read")).
					Get("/user", h.GetOwnPermissions)
				r.With(middleware.RequireSelfOrAdmin(h.authz, "*.permissions.read")).
					Get("/user/{userID}", h.GetUserPermissions)
				r.Route("/group/{groupID}", func(r chi.Router) {
					r.With(middleware.RequirePermission(h.authz, "admin.permissions.read")).
						Get("/", h.GetGroupPermissions)
					r.With(middleware.RequirePermission(h.authz, "admin.permissions.write")).
						Post("/", h.AttachGroupPermissions)
					r.With(middleware.RequirePermission(h.authz, "admin.permissions.write")).
						Delete("/", h.DetachGroupPermissions)
				})
			})
		})
	})

	return r
}

// --- response helpers ---

func (h *Handler) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError renders a domain error as the JSON error envelope. Internal
// errors are logged and masked; client-caused errors pass their message
// through.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := httpStatusFromDomainError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		message = "internal server error"
	}
	h.writeJSON(w, code, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

// pageFromQuery extracts a PageRequest from max_results/page_token params.
func pageFromQuery(r *http.Request) (domain.PageRequest, error) {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return p, domain.ErrValidation("max_results must be a positive integer")
		}
		p.MaxResults = n
	}
	return p, nil
}
