// Package server is the thin HTTP embedding layer spec.md §1 references
// only via the contract it consumes from the core: a chi router exposing
// evaluate/cache-stats/admin-reload routes, translating pkg/skillet results
// into the JSON envelope spec.md §7 describes. CORS, multipart upload, and
// the scripting host itself are explicitly out of scope (spec.md §1) and
// are not implemented here.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/skillet/internal/config"
	"github.com/cwbudde/skillet/internal/jsonvalue"
	"github.com/cwbudde/skillet/internal/plugin"
	"github.com/cwbudde/skillet/internal/value"
	"github.com/cwbudde/skillet/pkg/skillet"
)

// Server wires config, a logger, and a plugin loader into a chi.Router.
type Server struct {
	cfg    config.Config
	log    *zap.Logger
	loader *plugin.Loader
	router chi.Router
}

// New builds a Server ready to ListenAndServe.
func New(cfg config.Config, log *zap.Logger, loader *plugin.Loader) *Server {
	s := &Server{cfg: cfg, log: log, loader: loader}
	s.router = s.buildRouter()
	return s
}

// Router exposes the underlying chi.Router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// ListenAndServe boots the HTTP server on the configured listen address.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.RequestTimeout,
		WriteTimeout: s.cfg.RequestTimeout,
	}
	return srv.ListenAndServe()
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestUUID)
	r.Use(s.logRequests)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", s.handleEvaluate)
		r.Get("/cache/stats", s.handleCacheStats)
		r.Post("/admin/functions/reload", s.requireAdmin(s.handleReload))
	})
	return r
}

// requestUUID tags every request with a google/uuid request id, logged via
// zap, per the pack-wide request-correlation idiom.
func (s *Server) requestUUID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", w.Header().Get("X-Request-Id")),
		)
	})
}

type evaluateRequest struct {
	Expression string         `json:"expression"`
	Variables  map[string]any `json:"variables"`
}

type evaluateResponse struct {
	Success         bool   `json:"success"`
	Result          any    `json:"result,omitempty"`
	Error           string `json:"error,omitempty"`
	CacheHit        bool   `json:"cache_hit"`
	ExecutionTimeMs int64  `json:"execution_time_ms"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, evaluateResponse{Success: false, Error: err.Error()})
		return
	}

	scope := make(map[string]value.Value, len(req.Variables))
	for k, v := range req.Variables {
		scope[k] = fromAny(v)
	}

	res := skillet.EvaluateCached(req.Expression, scope, false)

	if res.Err != nil {
		writeJSON(w, http.StatusOK, evaluateResponse{
			Success:         false,
			Error:           res.Err.Error(),
			CacheHit:        res.CacheHit,
			ExecutionTimeMs: res.Duration.Milliseconds(),
		})
		return
	}
	writeJSON(w, http.StatusOK, evaluateResponse{
		Success:         true,
		Result:          toAny(res.Value),
		CacheHit:        res.CacheHit,
		ExecutionTimeMs: res.Duration.Milliseconds(),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, skillet.CacheStats())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.loader.Reload(s.cfg.PluginDir); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reloaded": true})
}

// requireAdmin gates a handler behind a bearer token signed with the
// configured admin secret, standing in for the original's TokenConfig/
// admin-token contract without its dev-mode warnings.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken == "" {
			http.Error(w, "admin token not configured", http.StatusServiceUnavailable)
			return
		}
		authz := r.Header.Get("Authorization")
		raw := strings.TrimPrefix(authz, "Bearer ")
		if raw == authz || raw == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return []byte(s.cfg.AdminToken), nil
		})
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fromAny converts a decoded JSON scalar/composite into a value.Value,
// sharing skillet's JSON-boundary conventions.
func fromAny(v any) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Null
	case bool:
		return value.Boolean(x)
	case float64:
		return value.Number(x)
	case string:
		return value.String(x)
	default:
		return value.JSON(jsonvalue.FromGo(v))
	}
}

func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// toAny converts a value.Value back into a plain Go value for the response
// envelope's "result" field.
func toAny(v value.Value) any {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindNumber:
		return v.Num()
	case value.KindString:
		return v.Str()
	case value.KindBoolean:
		return v.Bool()
	case value.KindDateTime:
		return v.Unix()
	case value.KindArray:
		elems := v.Elems()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = toAny(e)
		}
		return out
	case value.KindJSON:
		return v.JSONDoc().ToGo()
	default:
		return nil
	}
}
