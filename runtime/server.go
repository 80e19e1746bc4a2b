package runtime

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RouteHandler is the shape an emitted API route's generated handler
// takes, once bridged from JS into this Go runtime.
type RouteHandler func(w http.ResponseWriter, r *http.Request)

// Server is the explicit, start/stop object spec.md §9's REDESIGN FLAG
// asks for in place of "global mutable state in the runtime shim":
// every route registration and every running listener lives on a
// *Server value, never in a package-level variable. Grounded on
// internal/web/router.Router's chi.Mux wrapping, narrowed to what an
// emitted program's `api` routes need (method + path + handler; no
// named routes, resource metadata, or route groups, none of which
// spec.md's grammar has a construct for).
type Server struct {
	mux *chi.Mux
	srv *http.Server
}

// NewServer builds a Server with CORS enabled for all origins and
// methods, mirroring the teacher's default middleware stance for an
// API intended to be called from a browser.
func NewServer() *Server {
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	return &Server{mux: mux}
}

var pathParamPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// Register adds one route for method/path, translating spec.md §4.7's
// `:name` path-parameter syntax into chi's `{name}` pattern.
func (s *Server) Register(method, path string, handler RouteHandler) {
	s.mux.MethodFunc(strings.ToUpper(method), pathParamPattern.ReplaceAllString(path, "{$1}"), handler)
}

// Start begins serving addr on a background goroutine and returns
// immediately; bind/serve errors surface only by the listener exiting
// (there is no supervisor for a routeless emitted program to hook
// into). Stop is the only way to observe shutdown completing.
func (s *Server) Start(addr string) {
	s.srv = &http.Server{Addr: addr, Handler: s.mux}
	go s.srv.ListenAndServe()
}

// Stop gracefully shuts the server down, honoring ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
