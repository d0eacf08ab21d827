package streamline

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shuhari/streamline/trie"
)

// MethodWild is the method the transport binds every registered path with.
const MethodWild = "*"

// HandlerFunc handles a dispatched request and returns the response body.
// It may block; the dispatcher waits for it while holding the dispatch lock.
type HandlerFunc func(ctx context.Context, req Request) (string, error)

type routeKey struct {
	method string
	path   string
}

// Router owns the path trie, the registration table and the dispatch state.
//
// Routes must be registered before the router starts dispatching;
// registration is not safe for concurrent use with Dispatch.
type Router struct {
	tree            *trie.Tree[HandlerFunc]
	routes          map[routeKey]HandlerFunc
	registeredPaths map[string][]string
	boundPaths      map[string]struct{}

	state   *State
	logger  *zap.Logger
	metrics *metrics

	serverMu sync.Mutex
	server   *fasthttp.Server
	shutdown bool
}

// Option configures a Router.
type Option func(*routerOptions)

type routerOptions struct {
	state      *State
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// WithState makes the router dispatch under st. Routers sharing a State
// are serialized behind the same lock and write the same cache.
func WithState(st *State) Option {
	return func(o *routerOptions) {
		o.state = st
	}
}

// WithLogger sets the logger for request and response records.
func WithLogger(l *zap.Logger) Option {
	return func(o *routerOptions) {
		o.logger = l
	}
}

// WithRegisterer registers the dispatch metrics on reg instead of a
// private registry. Routers sharing reg report through the same collectors;
// cache_entries sums the distinct caches of all of them.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *routerOptions) {
		o.registerer = reg
	}
}

// New returns a new router.
func New(opts ...Option) *Router {
	o := routerOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.state == nil {
		o.state = NewState()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.registerer == nil {
		o.registerer = prometheus.NewRegistry()
	}

	return &Router{
		tree:            trie.New[HandlerFunc](),
		routes:          make(map[routeKey]HandlerFunc),
		registeredPaths: make(map[string][]string),
		boundPaths:      make(map[string]struct{}),
		state:           o.state,
		logger:          o.logger,
		metrics:         newMetrics(o.registerer, o.state.cache),
	}
}

// State returns the shared dispatch state of the router.
func (router *Router) State() *State {
	return router.state
}

// Cache returns the response cache written by Dispatch.
func (router *Router) Cache() *Cache {
	return router.state.cache
}

// Route registers handler for path under every method in methods, or under
// GET when methods is empty. The handler is returned unchanged so routes
// can be declared next to the handler definition.
//
// The trie is keyed by path only: registering a path again, under any
// method, replaces the handler Dispatch resolves for that path.
func (router *Router) Route(path string, handler HandlerFunc, methods ...string) HandlerFunc {
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}

	for _, method := range methods {
		router.Handle(method, path, handler)
	}

	return handler
}

// Handle registers a new request handler with the given path and method.
//
// For GET, POST, PUT and DELETE requests the respective shortcut
// functions can be used.
func (router *Router) Handle(method, path string, handler HandlerFunc) HandlerFunc {
	validateRoute(method, handler)

	key := routeKey{method: method, path: path}
	if _, ok := router.routes[key]; !ok {
		router.registeredPaths[method] = append(router.registeredPaths[method], path)
	}

	router.routes[key] = handler
	router.boundPaths[path] = struct{}{}
	router.tree.Insert(path, handler)

	return handler
}

// GET is a shortcut for router.Handle(http.MethodGet, path, handler)
func (router *Router) GET(path string, handler HandlerFunc) HandlerFunc {
	return router.Handle(http.MethodGet, path, handler)
}

// POST is a shortcut for router.Handle(http.MethodPost, path, handler)
func (router *Router) POST(path string, handler HandlerFunc) HandlerFunc {
	return router.Handle(http.MethodPost, path, handler)
}

// PUT is a shortcut for router.Handle(http.MethodPut, path, handler)
func (router *Router) PUT(path string, handler HandlerFunc) HandlerFunc {
	return router.Handle(http.MethodPut, path, handler)
}

// DELETE is a shortcut for router.Handle(http.MethodDelete, path, handler)
func (router *Router) DELETE(path string, handler HandlerFunc) HandlerFunc {
	return router.Handle(http.MethodDelete, path, handler)
}

// Routes returns all registered paths grouped by method.
func (router *Router) Routes() map[string][]string {
	return router.registeredPaths
}

// Handler returns the handler registered for the exact (method, path) pair
// in the registration table.
func (router *Router) Handler(method, path string) (HandlerFunc, bool) {
	h, ok := router.routes[routeKey{method: method, path: path}]
	return h, ok
}

// Lookup returns the handler Dispatch would run for path.
// The request method plays no part in the lookup.
func (router *Router) Lookup(path string) (HandlerFunc, bool) {
	return router.tree.Search(path)
}
