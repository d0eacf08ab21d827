package streamline

import (
	"net"
	"net/http"
	"strconv"

	gotilsconv "github.com/savsgio/gotils/strconv"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const (
	// DefaultHost is the address Run listens on when host is empty.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the port Run listens on when port is zero.
	DefaultPort = 5000
)

var defaultContentType = []byte("text/plain; charset=utf-8")

// Run listens on host:port and serves every registered path, whatever the
// request method, until Shutdown is called.
func (router *Router) Run(host string, port int) error {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	router.logger.Info("listening", zap.String("addr", addr))

	return router.Serve(ln)
}

// Serve serves requests from ln until Shutdown is called.
// Paths are not normalized: "/a//b" reaches the route registered as "/a//b".
// Once Shutdown has been called, Serve closes ln and returns nil.
func (router *Router) Serve(ln net.Listener) error {
	srv := &fasthttp.Server{
		Handler:                router.handleFastHTTP,
		Name:                   "streamline",
		NoDefaultServerHeader:  true,
		DisablePathNormalizing: true,
	}

	router.serverMu.Lock()
	if router.shutdown {
		router.serverMu.Unlock()
		return ln.Close()
	}
	router.server = srv
	router.serverMu.Unlock()

	return srv.Serve(ln)
}

// Shutdown gracefully stops the server started by Run or Serve.
// A Serve call that starts after Shutdown returns immediately.
func (router *Router) Shutdown() error {
	router.serverMu.Lock()
	router.shutdown = true
	srv := router.server
	router.serverMu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown()
}

// bound reports whether path was registered under any method.
// The transport binds paths with MethodWild, so this is the only check made
// before a request reaches Dispatch.
func (router *Router) bound(path string) bool {
	_, ok := router.boundPaths[path]
	return ok
}

func (router *Router) handleFastHTTP(ctx *fasthttp.RequestCtx) {
	resp := Response{Status: http.StatusNotFound, Body: bodyNotFound}
	if router.bound(gotilsconv.B2S(ctx.Path())) {
		resp = router.Dispatch(ctx, fastRequest{ctx: ctx})
	}

	ctx.SetContentTypeBytes(defaultContentType)
	ctx.SetStatusCode(resp.Status)
	ctx.SetBodyString(resp.Body)
}

// ServeHTTP makes the router implement the http.Handler interface.
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := Response{Status: http.StatusNotFound, Body: bodyNotFound}
	if router.bound(r.URL.Path) {
		resp = router.Dispatch(r.Context(), newHTTPRequest(r))
	}

	w.Header().Set("Content-Type", string(defaultContentType))
	w.WriteHeader(resp.Status)
	_, _ = w.Write([]byte(resp.Body))
}
