package streamline

import (
	"net/http"
	"sync"

	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

// Request is the view of an inbound request given to handlers.
type Request interface {
	// Method returns the request method.
	Method() string
	// Path returns the request path. Over fasthttp it is the raw path
	// with repeated slashes kept.
	Path() string
	// Header returns the first value of the named header, or "".
	Header(key string) string
	// Body returns the request body.
	Body() ([]byte, error)
}

// NewRequest returns a Request that is not backed by a transport,
// for dispatching from code and tests.
func NewRequest(method, path string, body []byte) Request {
	return &staticRequest{method: method, path: path, body: body}
}

type staticRequest struct {
	method string
	path   string
	body   []byte
}

func (r *staticRequest) Method() string        { return r.method }
func (r *staticRequest) Path() string          { return r.path }
func (r *staticRequest) Header(string) string  { return "" }
func (r *staticRequest) Body() ([]byte, error) { return r.body, nil }

// httpRequest adapts a net/http request. The body is read once.
type httpRequest struct {
	r *http.Request

	once sync.Once
	body []byte
	err  error
}

func newHTTPRequest(r *http.Request) *httpRequest {
	return &httpRequest{r: r}
}

func (r *httpRequest) Method() string           { return r.r.Method }
func (r *httpRequest) Path() string             { return r.r.URL.Path }
func (r *httpRequest) Header(key string) string { return r.r.Header.Get(key) }

func (r *httpRequest) Body() ([]byte, error) {
	r.once.Do(func() {
		if r.r.Body == nil {
			return
		}

		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		if _, err := buf.ReadFrom(r.r.Body); err != nil {
			r.err = err
			return
		}
		r.body = append([]byte(nil), buf.B...)
	})

	return r.body, r.err
}

// fastRequest adapts a fasthttp request context.
// The body aliases fasthttp buffers and must not be retained after the
// handler returns.
type fastRequest struct {
	ctx *fasthttp.RequestCtx
}

func (r fastRequest) Method() string { return string(r.ctx.Method()) }
func (r fastRequest) Path() string   { return string(r.ctx.Path()) }

func (r fastRequest) Header(key string) string {
	return string(r.ctx.Request.Header.Peek(key))
}

func (r fastRequest) Body() ([]byte, error) {
	return r.ctx.PostBody(), nil
}
