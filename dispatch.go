package streamline

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	bodyNotFound            = "Not Found"
	bodyInternalServerError = "Internal Server Error"
)

// Response is the outcome of a dispatch.
type Response struct {
	Status int
	Body   string
}

// Dispatch resolves req.Path() in the trie and runs the handler found there.
//
// Lookup, handler invocation and the cache write run under the state lock,
// so at most one dispatch per State is in that section at any time, and the
// lock stays held while the handler blocks. The request method is not
// consulted.
//
// An unknown path yields 404. A handler error or panic yields 500. A handler
// that succeeds with an empty body yields 200 with the body
// "Internal Server Error".
func (router *Router) Dispatch(ctx context.Context, req Request) Response {
	start := time.Now()
	resp := router.dispatch(ctx, req)
	router.metrics.observe(resp.Status, time.Since(start).Seconds())
	return resp
}

func (router *Router) dispatch(ctx context.Context, req Request) Response {
	method, path := req.Method(), req.Path()
	router.logger.Info("request received",
		zap.String("method", method),
		zap.String("path", path),
	)

	body, found, err := router.invoke(ctx, req, path)
	if err != nil {
		router.logger.Error("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("error", err.Error()),
		)
		return Response{Status: http.StatusInternalServerError, Body: bodyInternalServerError}
	}

	if !found {
		return Response{Status: http.StatusNotFound, Body: bodyNotFound}
	}

	if body == "" {
		body = bodyInternalServerError
	}

	return Response{Status: http.StatusOK, Body: body}
}

// invoke runs the critical section. The deferred unlock and recover cover
// errors, panics and handler cancellation alike.
func (router *Router) invoke(ctx context.Context, req Request, path string) (body string, found bool, err error) {
	waitStart := time.Now()
	router.state.mu.Lock()
	defer router.state.mu.Unlock()
	router.metrics.lockWait.Observe(time.Since(waitStart).Seconds())

	handler, ok := router.tree.Search(path)
	if !ok {
		return "", false, nil
	}

	defer func() {
		if rcv := recover(); rcv != nil {
			body, err = "", recoveredError(rcv)
		}
	}()

	body, err = handler(ctx, req)
	if err != nil {
		return "", true, err
	}

	router.state.cache.set(path, body)
	router.logger.Info("response",
		zap.String("path", path),
		zap.String("response", body),
	)

	return body, true, nil
}
