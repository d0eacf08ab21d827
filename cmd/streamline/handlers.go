package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shuhari/streamline"
)

// newRouter builds the router with the demo routes registered.
// A nil registerer keeps the metrics in a private registry.
func newRouter(logger *zap.Logger, reg prometheus.Registerer) *streamline.Router {
	opts := []streamline.Option{streamline.WithLogger(logger)}
	if reg != nil {
		opts = append(opts, streamline.WithRegisterer(reg))
	}

	r := streamline.New(opts...)
	r.GET("/", index)
	r.GET("/health", health)
	r.Route("/echo", echo, http.MethodPost, http.MethodPut)

	return r
}

func index(context.Context, streamline.Request) (string, error) {
	return "Welcome!\n", nil
}

func health(context.Context, streamline.Request) (string, error) {
	return "ok", nil
}

// echo returns the request body. An empty body is answered with the router's
// empty-result body.
func echo(_ context.Context, req streamline.Request) (string, error) {
	body, err := req.Body()
	if err != nil {
		return "", err
	}
	return string(body), nil
}
