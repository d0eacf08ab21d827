/*
Package streamline is a small trie based HTTP request router with a
serialized dispatcher.

A trivial example is:

	package main

	import (
		"context"
		"log"

		"github.com/shuhari/streamline"
	)

	func main() {
		r := streamline.New()

		r.GET("/", func(ctx context.Context, req streamline.Request) (string, error) {
			return "Welcome!", nil
		})

		r.Route("/items", func(ctx context.Context, req streamline.Request) (string, error) {
			return req.Method() + " items", nil
		}, "GET", "POST")

		log.Fatal(r.Run("127.0.0.1", 5000))
	}

Paths are split on '/' and matched segment by segment. There are no named
or catch-all parameters: "/a" and "a" are different paths, and so are
"/a" and "/a/".

The trie is keyed by path alone. The method only selects an entry in the
registration table (see Router.Routes and Router.Handler); registering the
same path under a second method replaces the handler every method of that
path resolves to. The transport binds each registered path for every method.

Dispatch runs the trie lookup, the handler and the response cache write
under a single lock owned by the router's State. Requests to different
paths wait for each other, and a slow handler holds up all of them.

Responses:

	Condition                   Status  Body
	path not registered         404     Not Found
	handler returns a body      200     the body
	handler returns ""          200     Internal Server Error
	handler errors or panics    500     Internal Server Error
*/
package streamline
