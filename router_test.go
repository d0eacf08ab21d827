package streamline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var httpMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	"CUSTOM",
}

func catchPanic(testFunc func()) (recv interface{}) {
	defer func() {
		recv = recover()
	}()

	testFunc()
	return
}

func text(body string) HandlerFunc {
	return func(context.Context, Request) (string, error) {
		return body, nil
	}
}

func call(t *testing.T, h HandlerFunc) string {
	t.Helper()

	body, err := h(context.Background(), NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return body
}

func TestRouter(t *testing.T) {
	router := New()

	routed := false
	router.GET("/user/gopher", func(ctx context.Context, req Request) (string, error) {
		routed = true
		if req.Method() != http.MethodGet {
			t.Fatalf("wrong method: want GET, got %s", req.Method())
		}
		return "hello gopher", nil
	})

	r := httptest.NewRequest(http.MethodGet, "/user/gopher", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, r)

	if !routed {
		t.Fatal("routing failed")
	}
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello gopher", w.Body.String())
}

func TestRouterAPI(t *testing.T) {
	var get, post, put, delete, route bool

	router := New()
	router.GET("/GET", func(context.Context, Request) (string, error) {
		get = true
		return "ok", nil
	})
	router.POST("/POST", func(context.Context, Request) (string, error) {
		post = true
		return "ok", nil
	})
	router.PUT("/PUT", func(context.Context, Request) (string, error) {
		put = true
		return "ok", nil
	})
	router.DELETE("/DELETE", func(context.Context, Request) (string, error) {
		delete = true
		return "ok", nil
	})
	router.Route("/Route", func(context.Context, Request) (string, error) {
		route = true
		return "ok", nil
	})

	request := func(method, path string) {
		r := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
	}

	request(http.MethodGet, "/GET")
	if !get {
		t.Error("routing GET failed")
	}

	request(http.MethodPost, "/POST")
	if !post {
		t.Error("routing POST failed")
	}

	request(http.MethodPut, "/PUT")
	if !put {
		t.Error("routing PUT failed")
	}

	request(http.MethodDelete, "/DELETE")
	if !delete {
		t.Error("routing DELETE failed")
	}

	request(http.MethodGet, "/Route")
	if !route {
		t.Error("routing Route failed")
	}
}

func TestRouterRouteReturnsHandler(t *testing.T) {
	router := New()

	got := router.Route("/items", text("items"), http.MethodGet, http.MethodPost)
	assert.Equal(t, "items", call(t, got))

	got = router.GET("/one", text("one"))
	assert.Equal(t, "one", call(t, got))
}

func TestRouterRouteDefaultsToGet(t *testing.T) {
	router := New()
	router.Route("/default", text("x"))

	assert.Equal(t, map[string][]string{http.MethodGet: {"/default"}}, router.Routes())

	_, ok := router.Handler(http.MethodGet, "/default")
	assert.True(t, ok)
	_, ok = router.Handler(http.MethodPost, "/default")
	assert.False(t, ok)
}

func TestRouterInvalidInput(t *testing.T) {
	router := New()

	recv := catchPanic(func() {
		router.Handle("", "/", text("x"))
	})
	if recv == nil {
		t.Fatal("registering empty method did not panic")
	}

	recv = catchPanic(func() {
		router.GET("/", nil)
	})
	if recv == nil {
		t.Fatal("registering nil handler did not panic")
	}

	// Path syntax is never validated.
	recv = catchPanic(func() {
		router.GET("no/leading/slash", text("x"))
		router.GET("", text("x"))
		router.GET("//double", text("x"))
	})
	assert.Nil(t, recv)
}

func TestRouterLastRegistrationWins(t *testing.T) {
	router := New()

	router.GET("/thing", text("from GET"))
	router.POST("/thing", text("from POST"))

	h, ok := router.Lookup("/thing")
	require.True(t, ok)
	assert.Equal(t, "from POST", call(t, h))

	// The registration table still holds both entries.
	h, ok = router.Handler(http.MethodGet, "/thing")
	require.True(t, ok)
	assert.Equal(t, "from GET", call(t, h))

	h, ok = router.Handler(http.MethodPost, "/thing")
	require.True(t, ok)
	assert.Equal(t, "from POST", call(t, h))

	// Every method now reaches the POST handler.
	for _, method := range httpMethods {
		resp := router.Dispatch(context.Background(), NewRequest(method, "/thing", nil))
		assert.Equal(t, http.StatusOK, resp.Status, method)
		assert.Equal(t, "from POST", resp.Body, method)
	}
}

func TestRouterLookup(t *testing.T) {
	router := New()
	router.GET("a/b", text("ab"))

	_, ok := router.Lookup("a/b")
	assert.True(t, ok)

	_, ok = router.Lookup("a/c")
	assert.False(t, ok)

	_, ok = router.Lookup("a")
	assert.False(t, ok, "intermediate node has no handler")
}

func TestRouterRoutes(t *testing.T) {
	router := New()
	router.GET("/bar", text("x"))
	router.PUT("/bar", text("x"))
	router.GET("/foo", text("x"))
	router.GET("/foo", text("y"))
	router.Route("/baz", text("x"), http.MethodPost, http.MethodDelete)

	expected := map[string][]string{
		http.MethodGet:    {"/bar", "/foo"},
		http.MethodPut:    {"/bar"},
		http.MethodPost:   {"/baz"},
		http.MethodDelete: {"/baz"},
	}

	if result := router.Routes(); !reflect.DeepEqual(result, expected) {
		t.Errorf("Router.Routes() == %+v, want %+v", result, expected)
	}
}

func TestRouterSharedState(t *testing.T) {
	st := NewState()
	a := New(WithState(st))
	b := New(WithState(st))

	a.GET("/a", text("from a"))
	b.GET("/b", text("from b"))

	a.Dispatch(context.Background(), NewRequest(http.MethodGet, "/a", nil))
	b.Dispatch(context.Background(), NewRequest(http.MethodGet, "/b", nil))

	assert.Same(t, st, a.State())
	assert.Same(t, st.Cache(), b.Cache())
	assert.Equal(t, map[string]string{"/a": "from a", "/b": "from b"}, st.Cache().Snapshot())
}

func BenchmarkRouterDispatch(b *testing.B) {
	router := New()
	router.GET("/hello", text("world"))

	req := NewRequest(http.MethodGet, "/hello", nil)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		router.Dispatch(ctx, req)
	}
}

func BenchmarkRouterNotFound(b *testing.B) {
	router := New()
	router.GET("/hello", text("world"))

	req := NewRequest(http.MethodGet, "/missing", nil)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		router.Dispatch(ctx, req)
	}
}
