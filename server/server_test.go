// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
})

func TestRouterDuplicate(t *testing.T) {
	require := require.New(t)

	r := newRouter()
	require.NoError(r.AddRouter("/ext/kitty", "/kittyapi", okHandler))
	require.NoError(r.AddRouter("/ext/kitty", "/metrics", okHandler))
	err := r.AddRouter("/ext/kitty", "/kittyapi", okHandler)
	require.ErrorIs(err, ErrDuplicateRoute)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ext/kitty/kittyapi", nil))
	require.Equal(http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ext/kitty/missing", nil))
	require.Equal(http.StatusNotFound, rec.Code)
}

func TestFilterInvalidHosts(t *testing.T) {
	tests := map[string]struct {
		allowed  []string
		host     string
		expected int
	}{
		"ip": {
			allowed:  []string{"localhost"},
			host:     "127.0.0.1:9650",
			expected: http.StatusOK,
		},
		"allowed": {
			allowed:  []string{"localhost"},
			host:     "LOCALHOST:9650",
			expected: http.StatusOK,
		},
		"wildcard": {
			allowed:  []string{"*"},
			host:     "kitties.example",
			expected: http.StatusOK,
		},
		"rejected": {
			allowed:  []string{"localhost"},
			host:     "kitties.example",
			expected: http.StatusForbidden,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			filterInvalidHosts(okHandler, tt.allowed).ServeHTTP(rec, req)
			require.Equal(tt.expected, rec.Code)
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	require := require.New(t)

	r := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "registry",
		Name:      "kitties_created",
	})
	require.NoError(r.Register(c))
	c.Add(3)

	srv := httptest.NewServer(NewMetricsHandler(r))
	defer srv.Close()

	resp, err := http.Get(srv.URL) //nolint:noctx
	require.NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.Contains(string(body), "registry_kitties_created 3")
}
