package api

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/soccer-analytics/pkg/config"
	"github.com/wonny/soccer-analytics/pkg/logger"
)

func TestServer_ServeAndShutdown(t *testing.T) {
	e := newEnv(t)
	srv := New(&config.Config{Port: "0", Env: "test"}, logger.Nop(), e.router)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/health")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "soccer-analytics-api")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_StartFailsOnBadAddress(t *testing.T) {
	srv := New(&config.Config{Port: "not-a-port"}, logger.Nop(), http.NotFoundHandler())
	err := srv.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on :not-a-port")
}
