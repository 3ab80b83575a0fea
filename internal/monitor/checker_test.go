package monitor

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/statusboard/internal/model"
)

func TestNewChecker_Kinds(t *testing.T) {
	c, err := NewChecker(model.KindHTTP, "https://example.com", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &HTTPChecker{}, c)

	c, err = NewChecker(model.KindTCP, "db:5432", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &TCPChecker{}, c)

	_, err = NewChecker(model.KindExternal, "", time.Second)
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = NewChecker(model.KindGroup, "", time.Second)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestHTTPChecker_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   model.State
	}{
		{"ok", http.StatusOK, model.StateOK},
		{"redirect", http.StatusNotModified, model.StateOK},
		{"client error", http.StatusNotFound, model.StateFailed},
		{"server error", http.StatusInternalServerError, model.StateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := &HTTPChecker{Target: srv.URL, Client: srv.Client()}
			assert.Equal(t, tt.want, c.Check(context.Background()))
		})
	}
}

func TestHTTPChecker_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := &HTTPChecker{Target: url, Client: &http.Client{Timeout: time.Second}}
	assert.Equal(t, model.StateError, c.Check(context.Background()))
}

func TestHTTPChecker_BadURL(t *testing.T) {
	c := &HTTPChecker{Target: "://nope", Client: http.DefaultClient}
	assert.Equal(t, model.StateError, c.Check(context.Background()))
}

func TestTCPChecker_OpenPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	c := &TCPChecker{Target: ln.Addr().String(), Timeout: time.Second}
	assert.Equal(t, model.StateOK, c.Check(context.Background()))
}

func TestTCPChecker_ClosedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	c := &TCPChecker{Target: addr, Timeout: time.Second}
	assert.Equal(t, model.StateFailed, c.Check(context.Background()))
}
