package registration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterAndUnregister(t *testing.T) {
	registered := make(chan registerRequest, 1)
	unregistered := make(chan struct{}, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/modules/register":
			require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			var body registerRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			registered <- body
		case "/api/v1/modules/bookmark/unregister":
			unregistered <- struct{}{}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(srv.URL, "10.0.0.5:9700", "secret", zap.NewNop())

	done := make(chan struct{})
	go func() {
		client.Run(ctx)
		close(done)
	}()

	select {
	case body := <-registered:
		require.Equal(t, "bookmark", body.ModuleID)
		require.Equal(t, "10.0.0.5:9700", body.Endpoint)
	case <-time.After(5 * time.Second):
		t.Fatal("Registration never reached the gateway")
	}

	cancel()
	select {
	case <-unregistered:
	case <-time.After(5 * time.Second):
		t.Fatal("Unregister never reached the gateway")
	}
	<-done
}

func TestRegisterRetriesUntilGatewayIsUp(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/modules/register" {
			attempts++
			if attempts == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := NewClient(srv.URL, "addr", "", zap.NewNop())

	ok := client.register(ctx)
	require.False(t, ok, "first attempt must fail")
	ok = client.register(ctx)
	require.True(t, ok, "second attempt must succeed")
}
