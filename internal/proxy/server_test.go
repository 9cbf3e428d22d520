package proxy

import (
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/skripsi-ai-go/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	h := NewHandler(HandlerConfig{Provider: &fakeProvider{}})

	tests := []struct {
		name     string
		opts     Options
		wantAddr string
		wantErr  bool
	}{
		{name: "default port", opts: Options{}, wantAddr: ":3000"},
		{name: "host and port", opts: Options{Host: "127.0.0.1", Port: 8080}, wantAddr: "127.0.0.1:8080"},
		{name: "port too large", opts: Options{Port: 70000}, wantErr: true},
		{name: "negative port", opts: Options{Port: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := NewServer(tt.opts, h)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, srv.Addr())
		})
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	h := NewHandler(HandlerConfig{Provider: &fakeProvider{gen: &ai.Generation{Text: "served"}}})
	srv, err := NewServer(Options{Host: "127.0.0.1", Port: 1}, h)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Post("http://"+ln.Addr().String()+GeneratePath, "application/json", strings.NewReader(`{"prompt":"p"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
