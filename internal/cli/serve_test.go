package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisiscore-systems/textsplitter"
)

func noRedirectClient(server *httptest.Server) *http.Client {
	client := server.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestMountDashboard_PathPrefix(t *testing.T) {
	inst := textsplitter.New()
	defer inst.Close()

	server := httptest.NewServer(mountDashboard("/splitter", inst.DashboardHandler("/splitter")))
	defer server.Close()
	client := noRedirectClient(server)

	resp, _ := get(t, client, server.URL+"/")
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/splitter/", resp.Header.Get("Location"))

	resp, body := get(t, client, server.URL+"/splitter/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="process-button"`)
	assert.Contains(t, body, `action="/splitter/split"`)

	resp, body = get(t, client, server.URL+"/splitter/static/app.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "new-log")

	resp, _ = get(t, client, server.URL+"/static/app.js")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMountDashboard_NoPrefix(t *testing.T) {
	inst := textsplitter.New()
	defer inst.Close()

	server := httptest.NewServer(mountDashboard("", inst.DashboardHandler("")))
	defer server.Close()

	resp, body := get(t, noRedirectClient(server), server.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="process-button"`)
}

func TestRunServer_ShutdownEndsLogStreams(t *testing.T) {
	inst := textsplitter.New()
	defer inst.Close()
	handler := mountDashboard("/splitter", inst.DashboardHandler("/splitter"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), ln, handler, inst.Close)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/splitter/logs-sse")
	require.NoError(t, err)
	defer resp.Body.Close()

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: keepalive\n", line)

	cancel()

	// Shutdown would wait for the open stream until shutdownTimeout
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout / 2):
		t.Fatal("server did not shut down")
	}

	_, err = io.ReadAll(r)
	assert.NoError(t, err)
}
