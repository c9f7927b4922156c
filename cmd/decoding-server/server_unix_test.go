//go:build linux || darwin || freebsd || netbsd || openbsd

package main

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/open-component-model/decoding-server/pkg/encoding"
)

func TestRunServerGracefulShutdown(t *testing.T) {
	port := freePort(t)
	cfg, _ := testConfig(t, "--server", "--disable-https", "--port", port, "--graceful-timeout", "5s")

	done := make(chan error, 1)
	go func() {
		done <- RunServer(cfg, encoding.CreateFormatters())
	}()

	url := "http://127.0.0.1:" + port
	client := &http.Client{Timeout: time.Second}
	require.Eventually(t, func() bool {
		resp, err := client.Get(url + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	status, body := postDecode(t, client, url, "aGVsbG8=")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hello", body)
	client.CloseIdleConnections()

	require.NoError(t, unix.Kill(os.Getpid(), unix.SIGTERM))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
