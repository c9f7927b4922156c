package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/open-component-model/decoding-server/pkg/encoding"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, args, err := parseConfig("decoding-server", []string{"input.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"input.txt"}, args)
	assert.Equal(t, encoding.Base64, cfg.Encoding)
	assert.Equal(t, encoding.MediaTypeOctetStream, cfg.OutFormat)
	assert.Equal(t, 1<<20, cfg.MaxBodySizeBytes)
	assert.Equal(t, 15*time.Second, cfg.GracefulTimeout)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.RunServer)
}

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server: true
port: "9443"
encoding: hex
gracefulTimeout: 1m
metrics: true
`), 0o600))

	cfg, _, err := parseConfig("decoding-server", []string{"--config", path, "--port", "8443"})
	require.NoError(t, err)
	assert.True(t, cfg.RunServer)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, encoding.Hex, cfg.Encoding)
	assert.Equal(t, time.Minute, cfg.GracefulTimeout)
	assert.Equal(t, "8443", cfg.Port, "explicit flags win over the file")
}

func TestParseConfigFileErrors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("colour: blue\n"), 0o600))
	_, _, err := parseConfig("decoding-server", []string{"--config", unknown})
	assert.ErrorContains(t, err, "error parsing configuration file")

	_, _, err = parseConfig("decoding-server", []string{"--config", filepath.Join(dir, "missing.yaml")})
	assert.ErrorContains(t, err, "error reading configuration file")

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, _, err = parseConfig("decoding-server", []string{"--config", empty})
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		input   []string
		wantErr string
	}{
		{name: "cli defaults"},
		{name: "cli file", input: []string{"input.txt"}},
		{name: "data and file", args: []string{"--data", "aGVsbG8="}, input: []string{"input.txt"}, wantErr: "either input by argument or by file possible"},
		{name: "two files", input: []string{"a", "b"}, wantErr: "only one input file possible"},
		{name: "unknown encoding", args: []string{"--encoding", "rot13"}, wantErr: `unknown encoding "rot13"`},
		{name: "unknown format", args: []string{"--format", "image/png"}, wantErr: `unknown output format "image/png"`},
		{name: "body size", args: []string{"--max-body-size", "0"}, wantErr: "max body size must be > 0"},
		{name: "daemon without server", args: []string{"--daemon"}, wantErr: "daemon mode requires server mode"},
		{name: "server without key", args: []string{"--server"}, wantErr: "path to private server key file must be set"},
		{name: "server without cert", args: []string{"--server", "--server-key", "key.pem"}, wantErr: "path to cert file must be set"},
		{name: "server pfx without cert", args: []string{"--server", "--server-key", "key.pfx", "--client-ca-certs", "ca.pem"}},
		{name: "server without client ca", args: []string{"--server", "--server-key", "key.pem", "--cert", "cert.pem"}, wantErr: "client CA must be set"},
		{name: "server without auth", args: []string{"--server", "--server-key", "key.pem", "--cert", "cert.pem", "--disable-auth"}},
		{name: "server http", args: []string{"--server", "--disable-https"}},
		{name: "server without port", args: []string{"--server", "--disable-https", "--port", ""}, wantErr: "port must be set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _, err := parseConfig("decoding-server", tt.args)
			require.NoError(t, err)
			cfg.Logger = zaptest.NewLogger(t)

			err = cfg.Validate(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRequiresLogger(t *testing.T) {
	cfg, _, err := parseConfig("decoding-server", nil)
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(nil), "logger must be set")
}
