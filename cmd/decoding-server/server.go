package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/open-component-model/decoding-server/pkg/encoding"
	dhttp "github.com/open-component-model/decoding-server/pkg/http"
	"github.com/open-component-model/decoding-server/pkg/metrics"
	"github.com/open-component-model/decoding-server/pkg/tlsconfig"
)

func newServer(cfg *Config, formatters map[string]encoding.Formatter) (*http.Server, error) {
	var m *metrics.Decoder
	if cfg.Metrics {
		m = metrics.New()
	}

	r := dhttp.NewRouter(dhttp.RouterOptions{
		Logger:           cfg.Logger,
		Formatters:       formatters,
		MaxBodySizeBytes: cfg.MaxBodySizeBytes,
		Metrics:          m,
	})
	for _, name := range encoding.SupportedDecoders() {
		cfg.Logger.Info("register route", zap.String("route", "/decode/"+name))
	}

	var tlsConfig *tls.Config
	if !cfg.DisableHTTPS {
		var err error
		tlsConfig, err = tlsconfig.ServerConfig(tlsconfig.Options{
			Host:         cfg.Host,
			KeyPath:      cfg.ServerKeyPath,
			CertPath:     cfg.CertPath,
			CACertsPath:  cfg.CaCertsPath,
			ClientCAPath: cfg.ClientCAPath,
			DisableAuth:  cfg.DisableAuth,
		}, cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("unable to create tls config: %w", err)
		}
	}

	return &http.Server{
		Addr:         ":" + cfg.Port,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Minute * 15,
		IdleTimeout:  time.Second * 15,
		Handler:      r,
		TLSConfig:    tlsConfig,
	}, nil
}

// RunServer serves until SIGINT or SIGTERM and then shuts down
// gracefully. A server that cannot start is reported as error.
func RunServer(cfg *Config, formatters map[string]encoding.Formatter) error {
	srv, err := newServer(cfg, formatters)
	if err != nil {
		return err
	}

	startServer := srv.ListenAndServe
	if srv.TLSConfig != nil {
		startServer = func() error {
			return srv.ListenAndServeTLS("", "")
		}
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	done := make(chan error, 1)
	go func() {
		cfg.Logger.Info("starting server", zap.String("address", srv.Addr))
		done <- startServer()
	}()

	select {
	case err := <-done:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to start server: %w", err)
	case <-c:
	}

	// Wait for in-flight requests until the graceful timeout expires.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GracefulTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("unable to shutdown server: %w", err)
	}
	cfg.Logger.Info("shutting down server")
	return nil
}
