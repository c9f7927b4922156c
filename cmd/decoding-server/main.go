package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/open-component-model/decoding-server/pkg/encoding"
	"github.com/open-component-model/decoding-server/pkg/sys"
)

var stdOut io.Writer = os.Stdout
var stdErr io.Writer = os.Stderr

func newLogger(cfg *Config) (*zap.Logger, error) {
	var logcfg zap.Config
	switch {
	case cfg.DevelopmentLogging:
		logcfg = zap.NewDevelopmentConfig()
	case cfg.RunServer:
		logcfg = zap.NewProductionConfig()
	default:
		// Decoded data goes to stdout, so the cli stays silent.
		return zap.NewNop(), nil
	}
	logcfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return logcfg.Build()
}

func run(cfg *Config, args []string) error {
	err := cfg.Validate(args)
	if err != nil {
		return fmt.Errorf("unable to validate config: %w", err)
	}

	formatters := encoding.CreateFormatters()

	if cfg.RunServer {
		if cfg.Daemon {
			cfg.Logger.Info("detaching process")
			if err := sys.Detach(); err != nil {
				return err
			}
		}
		return RunServer(cfg, formatters)
	}
	return RunDecoder(cfg, args, os.Stdin, stdOut, formatters)
}

// runMain runs the program with args and returns its exit status:
// 0 on success, 1 on errors and 2 on invalid flags.
func runMain(name string, args []string) int {
	cfg, args, err := parseConfig(name, args)
	if err != nil {
		fmt.Fprintf(stdErr, "%s\n", err)
		return 2
	}

	if cfg.StdOut != "" {
		var out *os.File
		out, err = os.OpenFile(cfg.StdOut, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err == nil {
			fmt.Fprintf(stdErr, "redirecting logging and errors to %s\n", cfg.StdOut)
			os.Stderr = out
			stdErr = out
		} else {
			err = fmt.Errorf("cannot create output file %s: %w", cfg.StdOut, err)
		}
	}

	if err == nil {
		cfg.Logger, err = newLogger(cfg)
		if err == nil {
			err = run(cfg, args)
			_ = cfg.Logger.Sync()
		} else {
			err = fmt.Errorf("unable to create logger: %w", err)
		}
	}

	if err != nil {
		fmt.Fprintf(stdErr, "%s\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(os.Args[0], os.Args[1:]))
}
