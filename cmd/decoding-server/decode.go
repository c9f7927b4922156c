package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/open-component-model/decoding-server/pkg/encoding"
)

// RunDecoder reads the input (--data, a file argument or stdin), decodes
// it and writes the result in the configured format to stdout or --out.
func RunDecoder(cfg *Config, args []string, stdin io.Reader, stdout io.Writer, formatters map[string]encoding.Formatter) error {
	formatter := formatters[cfg.OutFormat]
	if formatter == nil {
		return fmt.Errorf("unknown output format %q", cfg.OutFormat)
	}
	decoder, err := encoding.GetDecoder(cfg.Encoding)
	if err != nil {
		return err
	}

	data, err := readInput(cfg, args, stdin)
	if err != nil {
		return err
	}
	size := len(data)

	data, err = decoder.Decode(data)
	if err != nil {
		return fmt.Errorf("cannot decode input: %w", err)
	}
	cfg.Logger.Info("decode",
		zap.String("encoding", cfg.Encoding),
		zap.Int("input-size", size),
		zap.Int("output-size", len(data)),
	)

	annotations := map[string]string{
		encoding.EncodingHeader: cfg.Encoding,
	}
	out, err := formatter.Format(data, annotations)
	if err != nil {
		return err
	}
	return writeOutput(cfg.OutFile, stdout, out)
}

func readInput(cfg *Config, args []string, stdin io.Reader) ([]byte, error) {
	if cfg.Data != "" {
		return []byte(cfg.Data), nil
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("only one input file possible")
	}
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("cannot read input file %q: %w", args[0], err)
		}
		return data, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("cannot read data from stdin: %w", err)
	}
	return data, nil
}

func writeOutput(path string, stdout io.Writer, out []byte) (err error) {
	if path == "" {
		_, err = stdout.Write(out)
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("cannot create output file %q: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	if _, err = f.Write(out); err != nil {
		return fmt.Errorf("cannot write output file %q: %w", path, err)
	}
	return nil
}
