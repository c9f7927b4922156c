package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/open-component-model/decoding-server/pkg/encoding"
)

type Config struct {
	// cli args
	ConfigFile string `yaml:"-"`
	StdOut     string `yaml:"stdout"`
	RunServer  bool   `yaml:"server"`
	Daemon     bool   `yaml:"daemon"`

	// Decode command args
	Encoding  string `yaml:"encoding"`
	OutFormat string `yaml:"format"`
	Data      string `yaml:"data"`
	OutFile   string `yaml:"out"`

	// Server args
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
	ServerKeyPath   string        `yaml:"serverKey"`
	CertPath        string        `yaml:"cert"`
	CaCertsPath     string        `yaml:"caCerts"`
	ClientCAPath    string        `yaml:"clientCaCerts"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`

	DevelopmentLogging bool `yaml:"devLogging"`
	MaxBodySizeBytes   int  `yaml:"maxBodySize"`
	DisableAuth        bool `yaml:"disableAuth"`
	DisableHTTPS       bool `yaml:"disableHttps"`
	Metrics            bool `yaml:"metrics"`

	// calculated by program
	Logger *zap.Logger `yaml:"-"`
}

func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", "", "[OPTIONAL] yaml file with default settings, overridden by explicit flags")
	fs.StringVar(&c.StdOut, "stdout", "", "[OPTIONAL] log file for stderr, stdout and logging")

	fs.BoolVar(&c.RunServer, "server", false, "[OPTIONAL] run decoding server")
	fs.BoolVar(&c.Daemon, "daemon", false, "[OPTIONAL] run decoding server in detached mode")
	fs.StringVar(&c.Encoding, "encoding", encoding.Base64, fmt.Sprintf("[OPTIONAL] encoding of the input (%s)", strings.Join(encoding.SupportedDecoders(), ", ")))
	fs.StringVar(&c.OutFormat, "format", encoding.MediaTypeOctetStream, "[OPTIONAL] output format")
	fs.StringVar(&c.Data, "data", "", "[OPTIONAL] input data as argument")
	fs.StringVar(&c.OutFile, "out", "", "[OPTIONAL] output file")

	fs.StringVar(&c.ServerKeyPath, "server-key", "", "path to a file which contains the server private key")
	fs.StringVar(&c.CertPath, "cert", "", "path to a file which contains the server certificate in pem format")
	fs.StringVar(&c.CaCertsPath, "ca-certs", "", "[OPTIONAL] path to a file which contains the concatenation of any intermediate and ca certificate in pem format")
	fs.StringVar(&c.ClientCAPath, "client-ca-certs", "", "[OPTIONAL] CA used for client certificates")
	fs.DurationVar(&c.GracefulTimeout, "graceful-timeout", time.Second*15, "[OPTIONAL] the duration for which the server gracefully wait for existing connections to finish - e.g. 15s or 1m")
	fs.StringVar(&c.Host, "host", "localhost", "[OPTIONAL] hostname that is resolvable via dns")
	fs.StringVar(&c.Port, "port", "8080", "[OPTIONAL] port where the server should listen")
	fs.BoolVar(&c.DevelopmentLogging, "dev-logging", false, "[OPTIONAL] enable development logging")
	fs.IntVar(&c.MaxBodySizeBytes, "max-body-size", 1<<20, "[OPTIONAL] maximum allowed size of the request body in bytes")
	fs.BoolVar(&c.DisableAuth, "disable-auth", false, "[OPTIONAL] disable authentication. should only be used for development")
	fs.BoolVar(&c.DisableHTTPS, "disable-https", false, "[OPTIONAL] disable https. runs the server with http")
	fs.BoolVar(&c.Metrics, "metrics", false, "[OPTIONAL] serve prometheus metrics on /metrics")
}

// LoadFile reads yaml settings from path into c. Keys missing in the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading configuration file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error parsing configuration file %q: %w", path, err)
	}
	return nil
}

// parseConfig parses the command line. Settings from a --config file
// are applied on top of the flag defaults, and flags given explicitly
// win over the file.
func parseConfig(name string, args []string) (*Config, []string, error) {
	cfg := &Config{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stdErr)
	cfg.AddFlags(fs)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if cfg.ConfigFile != "" {
		if err := cfg.LoadFile(cfg.ConfigFile); err != nil {
			return nil, nil, err
		}
		if err := fs.Parse(args); err != nil {
			return nil, nil, err
		}
	}
	return cfg, fs.Args(), nil
}

func (c *Config) Validate(args []string) error {
	if c.MaxBodySizeBytes <= 0 {
		return errors.New("max body size must be > 0")
	}
	if c.Logger == nil {
		return errors.New("logger must be set")
	}
	if c.Daemon && !c.RunServer {
		return errors.New("daemon mode requires server mode")
	}

	if c.RunServer {
		if !c.DisableHTTPS {
			if c.ServerKeyPath == "" {
				return errors.New("path to private server key file must be set")
			}
			if c.CertPath == "" && !strings.HasSuffix(c.ServerKeyPath, ".pfx") {
				return errors.New("path to cert file must be set")
			}
			if c.Host == "" {
				return errors.New("host must be set if https is enabled")
			}
		}
		if c.Port == "" {
			return errors.New("port must be set")
		}
		if c.DisableAuth {
			c.Logger.Warn("running server with disabled authentication. should only be used for development")
		} else if !c.DisableHTTPS && c.ClientCAPath == "" {
			return errors.New("client CA must be set")
		}
		return nil
	}

	if c.Data != "" && len(args) > 0 {
		return errors.New("either input by argument or by file possible")
	}
	if len(args) > 1 {
		return errors.New("only one input file possible")
	}
	if _, err := encoding.GetDecoder(c.Encoding); err != nil {
		return err
	}
	if _, ok := encoding.CreateFormatters()[c.OutFormat]; !ok {
		return fmt.Errorf("unknown output format %q (supported %s)", c.OutFormat, strings.Join(encoding.MediaTypes(encoding.CreateFormatters()), ","))
	}
	return nil
}
