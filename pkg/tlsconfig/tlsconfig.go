// Package tlsconfig builds the server side TLS configuration of the
// decoding service from key and certificate files.
package tlsconfig

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/pkcs12"
)

// Options describes the files used for serving TLS.
type Options struct {
	// Host is the server name the certificate is issued for.
	Host string
	// KeyPath points to the server private key. Keys in .pfx files
	// may carry the certificate, which makes CertPath optional.
	KeyPath  string
	CertPath string
	// CACertsPath optionally holds intermediate and root certificates
	// used to verify the server certificate.
	CACertsPath string
	// ClientCAPath holds the CAs accepted for client certificates.
	ClientCAPath string
	// DisableAuth turns off client certificate verification.
	DisableAuth bool
}

// ServerConfig loads the files referenced by opts.
func ServerConfig(opts Options, logger *zap.Logger) (*tls.Config, error) {
	key, cert, err := LoadPrivateKey("server", opts.KeyPath)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		if cert, err = LoadCertificate("server", opts.CertPath); err != nil {
			return nil, err
		}
	}

	var roots *x509.CertPool
	if opts.CACertsPath != "" {
		roots, err = x509.SystemCertPool()
		if err != nil {
			return nil, err
		}
		caCerts, err := os.ReadFile(opts.CACertsPath)
		if err != nil {
			return nil, fmt.Errorf("unable to open ca certs file: %w", err)
		}
		if ok := roots.AppendCertsFromPEM(caCerts); !ok {
			return nil, errors.New("unable to append ca certs to cert pool")
		}
		chain, err := cert.Verify(x509.VerifyOptions{Roots: roots})
		if err != nil {
			return nil, fmt.Errorf("cannot verify server certificate: %w", err)
		}
		logger.Info("issuing server chain", zap.String("issuer chain", Chains(chain)))
	}

	clientAuth := tls.NoClientCert
	var clientCAs *x509.CertPool
	if !opts.DisableAuth {
		clientAuth = tls.RequireAndVerifyClientCert
		clientCAs = x509.NewCertPool()
		data, err := os.ReadFile(opts.ClientCAPath)
		if err != nil {
			return nil, fmt.Errorf("unable to open client ca certs file: %w", err)
		}
		if ok := clientCAs.AppendCertsFromPEM(data); !ok {
			return nil, errors.New("unable to append client ca certs to cert pool")
		}
	}

	return &tls.Config{
		ServerName: opts.Host,
		ClientAuth: clientAuth,
		ClientCAs:  clientCAs,
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{cert.Raw},
			PrivateKey:  key,
			Leaf:        cert,
		}},
		RootCAs:    roots,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// LoadPrivateKey reads an RSA, ECDSA or Ed25519 private key. PEM and
// DER encoded PKCS#1, PKCS#8 and SEC 1 keys are accepted, as are .pfx
// files whose password is taken from <NAME>_PFX_PASSWORD. The
// certificate is only returned for .pfx files.
func LoadPrivateKey(name, path string) (crypto.Signer, *x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read %s private key file: %w", name, err)
	}

	if strings.HasSuffix(path, ".pfx") {
		return decodePFX(name, path, data)
	}

	der := data
	block, rest := pem.Decode(data)
	if block != nil {
		if len(strings.TrimSpace(string(rest))) > 0 {
			return nil, nil, fmt.Errorf("%s private key file contains undecodable data besides pem block", name)
		}
		der = block.Bytes
	}
	key, err := parsePrivateKey(der)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse %s private key %q: %w", name, path, err)
	}
	return key, nil, nil
}

func decodePFX(name, path string, data []byte) (crypto.Signer, *x509.Certificate, error) {
	env := fmt.Sprintf("%s_PFX_PASSWORD", strings.ToUpper(name))
	pw, ok := os.LookupEnv(env)
	if !ok || pw == "" {
		return nil, nil, fmt.Errorf("non-empty password for %s pfx file required in environment (%s)", name, env)
	}
	key, cert, err := pkcs12.Decode(data, pw)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to decode %s pfx file %q: %w", name, path, err)
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported key type %T in %q", key, path)
	}
	return signer, cert, nil
}

func parsePrivateKey(der []byte) (crypto.Signer, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return k, nil
	case *ecdsa.PrivateKey:
		return k, nil
	case ed25519.PrivateKey:
		return k, nil
	default:
		return nil, fmt.Errorf("unsupported key type %T", key)
	}
}

// LoadCertificate reads the first PEM encoded certificate of path.
func LoadCertificate(name, path string) (*x509.Certificate, error) {
	if path == "" {
		return nil, fmt.Errorf("path to %s cert file must be set", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s cert file %q: %w", name, path, err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("unable to parse %s cert file %q: no pem block found", name, path)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse %s certificate from %q: %w", name, path, err)
	}
	return cert, nil
}

// Chains renders the issuers of the verified chains for logging.
func Chains(chains [][]*x509.Certificate) string {
	r := ""
	for _, ch := range chains {
		if r != "" {
			r += "; "
		}
		sep := ""
		for _, c := range ch {
			r += sep + c.Issuer.String()
			sep = "->"
		}
	}
	return r
}
