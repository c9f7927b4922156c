package tlsconfig

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testFiles struct {
	dir  string
	key  string
	cert string
}

func writePEM(t *testing.T, path, typ string, der []byte) {
	t.Helper()
	data := pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: der})
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func newSelfSigned(t *testing.T) testFiles {
	t.Helper()
	dir := t.TempDir()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		DNSNames:              []string{"localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	files := testFiles{
		dir:  dir,
		key:  filepath.Join(dir, "server.key"),
		cert: filepath.Join(dir, "server.crt"),
	}
	writePEM(t, files.key, "PRIVATE KEY", pkcs8)
	writePEM(t, files.cert, "CERTIFICATE", der)
	return files
}

func TestServerConfig(t *testing.T) {
	files := newSelfSigned(t)

	cfg, err := ServerConfig(Options{
		Host:         "localhost",
		KeyPath:      files.key,
		CertPath:     files.cert,
		CACertsPath:  files.cert,
		ClientCAPath: files.cert,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.ServerName)
	assert.Equal(t, tls.RequireAndVerifyClientCert, cfg.ClientAuth)
	assert.NotNil(t, cfg.ClientCAs)
	assert.NotNil(t, cfg.RootCAs)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	require.Len(t, cfg.Certificates, 1)
	assert.Equal(t, "localhost", cfg.Certificates[0].Leaf.Subject.CommonName)
}

func TestServerConfigDisableAuth(t *testing.T) {
	files := newSelfSigned(t)

	cfg, err := ServerConfig(Options{
		Host:        "localhost",
		KeyPath:     files.key,
		CertPath:    files.cert,
		DisableAuth: true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, tls.NoClientCert, cfg.ClientAuth)
	assert.Nil(t, cfg.ClientCAs)
	assert.Nil(t, cfg.RootCAs)
}

func TestServerConfigMissingCert(t *testing.T) {
	files := newSelfSigned(t)

	_, err := ServerConfig(Options{
		KeyPath:     files.key,
		DisableAuth: true,
	}, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "path to server cert file must be set")
}

func TestLoadPrivateKeyFormats(t *testing.T) {
	dir := t.TempDir()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	sec1, err := x509.MarshalECPrivateKey(ecKey)
	require.NoError(t, err)

	pkcs1PEM := filepath.Join(dir, "pkcs1.pem")
	writePEM(t, pkcs1PEM, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(rsaKey))

	pkcs1DER := filepath.Join(dir, "pkcs1.der")
	require.NoError(t, os.WriteFile(pkcs1DER, x509.MarshalPKCS1PrivateKey(rsaKey), 0o600))

	sec1PEM := filepath.Join(dir, "ec.pem")
	writePEM(t, sec1PEM, "EC PRIVATE KEY", sec1)

	for _, path := range []string{pkcs1PEM, pkcs1DER, sec1PEM} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			key, cert, err := LoadPrivateKey("server", path)
			require.NoError(t, err)
			assert.NotNil(t, key)
			assert.Nil(t, cert)
		})
	}
}

func TestLoadPrivateKeyErrors(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0o600))
	_, _, err := LoadPrivateKey("server", garbage)
	assert.ErrorContains(t, err, "unable to parse server private key")

	pfx := filepath.Join(dir, "server.pfx")
	require.NoError(t, os.WriteFile(pfx, []byte("not a pfx"), 0o600))
	t.Setenv("SERVER_PFX_PASSWORD", "")
	_, _, err = LoadPrivateKey("server", pfx)
	assert.ErrorContains(t, err, "SERVER_PFX_PASSWORD")

	t.Setenv("SERVER_PFX_PASSWORD", "secret")
	_, _, err = LoadPrivateKey("server", pfx)
	assert.ErrorContains(t, err, "unable to decode server pfx file")

	_, _, err = LoadPrivateKey("server", filepath.Join(dir, "missing.pem"))
	assert.ErrorContains(t, err, "unable to read server private key file")
}
