package utils

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"crew-map/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSelfSignedCert(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "certs", "server.crt")
	key := filepath.Join(dir, "certs", "server.key")

	require.NoError(t, EnsureSelfSignedCert(cert, key, "crew-map.local"))
	raw, err := os.ReadFile(cert)
	require.NoError(t, err)
	blk, _ := pem.Decode(raw)
	require.NotNil(t, blk)
	c, err := x509.ParseCertificate(blk.Bytes)
	require.NoError(t, err)
	assert.Equal(t, "crew-map.local", c.Subject.CommonName)
	assert.Contains(t, c.DNSNames, "localhost")

	fi, err := os.Stat(key)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	// 已存在时不覆盖
	require.NoError(t, EnsureSelfSignedCert(cert, key, "other"))
	again, err := os.ReadFile(cert)
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestOpenRedis(t *testing.T) {
	assert.Nil(t, OpenRedis(&config.Config{}))

	rc := OpenRedis(&config.Config{RedisAddr: "127.0.0.1:6379", RedisDB: -3})
	require.NotNil(t, rc)
	defer rc.Close()
	assert.Equal(t, 0, rc.Options().DB)
}
