package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, "admin", c.S3RootUser)
	assert.Equal(t, "secretpassword", c.S3RootPassword)
	assert.Empty(t, c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "http://127.0.0.1:9000/", c.S3BaseEndpoint)
	assert.Equal(t, 5.0, c.SaveRatePerSecond)
	assert.Equal(t, 10, c.SaveBurst)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	stubDotEnv(t)
	for _, k := range []string{EnvGRPCAddr, EnvDatabaseDSN, EnvSecretKey, EnvS3Bucket, EnvSaveRateLimit} {
		t.Setenv(k, "")
	}

	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
	assert.Empty(t, c.S3Bucket)
}

func TestLoadConfig_FlagsWinOverEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	stubDotEnv(t)

	t.Setenv(EnvGRPCAddr, ":7000")
	t.Setenv(EnvSecretKey, "from-env")
	os.Args = []string{"testbin", "-a", ":8000"}

	c := LoadConfig()
	assert.Equal(t, ":8000", c.EndpointAddrGRPC)
	assert.Equal(t, "from-env", c.SecretKey)
}
