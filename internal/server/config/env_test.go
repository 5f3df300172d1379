package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubDotEnv(t *testing.T) {
	t.Helper()
	orig := loadDotEnv
	loadDotEnv = func() error { return os.ErrNotExist }
	t.Cleanup(func() { loadDotEnv = orig })
}

func TestParseEnv(t *testing.T) {
	stubDotEnv(t)

	t.Setenv(EnvGRPCAddr, ":6000")
	t.Setenv(EnvDatabaseDSN, "postgres://db/drafts")
	t.Setenv(EnvSecretKey, "k")
	t.Setenv(EnvTokenValidity, "90m")
	t.Setenv(EnvS3User, "minio")
	t.Setenv(EnvS3Password, "minio123")
	t.Setenv(EnvS3Bucket, "listings")
	t.Setenv(EnvS3Region, "eu-central-1")
	t.Setenv(EnvS3Endpoint, "http://minio:9000")
	t.Setenv(EnvSaveRateLimit, "2.5")
	t.Setenv(EnvSaveRateBurst, "4")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, &Config{
		EndpointAddrGRPC:            ":6000",
		DatabaseDSN:                 "postgres://db/drafts",
		SecretKey:                   "k",
		AccessTokenValidityDuration: 90 * time.Minute,
		S3RootUser:                  "minio",
		S3RootPassword:              "minio123",
		S3Bucket:                    "listings",
		S3Region:                    "eu-central-1",
		S3BaseEndpoint:              "http://minio:9000",
		SaveRatePerSecond:           2.5,
		SaveBurst:                   4,
	}, cfg)
}

func TestParseEnv_EmptyKeepsDefaults(t *testing.T) {
	stubDotEnv(t)
	t.Setenv(EnvGRPCAddr, "")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
}

func TestParseEnv_MalformedPanics(t *testing.T) {
	stubDotEnv(t)

	t.Setenv(EnvSaveRateLimit, "fast")
	require.Panics(t, func() { parseEnv(&Config{}) })

	t.Setenv(EnvSaveRateLimit, "")
	t.Setenv(EnvTokenValidity, "forever")
	require.Panics(t, func() { parseEnv(&Config{}) })
}

func TestParseEnv_ReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TAXIVISION_S3_BUCKET=from-dotenv\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv never overrides variables that are already set
	t.Setenv(EnvS3Bucket, "")
	require.NoError(t, os.Unsetenv(EnvS3Bucket))

	cfg := &Config{}
	parseEnv(cfg)
	assert.Equal(t, "from-dotenv", cfg.S3Bucket)
	require.NoError(t, os.Unsetenv(EnvS3Bucket))
}
