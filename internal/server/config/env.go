package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv is a seam for godotenv.Load.
var loadDotEnv = func() error { return godotenv.Load() }

// Environment variables read by parseEnv.
const (
	EnvGRPCAddr      = "TAXIVISION_GRPC_ADDR"
	EnvDatabaseDSN   = "TAXIVISION_DATABASE_DSN"
	EnvSecretKey     = "TAXIVISION_SECRET_KEY"
	EnvTokenValidity = "TAXIVISION_TOKEN_VALIDITY"
	EnvS3User        = "TAXIVISION_S3_USER"
	EnvS3Password    = "TAXIVISION_S3_PASSWORD"
	EnvS3Bucket      = "TAXIVISION_S3_BUCKET"
	EnvS3Region      = "TAXIVISION_S3_REGION"
	EnvS3Endpoint    = "TAXIVISION_S3_ENDPOINT"
	EnvSaveRateLimit = "TAXIVISION_SAVE_RATE"
	EnvSaveRateBurst = "TAXIVISION_SAVE_BURST"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first if present; variables already set in
// the process environment win over it. Malformed numbers and durations
// panic, like malformed flags.
func parseEnv(cfg *Config) {
	// a missing .env file is not an error
	_ = loadDotEnv()

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvGRPCAddr, &cfg.EndpointAddrGRPC)
	str(EnvDatabaseDSN, &cfg.DatabaseDSN)
	str(EnvSecretKey, &cfg.SecretKey)
	str(EnvS3User, &cfg.S3RootUser)
	str(EnvS3Password, &cfg.S3RootPassword)
	str(EnvS3Bucket, &cfg.S3Bucket)
	str(EnvS3Region, &cfg.S3Region)
	str(EnvS3Endpoint, &cfg.S3BaseEndpoint)

	if v := os.Getenv(EnvTokenValidity); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.AccessTokenValidityDuration = d
	}
	if v := os.Getenv(EnvSaveRateLimit); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		cfg.SaveRatePerSecond = f
	}
	if v := os.Getenv(EnvSaveRateBurst); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.SaveBurst = n
	}
}
