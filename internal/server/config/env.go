package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is loaded, when present, before the environment is read.
// Variables already set in the process environment win over the file.
var dotEnvFile = ".env"

// parseEnv overlays TROPHY_* environment variables. Malformed numbers or
// durations panic, matching the other sources.
//
//	TROPHY_GRPC_ADDR, TROPHY_DB_DRIVER, TROPHY_DB_DSN, TROPHY_SECRET_KEY,
//	TROPHY_TOKEN_TTL, TROPHY_STORAGE_TIMEOUT, TROPHY_PASSWORD_COST,
//	TROPHY_LOGIN_RATE, TROPHY_LOGIN_BURST, TROPHY_REDIS_ADDR,
//	TROPHY_REDIS_PASSWORD, TROPHY_S3_USER, TROPHY_S3_PASSWORD,
//	TROPHY_S3_BUCKET, TROPHY_S3_REGION, TROPHY_S3_ENDPOINT, TROPHY_LOG_LEVEL
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString("TROPHY_GRPC_ADDR", &config.EndpointAddrGRPC)
	envString("TROPHY_DB_DRIVER", &config.DatabaseDriver)
	envString("TROPHY_DB_DSN", &config.DatabaseDSN)
	envString("TROPHY_SECRET_KEY", &config.SecretKey)
	envDuration("TROPHY_TOKEN_TTL", &config.AccessTokenValidityDuration)
	envDuration("TROPHY_STORAGE_TIMEOUT", &config.StorageTimeout)
	envInt("TROPHY_PASSWORD_COST", &config.PasswordCost)
	envFloat("TROPHY_LOGIN_RATE", &config.LoginRateLimit)
	envInt("TROPHY_LOGIN_BURST", &config.LoginBurst)
	envString("TROPHY_REDIS_ADDR", &config.RedisAddr)
	envString("TROPHY_REDIS_PASSWORD", &config.RedisPassword)
	envString("TROPHY_S3_USER", &config.S3RootUser)
	envString("TROPHY_S3_PASSWORD", &config.S3RootPassword)
	envString("TROPHY_S3_BUCKET", &config.S3Bucket)
	envString("TROPHY_S3_REGION", &config.S3Region)
	envString("TROPHY_S3_ENDPOINT", &config.S3BaseEndpoint)
	envString("TROPHY_LOG_LEVEL", &config.LogLevel)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func envFloat(key string, dst *float64) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		*dst = f
	}
}

func envDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}
