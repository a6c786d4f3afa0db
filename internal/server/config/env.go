package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with pointer fields so that only variables
// actually present in the environment overlay earlier values.
type envConfig struct {
	EndpointAddr                 *string        `env:"ENDPOINT_ADDR"`
	DatabaseDSN                  *string        `env:"DATABASE_DSN"`
	SecretKey                    *string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration  *time.Duration `env:"ACCESS_TOKEN_VALIDITY_DURATION"`
	RefreshTokenValidityDuration *time.Duration `env:"REFRESH_TOKEN_VALIDITY_DURATION"`
	BcryptCost                   *int           `env:"BCRYPT_COST"`
	ListRequiresAuth             *bool          `env:"LIST_REQUIRES_AUTH"`
	S3AccessKeyID                *string        `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey            *string        `env:"S3_SECRET_ACCESS_KEY"`
	S3Bucket                     *string        `env:"S3_BUCKET"`
	S3Region                     *string        `env:"S3_REGION"`
	S3BaseEndpoint               *string        `env:"S3_BASE_ENDPOINT"`
	S3PublicBaseURL              *string        `env:"S3_PUBLIC_BASE_URL"`
}

// parseEnv overlays configuration values from the environment onto the
// provided Config. Unset variables leave the existing values untouched.
func parseEnv(config *Config) {
	c := &envConfig{}
	if err := env.Parse(c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = *c.AccessTokenValidityDuration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = *c.RefreshTokenValidityDuration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.ListRequiresAuth != nil {
		config.ListRequiresAuth = *c.ListRequiresAuth
	}
	if c.S3AccessKeyID != nil {
		config.S3AccessKeyID = *c.S3AccessKeyID
	}
	if c.S3SecretAccessKey != nil {
		config.S3SecretAccessKey = *c.S3SecretAccessKey
	}
	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	if c.S3Region != nil {
		config.S3Region = *c.S3Region
	}
	if c.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *c.S3BaseEndpoint
	}
	if c.S3PublicBaseURL != nil {
		config.S3PublicBaseURL = *c.S3PublicBaseURL
	}
}
