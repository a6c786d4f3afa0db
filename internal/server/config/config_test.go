package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, ":8080", cfg.EndpointAddr)
	require.NotEmpty(t, cfg.DatabaseDSN)
	require.NotEmpty(t, cfg.SecretKey)
	require.Less(t, cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration,
		"access tokens must be materially shorter-lived than refresh tokens")
	require.False(t, cfg.ListRequiresAuth)
}

func TestParseEnv_OverlaysOnlyPresentVariables(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	originalDSN := cfg.DatabaseDSN

	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("ACCESS_TOKEN_VALIDITY_DURATION", "15m")
	t.Setenv("LIST_REQUIRES_AUTH", "true")

	parseEnv(cfg)

	require.Equal(t, "from-env", cfg.SecretKey)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	require.True(t, cfg.ListRequiresAuth)
	require.Equal(t, originalDSN, cfg.DatabaseDSN, "unset variables must not clobber existing values")
}

func TestParseJson_LoadsNamedFile(t *testing.T) {
	content := `{
		"endpoint_addr": ":9090",
		"database_dsn": "postgres://u:p@h:5432/db",
		"secret_key": "json-secret",
		"access_token_validity_duration": "20m",
		"refresh_token_validity_duration": "48h",
		"bcrypt_cost": 12,
		"list_requires_auth": true,
		"s3_access_key_id": "ak",
		"s3_secret_access_key": "sk",
		"s3_bucket": "b",
		"s3_region": "auto",
		"s3_base_endpoint": "http://minio:9000/",
		"s3_public_base_url": "https://cdn.example.com"
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	oldArgs := os.Args
	os.Args = []string{"accountsvc", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, ":9090", cfg.EndpointAddr)
	require.Equal(t, "json-secret", cfg.SecretKey)
	require.Equal(t, 20*time.Minute, cfg.AccessTokenValidityDuration)
	require.Equal(t, 48*time.Hour, cfg.RefreshTokenValidityDuration)
	require.Equal(t, 12, cfg.BcryptCost)
	require.True(t, cfg.ListRequiresAuth)
	require.Equal(t, "https://cdn.example.com", cfg.S3PublicBaseURL)
}

func TestParseFlags_UnsetDurationFlagsPreserveSubMinuteValues(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"accountsvc"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenValidityDuration = 90 * time.Second
	cfg.RefreshTokenValidityDuration = 30 * time.Second

	parseFlags(cfg)

	require.Equal(t, 90*time.Second, cfg.AccessTokenValidityDuration,
		"an unset -t flag must not round the value to whole minutes")
	require.Equal(t, 30*time.Second, cfg.RefreshTokenValidityDuration,
		"an unset -r flag must not round the value to whole minutes")
}

func TestParseFlags_SetDurationFlagsOverride(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"accountsvc", "-t", "15", "-r", "120"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()

	parseFlags(cfg)

	require.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	require.Equal(t, 120*time.Minute, cfg.RefreshTokenValidityDuration)
}

func TestParseJson_NoFileNamed(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"accountsvc"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg

	parseJson(cfg)
	require.Equal(t, before, *cfg, "no -c flag means no JSON overlay")
}
