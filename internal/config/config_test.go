package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	c, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "/api", c.APIBase)
	assert.Equal(t, "get_weekly_top_crew_by_gu", c.RankingFunction)
	assert.Equal(t, 100*time.Millisecond, c.ReadyInterval())
	assert.Equal(t, 100, c.ReadyMaxAttempts)
	assert.Equal(t, 10*time.Second, c.HTTPTimeout())
}

func TestFromViper_LegacyEnvNames(t *testing.T) {
	t.Setenv("REACT_APP_SUPABASE_URL", "https://legacy.supabase.co")
	t.Setenv("REACT_APP_SUPABASE_ANON_KEY", "legacy-key")
	t.Setenv("READY_MAX_ATTEMPTS", "7")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	c, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "https://legacy.supabase.co", c.SupabaseURL)
	assert.Equal(t, "legacy-key", c.SupabaseAnonKey)
	assert.Equal(t, 7, c.ReadyMaxAttempts)
	assert.True(t, c.RateLimitEnabled)
	assert.NoError(t, c.Validate())
}

func TestFromViper_PrimaryNameWins(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://primary.supabase.co")
	t.Setenv("REACT_APP_SUPABASE_URL", "https://legacy.supabase.co")

	c, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "https://primary.supabase.co", c.SupabaseURL)
}

func TestValidate_CollectsProblems(t *testing.T) {
	v := viper.New()
	v.Set("ready_interval_ms", 0)
	v.Set("http_timeout_s", -1)
	c, err := FromViper(v)
	require.NoError(t, err)

	err = c.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingBackend))
	assert.Contains(t, err.Error(), "ready_interval_ms")
	assert.Contains(t, err.Error(), "http_timeout_s")

	// 非法值不会生效为“无超时”
	assert.Equal(t, 10*time.Second, c.HTTPTimeout())
	assert.Equal(t, 100*time.Millisecond, c.ReadyInterval())
}

func TestHTTPTimeout_ClampsFromEnv(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_S", "0")
	c, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 0, c.HTTPTimeoutS)
	assert.Equal(t, 10*time.Second, c.HTTPTimeout())

	t.Setenv("HTTP_TIMEOUT_S", "3")
	c, err = FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.HTTPTimeout())
}

func TestSDKURL(t *testing.T) {
	c := &Config{KakaoSDKURL: "https://dapi.kakao.com/v2/maps/sdk.js"}
	assert.Equal(t, "https://dapi.kakao.com/v2/maps/sdk.js", c.SDKURL())

	c.KakaoAppKey = "abc123"
	assert.Equal(t, "https://dapi.kakao.com/v2/maps/sdk.js?appkey=abc123&autoload=false", c.SDKURL())

	c.KakaoSDKURL = "https://dapi.kakao.com/v2/maps/sdk.js?libraries=services"
	assert.Equal(t, "https://dapi.kakao.com/v2/maps/sdk.js?libraries=services&appkey=abc123&autoload=false", c.SDKURL())
}
