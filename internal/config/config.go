// 包 config：启动时一次性构建的进程配置；读取 .env 与环境变量，之后以结构体显式传递给各组件
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingBackend：排行后端地址或匿名密钥缺失
var ErrMissingBackend = errors.New("supabase url/anon key missing")

// Config：进程级配置，仅在 main 中构建一次
type Config struct {
	Addr    string `mapstructure:"addr"`
	APIBase string `mapstructure:"api_base"`
	UIDist  string `mapstructure:"ui_dist"`

	BoundaryURL string `mapstructure:"boundary_url"`

	SupabaseURL     string `mapstructure:"supabase_url"`
	SupabaseAnonKey string `mapstructure:"supabase_anon_key"`
	RankingFunction string `mapstructure:"ranking_function"`

	KakaoAppKey string `mapstructure:"kakao_app_key"`
	KakaoSDKURL string `mapstructure:"kakao_sdk_url"`

	ReadyIntervalMs  int `mapstructure:"ready_interval_ms"`
	ReadyMaxAttempts int `mapstructure:"ready_max_attempts"`
	HTTPTimeoutS     int `mapstructure:"http_timeout_s"`

	RedisAddr string `mapstructure:"redis_addr"`
	RedisPass string `mapstructure:"redis_pass"`
	RedisDB   int    `mapstructure:"redis_db"`

	AdminToken       string `mapstructure:"admin_token"`
	RateLimitEnabled bool   `mapstructure:"rate_limit_enabled"`
	RateLimitQPS     int    `mapstructure:"rate_limit_qps"`

	TLSEnable   bool   `mapstructure:"tls_enable"`
	TLSCertPath string `mapstructure:"tls_cert_path"`
	TLSKeyPath  string `mapstructure:"tls_key_path"`
}

var defaults = map[string]any{
	"addr":               ":8080",
	"api_base":           "/api",
	"ui_dist":            filepath.Join("ui", "dist"),
	"boundary_url":       filepath.Join("data", "seoul.geojson"),
	"supabase_url":       "",
	"supabase_anon_key":  "",
	"ranking_function":   "get_weekly_top_crew_by_gu",
	"kakao_app_key":      "",
	"kakao_sdk_url":      "https://dapi.kakao.com/v2/maps/sdk.js",
	"ready_interval_ms":  100,
	"ready_max_attempts": 100,
	"http_timeout_s":     10,
	"redis_addr":         "",
	"redis_pass":         "",
	"redis_db":           0,
	"admin_token":        "",
	"rate_limit_enabled": false,
	"rate_limit_qps":     200,
	"tls_enable":         false,
	"tls_cert_path":      filepath.Join("data", "certs", "server.crt"),
	"tls_key_path":       filepath.Join("data", "certs", "server.key"),
}

// 旧前端沿用的变量名作为别名，先到先得
var aliases = map[string][]string{
	"supabase_url":      {"SUPABASE_URL", "REACT_APP_SUPABASE_URL"},
	"supabase_anon_key": {"SUPABASE_ANON_KEY", "REACT_APP_SUPABASE_ANON_KEY"},
}

// Load：读取 .env 与 data/env/.env 后绑定环境变量
// 约束：.env 缺失不报错；已存在的环境变量不会被 .env 覆盖
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	return FromViper(viper.New())
}

// FromViper：在给定 viper 实例上设置默认值与环境绑定，测试中可直接 v.Set 覆盖
func FromViper(v *viper.Viper) (*Config, error) {
	for k, d := range defaults {
		v.SetDefault(k, d)
		if names, ok := aliases[k]; ok {
			_ = v.BindEnv(append([]string{k}, names...)...)
			continue
		}
		_ = v.BindEnv(k, strings.ToUpper(k))
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate：收集全部问题一并返回；后端缺失以 ErrMissingBackend 包装，调用方决定是否致命
func (c *Config) Validate() error {
	var errs []error
	if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
		errs = append(errs, ErrMissingBackend)
	}
	if c.BoundaryURL == "" {
		errs = append(errs, errors.New("boundary_url is required"))
	}
	if c.ReadyIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("ready_interval_ms must be positive, got %d", c.ReadyIntervalMs))
	}
	if c.ReadyMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("ready_max_attempts must be positive, got %d", c.ReadyMaxAttempts))
	}
	if c.HTTPTimeoutS <= 0 {
		errs = append(errs, fmt.Errorf("http_timeout_s must be positive, got %d", c.HTTPTimeoutS))
	}
	if c.RateLimitEnabled && c.RateLimitQPS <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit_qps must be positive, got %d", c.RateLimitQPS))
	}
	return errors.Join(errs...)
}

// ReadyInterval / HTTPTimeout：非正值回落到默认值，Validate 已对其告警
func (c *Config) ReadyInterval() time.Duration {
	if c.ReadyIntervalMs <= 0 {
		return time.Duration(defaults["ready_interval_ms"].(int)) * time.Millisecond
	}
	return time.Duration(c.ReadyIntervalMs) * time.Millisecond
}

func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutS <= 0 {
		return time.Duration(defaults["http_timeout_s"].(int)) * time.Second
	}
	return time.Duration(c.HTTPTimeoutS) * time.Second
}

// SDKURL：拼接带 appkey 的地图 SDK 地址；autoload=false 由前端显式加载
func (c *Config) SDKURL() string {
	if c.KakaoAppKey == "" {
		return c.KakaoSDKURL
	}
	sep := "?"
	if strings.Contains(c.KakaoSDKURL, "?") {
		sep = "&"
	}
	return c.KakaoSDKURL + sep + "appkey=" + c.KakaoAppKey + "&autoload=false"
}
