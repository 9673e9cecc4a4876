// Package config は起動時に一度だけ読む設定。
// 優先順位: 環境変数 > 設定ファイル(--config) > デフォルト
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

type Config struct {
	HTTPAddr          string
	MetricsAddr       string
	Mongo             MongoConfig
	RequestTimeout    time.Duration
	CORSAllowedOrigin string
	Tracing           TracingConfig
}

const (
	defaultConnectTimeout = 10 * time.Second
	defaultRequestTimeout = 0
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":3001")
	v.SetDefault("metrics_addr", ":9464")
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017/todo")
	v.SetDefault("mongodb.database", "")
	v.SetDefault("mongodb.collection", "lists")
	v.SetDefault("mongodb.connect_timeout", defaultConnectTimeout.String())
	v.SetDefault("request_timeout", "0s")
	v.SetDefault("cors.allowed_origin", "*")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "todo-api")
}

// Load は設定を読み込む。path が空なら設定ファイルは読まない。
// MONGODB_URI / HTTP_ADDR のように、キーの "." を "_" にした環境変数で上書きできる。
func Load(path string, logger *zap.Logger) (Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Config{
		HTTPAddr:    v.GetString("http_addr"),
		MetricsAddr: v.GetString("metrics_addr"),
		Mongo: MongoConfig{
			URI:            v.GetString("mongodb.uri"),
			Database:       v.GetString("mongodb.database"),
			Collection:     v.GetString("mongodb.collection"),
			ConnectTimeout: durationOrDefault(v, "mongodb.connect_timeout", defaultConnectTimeout, logger),
		},
		RequestTimeout:    durationOrDefault(v, "request_timeout", defaultRequestTimeout, logger),
		CORSAllowedOrigin: v.GetString("cors.allowed_origin"),
		Tracing: TracingConfig{
			Enabled:     v.GetBool("tracing.enabled"),
			ServiceName: v.GetString("tracing.service_name"),
		},
	}

	if cfg.Mongo.URI == "" {
		return Config{}, fmt.Errorf("mongodb.uri must not be empty")
	}
	return cfg, nil
}

// duration は parse が必要なので、まず文字列で読む。
// 不正値は起動失敗にせず、warn して安全なデフォルトに落とす。
func durationOrDefault(v *viper.Viper, key string, def time.Duration, logger *zap.Logger) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		logger.Warn("invalid duration, fallback to default",
			zap.String("key", key),
			zap.String("raw", raw),
			zap.Duration("default", def),
			zap.Error(err),
		)
		return def
	}
	return d
}
