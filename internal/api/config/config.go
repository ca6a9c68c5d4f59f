package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("BOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

// Default 返回仅包含默认值的配置，供测试与无配置文件时使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.login_path", "login.html")
	v.SetDefault("server.home_path", "index.html")
	v.SetDefault("backend.table", "posts")
	v.SetDefault("backend.timeout", 10)
	v.SetDefault("board.repository", "supabase")
	v.SetDefault("board.state_store", "redis")
	v.SetDefault("board.page_size", 10)
	v.SetDefault("board.ready_attempts", 50)
	v.SetDefault("board.ready_interval", 100)
	v.SetDefault("board.state_ttl", 120)
	v.SetDefault("board.session_ttl", 24*7)
	v.SetDefault("board.time_zone", "Asia/Seoul")
	v.SetDefault("mongo.collection", "posts")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("kafka.topic", "board-post-events")
	v.SetDefault("cron.view_flush", "0 */1 * * * *")
}
