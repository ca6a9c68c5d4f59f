package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Board    BoardConfig    `mapstructure:"board"`
	DB       DBConfig       `mapstructure:"database"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Cron     CronConfig     `mapstructure:"cron"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	CookieSecure bool     `mapstructure:"cookie_secure"`
	LoginPath    string   `mapstructure:"login_path"`
	HomePath     string   `mapstructure:"home_path"`
}

// BackendConfig 托管后端 (Supabase) 配置
type BackendConfig struct {
	URL        string `mapstructure:"url"`
	AnonKey    string `mapstructure:"anon_key"`
	ProjectRef string `mapstructure:"project_ref"`
	JWTSecret  string `mapstructure:"jwt_secret"`
	Table      string `mapstructure:"table"`
	ViewsRPC   string `mapstructure:"views_rpc"`
	Timeout    int    `mapstructure:"timeout"`
}

// BoardConfig 看板行为配置
type BoardConfig struct {
	Repository    string `mapstructure:"repository"` // supabase | mysql | mongo
	StateStore    string `mapstructure:"state_store"` // redis | memory
	PageSize      int    `mapstructure:"page_size"`
	ReadyAttempts int    `mapstructure:"ready_attempts"`
	ReadyInterval int    `mapstructure:"ready_interval"` // 毫秒
	StateTTL      int    `mapstructure:"state_ttl"`      // 分钟
	SessionTTL    int    `mapstructure:"session_ttl"`    // 小时
	TimeZone      string `mapstructure:"time_zone"`
	BufferViews   bool   `mapstructure:"buffer_views"`
	Events        bool   `mapstructure:"events"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type MongoConfig struct {
	URL        string `mapstructure:"url"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type KafkaConfig struct {
	Brokers []string   `mapstructure:"brokers"`
	Sasl    SaslConfig `mapstructure:"sasl"`
	Topic   string     `mapstructure:"topic"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LogstashConfig 远程日志
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// CronConfig 定时任务
type CronConfig struct {
	ViewFlush string `mapstructure:"view_flush"`
}
