package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	// DSN selects the backend: memory://, file:///path/state.dat or postgres://...
	DSN string `yaml:"dsn" validate:"required"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type WatcherConfig struct {
	Interval                time.Duration `yaml:"interval" validate:"required|min:1"`
	MinGap                  time.Duration `yaml:"minGap"`
	OfflineGrace            time.Duration `yaml:"offlineGrace" validate:"required|min:1"`
	RevertWindow            time.Duration `yaml:"revertWindow" validate:"required|min:1"`
	TokenValidationInterval time.Duration `yaml:"tokenValidationInterval"`
	TokenBatchSize          int           `yaml:"tokenBatchSize"`
}

type TriggerConfig struct {
	AccessKey string `yaml:"accessKey"`
}

type PlatformConfig struct {
	ClientID          string        `yaml:"clientId"`
	ClientSecret      string        `yaml:"clientSecret"`
	BaseURL           string        `yaml:"baseUrl"`
	TokenURL          string        `yaml:"tokenUrl"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requestsPerMinute"`
}

type PushConfig struct {
	Enabled         bool          `yaml:"enabled"`
	CredentialsFile string        `yaml:"credentialsFile"`
	Attempts        int           `yaml:"attempts"`
	BaseDelay       time.Duration `yaml:"baseDelay"`
	TTL             time.Duration `yaml:"ttl"`
}

type BotConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channelId"`
}

type MicroblogConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Endpoint       string  `yaml:"endpoint"`
	ConsumerKey    string  `yaml:"consumerKey"`
	ConsumerSecret string  `yaml:"consumerSecret"`
	AccessToken    string  `yaml:"accessToken"`
	AccessSecret   string  `yaml:"accessSecret"`
	LinkBase       string  `yaml:"linkBase"`
	MaxLength      int     `yaml:"maxLength"`
	RatePerSecond  float64 `yaml:"ratePerSecond"`
}

type WebhookConfig struct {
	Enabled       bool    `yaml:"enabled"`
	RatePerSecond float64 `yaml:"ratePerSecond"`
}

type NotifyConfig struct {
	Push      PushConfig      `yaml:"push"`
	Bot       BotConfig       `yaml:"bot"`
	Microblog MicroblogConfig `yaml:"microblog"`
	Webhook   WebhookConfig   `yaml:"webhook"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type CorsConfig struct {
	AllowOrigins []string `yaml:"allowOrigins"`
}

// ChannelConfig is one roster entry as written in the config file.
type ChannelConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	TwitchLogin string `yaml:"twitchLogin"`
	Color       string `yaml:"color"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Storage   StorageConfig   `yaml:"storage"`
	Logger    LoggerConfig    `yaml:"logger"`
	Watcher   WatcherConfig   `yaml:"watcher"`
	Trigger   TriggerConfig   `yaml:"trigger"`
	Platform  PlatformConfig  `yaml:"platform"`
	Notify    NotifyConfig    `yaml:"notify"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Cors      CorsConfig      `yaml:"cors"`
	Channels  []ChannelConfig `yaml:"channels"`
}
