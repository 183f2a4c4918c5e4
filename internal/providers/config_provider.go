package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"streamwatch/internal/structures"
	"strings"
	"time"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("storage.dsn", "memory://")
	v.SetDefault("watcher.interval", time.Minute)
	v.SetDefault("watcher.minGap", 50*time.Second)
	v.SetDefault("watcher.offlineGrace", 90*time.Second)
	v.SetDefault("watcher.revertWindow", 12*time.Second)
	v.SetDefault("watcher.tokenValidationInterval", 24*time.Hour)
	v.SetDefault("watcher.tokenBatchSize", 200)
	v.SetDefault("platform.baseUrl", "https://api.twitch.tv/helix")
	v.SetDefault("platform.tokenUrl", "https://id.twitch.tv/oauth2/token")
	v.SetDefault("platform.timeout", 10*time.Second)
	v.SetDefault("platform.requestsPerMinute", 600)
	v.SetDefault("notify.push.attempts", 3)
	v.SetDefault("notify.push.baseDelay", 500*time.Millisecond)
	v.SetDefault("notify.push.ttl", 10*time.Minute)
	v.SetDefault("notify.microblog.endpoint", "https://api.twitter.com/2/tweets")
	v.SetDefault("notify.microblog.linkBase", "https://twitch.tv/")
	v.SetDefault("notify.microblog.maxLength", 140)
	v.SetDefault("notify.microblog.ratePerSecond", 1)
	v.SetDefault("notify.webhook.ratePerSecond", 5)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setConfigDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "STREAMWATCH_LOG_LEVEL")
	v.BindEnv("storage.dsn", "STREAMWATCH_STORAGE_DSN")
	v.BindEnv("watcher.interval", "STREAMWATCH_INTERVAL")
	v.BindEnv("trigger.accessKey", "STREAMWATCH_ACCESS_KEY")
	v.BindEnv("platform.clientId", "TWITCH_ID")
	v.BindEnv("platform.clientSecret", "TWITCH_SEC")
	v.BindEnv("notify.push.credentialsFile", "GOOGLE_APPLICATION_CREDENTIALS")
	v.BindEnv("notify.bot.token", "DISCORD_BOT_TOKEN")
	v.BindEnv("notify.microblog.consumerKey", "MICROBLOG_CONSUMER_KEY")
	v.BindEnv("notify.microblog.consumerSecret", "MICROBLOG_CONSUMER_SECRET")
	v.BindEnv("notify.microblog.accessToken", "MICROBLOG_ACCESS_TOKEN")
	v.BindEnv("notify.microblog.accessSecret", "MICROBLOG_ACCESS_SECRET")
	v.BindEnv("cache.enabled", "STREAMWATCH_CACHE_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "StreamWatch"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
