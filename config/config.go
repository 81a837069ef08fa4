package config

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"strings"
	"time"
)

const (
	DriverREST  = "rest"
	DriverMySQL = "mysql"
)

const (
	EnvPrefix = "MAESTRO"

	EnvKeyRemoteBaseURL        = "MAESTRO_REMOTE_BASE_URL"
	EnvKeyRemotePublishableKey = "MAESTRO_REMOTE_PUBLISHABLE_KEY"
	EnvKeyMySQLPassword        = "MAESTRO_REMOTE_MYSQL_PASSWORD"
	EnvKeyEmailSMTPPassword    = "MAESTRO_ALERT_SMTP_PASSWORD"
	EnvKeyRefreshAMQPURL       = "MAESTRO_REFRESH_AMQP_URL"
)

var ErrInvalidConfig = errors.New("invalid config")

type MySQLConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Database string `mapstructure:"database"`
}

type RemoteConfig struct {
	Driver         string        `mapstructure:"driver"`
	BaseURL        string        `mapstructure:"base_url"`
	PublishableKey string        `mapstructure:"publishable_key"`
	Table          string        `mapstructure:"table"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryMax       int           `mapstructure:"retry_max"`
	MySQL          MySQLConfig   `mapstructure:"mysql"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type ServerConfig struct {
	Host      string  `mapstructure:"host"`
	Port      int     `mapstructure:"port"`
	Debug     bool    `mapstructure:"debug"`
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

type LoggingConfig struct {
	Dir            string `mapstructure:"dir"`
	ConsoleLevel   string `mapstructure:"console_level"`
	FileLevel      string `mapstructure:"file_level"`
	DisableConsole bool   `mapstructure:"disable_console"`
}

type SMTPConfig struct {
	Identity string `mapstructure:"identity"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	UserName string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type AlertConfig struct {
	Recipients []string      `mapstructure:"recipients"`
	Cooldown   time.Duration `mapstructure:"cooldown"`
	SMTP       SMTPConfig    `mapstructure:"smtp"`
}

type RefreshConfig struct {
	AMQPURL string `mapstructure:"amqp_url"`
	Queue   string `mapstructure:"queue"`
}

type Config struct {
	Remote  RemoteConfig  `mapstructure:"remote"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Alert   AlertConfig   `mapstructure:"alert"`
	Refresh RefreshConfig `mapstructure:"refresh"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("remote.driver", DriverREST)
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.publishable_key", "")
	v.SetDefault("remote.table", "axon_knowledge")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("remote.retry_max", 2)
	v.SetDefault("remote.mysql.user", "")
	v.SetDefault("remote.mysql.password", "")
	v.SetDefault("remote.mysql.host", "")
	v.SetDefault("remote.mysql.database", "")

	v.SetDefault("cache.ttl", 600*time.Second)

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8003)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 20)

	v.SetDefault("logging.dir", "logs")
	v.SetDefault("logging.console_level", "info")
	v.SetDefault("logging.file_level", "debug")
	v.SetDefault("logging.disable_console", false)

	v.SetDefault("alert.recipients", []string{})
	v.SetDefault("alert.cooldown", 30*time.Minute)
	v.SetDefault("alert.smtp.identity", "")
	v.SetDefault("alert.smtp.host", "")
	v.SetDefault("alert.smtp.port", 25)
	v.SetDefault("alert.smtp.username", "")
	v.SetDefault("alert.smtp.password", "")

	v.SetDefault("refresh.amqp_url", "")
	v.SetDefault("refresh.queue", "axon_knowledge_changed")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

/*
Load 读取配置，优先级（由低到高）：默认值 < 配置文件 < 环境变量。

	path 为空时在工作目录中查找 maestro.toml，找不到则只使用默认值与环境变量；
*/
func Load(path string) (*Config, error) {
	v := newViper()

	if len(path) != 0 {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s fail", path)
		}
	} else {
		v.SetConfigName("maestro")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read maestro.toml fail")
			}
		}
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config fail")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Remote.Driver {
	case DriverREST:
		if len(c.Remote.BaseURL) == 0 {
			return errors.WithHintf(errors.Wrap(ErrInvalidConfig, "remote.base_url is empty"),
				"set %s or remote.base_url in maestro.toml", EnvKeyRemoteBaseURL)
		}
		if len(c.Remote.PublishableKey) == 0 {
			return errors.WithHintf(errors.Wrap(ErrInvalidConfig, "remote.publishable_key is empty"),
				"set %s or remote.publishable_key in maestro.toml", EnvKeyRemotePublishableKey)
		}
	case DriverMySQL:
		if len(c.Remote.MySQL.Host) == 0 || len(c.Remote.MySQL.Database) == 0 {
			return errors.WithHintf(errors.Wrap(ErrInvalidConfig, "remote.mysql.host and remote.mysql.database are required"),
				"set remote.mysql.* in maestro.toml and the password through %s", EnvKeyMySQLPassword)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown remote.driver %q", c.Remote.Driver)
	}

	if len(c.Remote.Table) == 0 {
		return errors.Wrap(ErrInvalidConfig, "remote.table is empty")
	}

	// 配置了收件人却没有 SMTP 服务器时，告警会静默失败
	if len(c.Alert.Recipients) != 0 && len(c.Alert.SMTP.Host) == 0 {
		return errors.WithHintf(errors.Wrap(ErrInvalidConfig, "alert.smtp.host is empty while alert.recipients is set"),
			"set alert.smtp.* in maestro.toml and the password through %s", EnvKeyEmailSMTPPassword)
	}

	if c.Cache.TTL <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "cache.ttl must be positive, got %s", c.Cache.TTL)
	}

	return nil
}
