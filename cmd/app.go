package cmd

import (
	"github.com/sirupsen/logrus"
	"maestro-dashboard/config"
	"maestro-dashboard/domain/alert"
	"maestro-dashboard/domain/knowledge"
	"maestro-dashboard/domain/refresh"
	"maestro-dashboard/logging"
	"maestro-dashboard/repository/axon"
	"maestro-dashboard/utils"
	"maestro-dashboard/utils/email"
)

// app 是应用根对象，持有缓存与各个后台组件。
type app struct {
	config   *config.Config
	logger   *logrus.Logger
	loader   *knowledge.Loader
	notifier *alert.Notifier
	listener *refresh.Listener
}

func loggingConf(cfg *config.Config) *logging.Config {
	return &logging.Config{
		FileLevel:      logging.ParseLevel(cfg.Logging.FileLevel, logrus.DebugLevel),
		ConsoleLevel:   logging.ParseLevel(cfg.Logging.ConsoleLevel, logrus.InfoLevel),
		FileDir:        cfg.Logging.Dir,
		DisableConsole: cfg.Logging.DisableConsole,
	}
}

func axonConf(cfg *config.Config) *axon.Config {
	return &axon.Config{
		Driver:         cfg.Remote.Driver,
		BaseURL:        cfg.Remote.BaseURL,
		PublishableKey: cfg.Remote.PublishableKey,
		Table:          cfg.Remote.Table,
		Timeout:        cfg.Remote.Timeout,
		RetryMax:       cfg.Remote.RetryMax,
		MySQL: axon.MySQLConfig{
			User:     cfg.Remote.MySQL.User,
			Password: cfg.Remote.MySQL.Password,
			Host:     cfg.Remote.MySQL.Host,
			Database: cfg.Remote.MySQL.Database,
		},
	}
}

func emailConf(cfg *config.Config) *email.Config {
	return &email.Config{SMTP: email.SMTPConfig{
		Identity: cfg.Alert.SMTP.Identity,
		Host:     cfg.Alert.SMTP.Host,
		Port:     cfg.Alert.SMTP.Port,
		UserName: cfg.Alert.SMTP.UserName,
		Password: cfg.Alert.SMTP.Password,
	}}
}

func alertConf(cfg *config.Config) *alert.Setting {
	return &alert.Setting{
		Recipients: cfg.Alert.Recipients,
		Cooldown:   cfg.Alert.Cooldown,
		Table:      cfg.Remote.Table,
		Sender:     email.NewSender(emailConf(cfg)),
		Logger:     logging.NewLogger(),
	}
}

func refreshConf(cfg *config.Config, target refresh.Invalidator) *refresh.Setting {
	return &refresh.Setting{
		URL:    cfg.Refresh.AMQPURL,
		Queue:  cfg.Refresh.Queue,
		Table:  cfg.Remote.Table,
		Target: target,
		Logger: logging.NewLogger(),
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logging.SetDefaultConfig(loggingConf(cfg))
	return cfg, nil
}

// newApp 按配置组装应用；listen 为 true 时订阅知识表变更通知。
func newApp(cfg *config.Config, listen bool) (*app, error) {
	logger := logging.NewLogger()

	source, err := axon.New(axonConf(cfg), logger)
	if err != nil {
		return nil, utils.WrapError(err, "create axon source fail")
	}

	notifier := alert.NewNotifier(alertConf(cfg))

	loader, err := knowledge.NewLoader(&knowledge.LoaderSetting{
		Source:        source,
		TTL:           cfg.Cache.TTL,
		Logger:        logger,
		OnFetchFailed: notifier.Notify,
	})
	if err != nil {
		return nil, utils.WrapError(err, "create knowledge loader fail")
	}

	a := &app{
		config:   cfg,
		logger:   logger,
		loader:   loader,
		notifier: notifier,
	}

	if listen && len(cfg.Refresh.AMQPURL) != 0 {
		a.listener, err = refresh.Listen(refreshConf(cfg, loader))
		if err != nil {
			// 变更通知只是加速刷新，连接失败时仍依赖 TTL
			logger.WithError(err).Errorf("listen knowledge change events error: %s", err.Error())
			a.listener = nil
		}
	}

	return a, nil
}

func (a *app) Close() {
	a.listener.Close()
	a.notifier.Wait()
	a.loader.Close()
}
