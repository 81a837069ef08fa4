package axon

import (
	"fmt"
	"time"
)

const (
	DriverREST  = "rest"
	DriverMySQL = "mysql"

	DefaultTable = "axon_knowledge"
)

type MySQLConfig struct {
	User     string
	Password string
	Host     string
	Database string
}

func (c *MySQLConfig) dsn() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Database)
}

/*
Config 描述远端知识表的位置。

	BaseURL 与 PublishableKey 用于 rest 驱动，PublishableKey 是只读的公开密钥，受远端行级权限（RLS）约束；
	MySQL 用于 mysql 驱动读取镜像库；
*/
type Config struct {
	Driver         string
	BaseURL        string
	PublishableKey string
	Table          string
	Timeout        time.Duration
	RetryMax       int
	MySQL          MySQLConfig
}

func GenerateTestConfig() *Config {
	return &Config{
		Driver:         DriverREST,
		BaseURL:        "http://localhost:54321",
		PublishableKey: "maestro_test_publishable_key",
		Table:          DefaultTable,
		Timeout:        2 * time.Second,
		RetryMax:       0,
		MySQL: MySQLConfig{
			User:     "axon_test",
			Password: "axon_test",
			Host:     "localhost",
			Database: "axon_test",
		},
	}
}

func (c *Config) table() string {
	if len(c.Table) == 0 {
		return DefaultTable
	}
	return c.Table
}
