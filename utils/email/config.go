package email

type SMTPConfig struct {
	Identity string
	Host     string
	Port     int
	UserName string
	Password string
}

type Config struct {
	SMTP SMTPConfig
}

func GenerateTestConfig() *Config {
	return &Config{SMTP: SMTPConfig{
		Identity: "maestro-alert@localhost",
		Host:     "localhost",
		Port:     1025,
		UserName: "maestro-alert@localhost",
	}}
}

// from 优先使用 Identity 作为发件人。
func (c *Config) from() string {
	if len(c.SMTP.Identity) != 0 {
		return c.SMTP.Identity
	}
	return c.SMTP.UserName
}
