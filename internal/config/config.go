package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort              string `env:"HTTP_PORT" envDefault:"5001"`
	Environment           string `env:"APP_ENV" envDefault:"development"`
	DatabaseURL           string `env:"DATABASE_URL,required"`
	JWTSecret             string `env:"JWT_SECRET,required"`
	JWTRefreshSecret      string `env:"JWT_REFRESH_TOKEN_SECRET,required"`
	AccessTokenTTLMinutes int    `env:"ACCESS_TOKEN_TTL_MINUTES" envDefault:"60"`
	RefreshTokenTTLHours  int    `env:"REFRESH_TOKEN_TTL_HOURS" envDefault:"168"`
	GoogleClientID        string `env:"GOOGLE_CLIENT_ID"`
	ClientEndpoint        string `env:"CLIENT_ENDPOINT" envDefault:"http://localhost:3000"`
	LogoutClearRefresh    bool   `env:"LOGOUT_CLEAR_REFRESH" envDefault:"false"`
	SMTPHost              string `env:"SMTP_HOST"`
	SMTPPort              int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser              string `env:"SMTP_USER"`
	SMTPPass              string `env:"SMTP_PASS"`
	SMTPFrom              string `env:"SMTP_FROM"`
	SMTPFromName          string `env:"SMTP_FROM_NAME"`
	RedisAddr             string `env:"REDIS_ADDR"`
	RedisPassword         string `env:"REDIS_PASSWORD"`
	RedisDB               int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Production indica si las cookies deben emitirse secure/SameSite=None.
func (c *Config) Production() bool {
	return c.Environment == "production"
}
