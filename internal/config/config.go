package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	AppName     string `env:"APP_NAME" envDefault:"Wayfare"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	PublicURL   string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int    `env:"DB_MAX_CONNS" envDefault:"10"`

	JWTSecret         string `env:"JWT_SECRET_KEY,required"`
	JWTAccessTTLHours int    `env:"JWT_ACCESS_TTL_HOURS" envDefault:"168"`
	JWTRefreshTTLDays int    `env:"JWT_REFRESH_TTL_DAYS" envDefault:"30"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	SMSGatewayURL   string `env:"SMS_GATEWAY_URL"`
	SMSAccountSID   string `env:"SMS_ACCOUNT_SID"`
	SMSAuthToken    string `env:"SMS_AUTH_TOKEN"`
	SMSFromNumber   string `env:"SMS_FROM_NUMBER"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
