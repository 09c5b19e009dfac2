package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	DatabasePath string `env:"DATABASE_PATH" envDefault:"console.db"`

	Identity Identity `envPrefix:"IDENTITY_"`
	Catalog  Catalog  `envPrefix:"CATALOG_"`
	Orders   Orders   `envPrefix:"ORDERS_"`
	Provider Provider `envPrefix:"PROVIDER_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Tracing  Tracing  `envPrefix:"OTEL_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
}

type Identity struct {
	BaseURL string `env:"BASE_URL"`
}

type Catalog struct {
	BaseURL string `env:"BASE_URL"`
}

type Orders struct {
	BaseURL string `env:"BASE_URL"`
}

type Provider struct {
	BaseURL   string `env:"BASE_URL"`
	PublicKey string `env:"PUBLIC_KEY"`
}

type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type Tracing struct {
	// OTLP/HTTP endpoint, e.g. "localhost:4318". Tracing is disabled when empty.
	Endpoint string `env:"EXPORTER_OTLP_ENDPOINT"`
}

type Checkout struct {
	// How long a card hand-off stays resumable after order creation.
	ResumeTTLMinutes int `env:"RESUME_TTL_MINUTES" envDefault:"30"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
