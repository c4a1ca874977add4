package redis

import "time"

// RedisConfig contains configuration for constructing a rueidis.Client.
//
// URL is a standard Redis URI, for example:
//
//   - Single:  redis://:password@localhost:6379/0
//   - TLS:     rediss://:password@my-redis.example.com:6379/0
//   - Cluster: redis://:password@host1:6379/0?addr=host2:6379&addr=host3:6379
//
// Cluster vs single vs sentinel is auto-detected by rueidis based on
// InitAddress and options.
type RedisConfig struct {
	// Required: Redis connection URL (redis:// or rediss://).
	URL string `env:"URL" envDefault:"redis://localhost:6379/0"`

	// Optional: client name visible in CLIENT LIST, etc.
	ClientName string `env:"CLIENT_NAME"`

	// SkipTLSVerify disables TLS certificate verification. Only use this in
	// trusted environments with non-standard certs.
	SkipTLSVerify bool `env:"SKIP_TLS_VERIFY"`

	// RequireTLS enforces the use of rediss://. If true and the URL is
	// redis://, NewRueidisClient returns an error.
	RequireTLS bool `env:"REQUIRE_TLS"`

	// Tuning flags — leave zero-valued to keep rueidis defaults.
	DisableRetry     bool          `env:"DISABLE_RETRY"`
	AlwaysPipelining bool          `env:"ALWAYS_PIPELINING"`
	ConnWriteTimeout time.Duration `env:"CONN_WRITE_TIMEOUT"`

	// Enable OpenTelemetry integration via rueidisotel.
	EnableOtel bool `env:"ENABLE_OTEL"`
}
