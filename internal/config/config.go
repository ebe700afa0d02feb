package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// APIBaseURL is the base URL of the PYBO REST backend. Trailing slashes
	// are trimmed so path joining is uniform.
	APIBaseURL string

	// Env is "development" (default) or "production".
	Env string

	Debug bool

	// WebPort is the listen port for the server-rendered web UI.
	WebPort string

	// SessionFile overrides where the session record is persisted. Empty
	// means the default location under the user config dir.
	SessionFile string

	// Development-only toggles. They affect local developer experience,
	// never the API contract.
	EnableHTTPS    bool
	HotReload      bool
	VerboseLogging bool
	MockAPI        bool
	EnableDevTools bool

	// MockPort and MockSecret configure the standalone mock backend binary.
	MockPort   string
	MockSecret string

	// TLSCertFile and TLSKeyFile enable HTTPS for the web UI when both are
	// set and EnableHTTPS is true.
	TLSCertFile string
	TLSKeyFile  string
}

// Load reads configuration from the environment once at startup.
// A .env file in the working directory is loaded first when present.
func Load() Config {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	return Config{
		APIBaseURL: strings.TrimRight(getEnv("PYBO_API_BASE_URL", "http://localhost:8000"), "/"),
		Env:        getEnv("PYBO_ENV", "development"),
		Debug:      getEnvBool("PYBO_DEBUG", false),

		WebPort: getEnv("PYBO_WEB_PORT", "3000"),

		SessionFile: getEnv("PYBO_SESSION_FILE", ""),

		EnableHTTPS:    getEnvBool("PYBO_ENABLE_HTTPS", false),
		HotReload:      getEnvBool("PYBO_HOT_RELOAD", false),
		VerboseLogging: getEnvBool("PYBO_VERBOSE_LOGGING", false),
		MockAPI:        getEnvBool("PYBO_MOCK_API", false),
		EnableDevTools: getEnvBool("PYBO_ENABLE_DEV_TOOLS", false),

		MockPort:   getEnv("PYBO_MOCK_PORT", "8000"),
		MockSecret: getEnv("PYBO_MOCK_SECRET", "mock-secret"),

		TLSCertFile: getEnv("PYBO_TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("PYBO_TLS_KEY_FILE", ""),
	}
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return fallback
}
