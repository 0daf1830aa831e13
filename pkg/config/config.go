package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Sentry    SentryConfig
	Seed      SeedConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	LogLevel  string
	PublicURL string // base de los enlaces enviados por correo (reset de contraseña)
	Locale    string // formato de importes en los PDF
	Currency  string // ISO 4217 de los importes exportados
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool // aplica migraciones embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string // lista separada por comas; vacío = "*"
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitConfig límites para los endpoints públicos de autenticación.
type RateLimitConfig struct {
	AuthPerMinute int
	AuthBurst     int
}

// StorageConfig backend donde se archivan los PDF de cotizaciones.
type StorageConfig struct {
	Type         string // local | s3
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// SentryConfig reporte de errores; vacío = deshabilitado.
type SentryConfig struct {
	DSN        string
	SampleRate float64
}

// SeedConfig credenciales del superadmin inicial (cmd/seed).
type SeedConfig struct {
	SuperadminEmail    string
	SuperadminPassword string
	SuperadminName     string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "domka-erp"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
			PublicURL: getString(v, "APP_PUBLIC_URL", "http://localhost:3000"),
			Locale:    getString(v, "APP_LOCALE", "es-CO"),
			Currency:  getString(v, "APP_CURRENCY", "COP"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "domka_erp"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "domka-erp"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			CORSOrigins: getString(v, "CORS_ORIGINS", ""),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getInt(v, "RATE_LIMIT_AUTH_PER_MINUTE", 10),
			AuthBurst:     getInt(v, "RATE_LIMIT_AUTH_BURST", 5),
		},
		Storage: StorageConfig{
			Type:         getString(v, "STORAGE_TYPE", "local"),
			LocalPath:    getString(v, "STORAGE_LOCAL_PATH", "./storage/quotes"),
			S3Bucket:     getString(v, "AWS_S3_BUCKET", ""),
			S3Region:     getString(v, "AWS_REGION", "us-east-1"),
			AWSAccessKey: getString(v, "AWS_ACCESS_KEY_ID", ""),
			AWSSecretKey: getString(v, "AWS_SECRET_ACCESS_KEY", ""),
		},
		Sentry: SentryConfig{
			DSN:        getString(v, "SENTRY_DSN", ""),
			SampleRate: getFloat(v, "SENTRY_TRACES_SAMPLE_RATE", 0.2),
		},
		Seed: SeedConfig{
			SuperadminEmail:    getString(v, "SEED_SUPERADMIN_EMAIL", ""),
			SuperadminPassword: getString(v, "SEED_SUPERADMIN_PASSWORD", ""),
			SuperadminName:     getString(v, "SEED_SUPERADMIN_NAME", "Superadmin"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	if cfg.Storage.Type != "local" && cfg.Storage.Type != "s3" {
		return nil, fmt.Errorf("config: STORAGE_TYPE desconocido %q", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "s3" && cfg.Storage.S3Bucket == "" {
		return nil, fmt.Errorf("config: AWS_S3_BUCKET es obligatorio con STORAGE_TYPE=s3")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if !v.IsSet(key) {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		return def
	}
	return f
}
