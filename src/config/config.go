package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API         APIConfig         `mapstructure:"api"`
	App         AppConfig         `mapstructure:"app"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Storage     StorageConfig     `mapstructure:"storage"`
	S3          S3Config          `mapstructure:"s3"`
	Minio       MinioConfig       `mapstructure:"minio"`
	Mail        MailConfig        `mapstructure:"mail"`
	SMTP        SMTPConfig        `mapstructure:"smtp"`
	Email       EmailConfig       `mapstructure:"email"`
	OpenWeather OpenWeatherConfig `mapstructure:"openweather"`
	Currency    CurrencyConfig    `mapstructure:"currency"`
	Log         LogConfig         `mapstructure:"log"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	AWS         AWSConfig         `mapstructure:"aws"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
}

type APIConfig struct {
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Timezone string `mapstructure:"timezone"`
}

type DatabaseConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	Timezone   string `mapstructure:"timezone"`
	ReplicaDSN string `mapstructure:"replica_dsn"`
}

type RedisConfig struct {
	Host string `mapstructure:"host"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	LocalPath string `mapstructure:"local_path"`
	PublicURL string `mapstructure:"public_url"`
}

type S3Config struct {
	AssetsBucket string `mapstructure:"assets_bucket"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type MailConfig struct {
	Driver   string `mapstructure:"driver"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type EmailConfig struct {
	Queue string `mapstructure:"queue"`
}

type OpenWeatherConfig struct {
	APIKey string `mapstructure:"api_key"`
	APIURL string `mapstructure:"api_url"`
}

type CurrencyConfig struct {
	APIURL   string        `mapstructure:"api_url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Prefetch string        `mapstructure:"prefetch"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type MaintenanceConfig struct {
	Mode bool `mapstructure:"mode"`
}

type AWSConfig struct {
	SecretsID string `mapstructure:"secrets_id"`
}

type RateLimitConfig struct {
	Comments int `mapstructure:"comments"`
}

// C holds the loaded configuration. Use Get to read it.
var C *Config

var defaults = map[string]any{
	"api.env":               "local",
	"api.port":              "8080",
	"app.host":              "http://localhost:3000",
	"app.timezone":          "UTC",
	"database.host":         "localhost",
	"database.port":         "5432",
	"database.user":         "postgres",
	"database.password":     "",
	"database.name":         "voyagemate",
	"database.sslmode":      "disable",
	"database.timezone":     "UTC",
	"database.replica_dsn":  "",
	"redis.host":            "redis://localhost:6379/0",
	"jwt.secret":            "",
	"jwt.ttl":               24 * time.Hour,
	"storage.driver":        "local",
	"storage.local_path":    "storage",
	"storage.public_url":    "http://localhost:8080/storage",
	"s3.assets_bucket":      "",
	"minio.endpoint":        "",
	"minio.access_key":      "",
	"minio.secret_key":      "",
	"minio.bucket":          "",
	"minio.use_ssl":         true,
	"mail.driver":           "log",
	"mail.from":             "no-reply@voyagemate.app",
	"mail.from_name":        "Voyage Mate",
	"smtp.host":             "",
	"smtp.port":             587,
	"smtp.username":         "",
	"smtp.password":         "",
	"email.queue":           "emails",
	"openweather.api_key":   "",
	"openweather.api_url":   "https://api.openweathermap.org/data/2.5/weather",
	"currency.api_url":      "https://open.er-api.com/v6/latest",
	"currency.cache_ttl":    10 * time.Minute,
	"currency.prefetch":     "",
	"log.level":             "info",
	"log.file":              "logs/server.log",
	"maintenance.mode":      false,
	"aws.secrets_id":        "",
	"ratelimit.comments":    20,
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// Load reads the environment (and a .env file when API_ENV is local) into C.
func Load() (*Config, error) {
	if os.Getenv("API_ENV") == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	return load(newViper())
}

func load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	C = &c
	return C, nil
}

// Get returns the loaded configuration, loading it on first use.
func Get() *Config {
	if C != nil {
		return C
	}
	c, err := load(newViper())
	if err != nil {
		panic(err)
	}
	return c
}

// Override merges values over the current configuration. Used by the
// secrets overlay and by tests.
func Override(values map[string]any) (*Config, error) {
	v := newViper()
	for k, val := range values {
		v.Set(k, val)
	}
	return load(v)
}

func (c *Config) IsProd() bool {
	return c.API.Env == "production"
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) CurrencyPrefetch() []string {
	var bases []string
	for _, b := range strings.Split(c.Currency.Prefetch, ",") {
		if b = strings.TrimSpace(b); b != "" {
			bases = append(bases, strings.ToUpper(b))
		}
	}
	return bases
}

func (c *Config) ShareURL(token string) string {
	return fmt.Sprintf("%s/s/%s", strings.TrimRight(c.App.Host, "/"), token)
}

func GetDSN() string {
	d := Get().Database
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.Timezone,
	)
}
