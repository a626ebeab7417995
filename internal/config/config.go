// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Search   SearchConfig
	Forecast ForecastConfig
	Report   ReportConfig
	Cache    CacheConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SearchConfig carries the tunables of the search engine. Scorer selects
// the similarity implementation at startup: "partial_ratio" or "levenshtein".
type SearchConfig struct {
	PageSize          int
	AutocompleteLimit int
	FuzzyThreshold    int
	Scorer            string
}

type ForecastConfig struct {
	LookbackDays    int
	LeadTimeDays    int
	PredictSoonDays int
}

type ReportConfig struct {
	Currency string
	TopK     int
	Dir      string
	Timezone string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// DataConfig selects where the catalog snapshot comes from.
type DataConfig struct {
	Source           string // "csv" or "postgres"
	ProductsFile     string
	TransactionsFile string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "storepulse")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SEARCH_PAGE_SIZE", 20)
		viper.SetDefault("SEARCH_AUTOCOMPLETE_LIMIT", 8)
		viper.SetDefault("SEARCH_FUZZY_THRESHOLD", 70)
		viper.SetDefault("SEARCH_SCORER", "partial_ratio")
		viper.SetDefault("FORECAST_LOOKBACK_DAYS", 30)
		viper.SetDefault("FORECAST_LEAD_TIME_DAYS", 7)
		viper.SetDefault("FORECAST_PREDICT_SOON_DAYS", 7)
		viper.SetDefault("REPORT_CURRENCY", "VND")
		viper.SetDefault("REPORT_TOP_K", 5)
		viper.SetDefault("REPORT_DIR", "./data/reports")
		viper.SetDefault("REPORT_TIMEZONE", "Asia/Ho_Chi_Minh")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "storepulse-reports")
		viper.SetDefault("STORAGE_REGION", "")
		viper.SetDefault("STORAGE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the report directory exists
		ensureDir(viper.GetString("REPORT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Search: SearchConfig{
				PageSize:          viper.GetInt("SEARCH_PAGE_SIZE"),
				AutocompleteLimit: viper.GetInt("SEARCH_AUTOCOMPLETE_LIMIT"),
				FuzzyThreshold:    viper.GetInt("SEARCH_FUZZY_THRESHOLD"),
				Scorer:            viper.GetString("SEARCH_SCORER"),
			},
			Forecast: ForecastConfig{
				LookbackDays:    viper.GetInt("FORECAST_LOOKBACK_DAYS"),
				LeadTimeDays:    viper.GetInt("FORECAST_LEAD_TIME_DAYS"),
				PredictSoonDays: viper.GetInt("FORECAST_PREDICT_SOON_DAYS"),
			},
			Report: ReportConfig{
				Currency: viper.GetString("REPORT_CURRENCY"),
				TopK:     viper.GetInt("REPORT_TOP_K"),
				Dir:      viper.GetString("REPORT_DIR"),
				Timezone: viper.GetString("REPORT_TIMEZONE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
		}
	})

	return instance
}

// LoadData reads the data-source selection separately so CLI commands can
// override it per invocation without touching the singleton.
func LoadData() DataConfig {
	viper.SetDefault("DATA_SOURCE", "csv")
	viper.SetDefault("DATA_PRODUCTS_FILE", "./data/products.csv")
	viper.SetDefault("DATA_TRANSACTIONS_FILE", "./data/transactions.csv")
	viper.AutomaticEnv()
	return DataConfig{
		Source:           viper.GetString("DATA_SOURCE"),
		ProductsFile:     viper.GetString("DATA_PRODUCTS_FILE"),
		TransactionsFile: viper.GetString("DATA_TRANSACTIONS_FILE"),
	}
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
