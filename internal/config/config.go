package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Invoice   InvoiceConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type StorageConfig struct {
	// Type is "local" or "memory".
	Type          string
	Path          string
	UploadMaxSize int64
	// AllowCopy lets the form copy the finished PDF into a server-side directory.
	AllowCopy bool
	// ExportTTL and CleanupInterval are in minutes; zero disables cleanup.
	ExportTTL       int
	CleanupInterval int
}

// TTL returns how long exports are kept.
func (c StorageConfig) TTL() time.Duration {
	return time.Duration(c.ExportTTL) * time.Minute
}

// CleanupEvery returns the pause between export cleanups.
func (c StorageConfig) CleanupEvery() time.Duration {
	return time.Duration(c.CleanupInterval) * time.Minute
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// Window returns the rate limit window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.Duration) * time.Second
}

type InvoiceConfig struct {
	ThemeColor string
	FontSize   int
	Currency   string
	QRData     string
	QRCaption  string
	Footer     string
	FontFile   string
	Compress   bool
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()
	return fromViper()
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "invoicer")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("STORAGE_TYPE", "local")
	viper.SetDefault("STORAGE_PATH", "./storage/exports")
	viper.SetDefault("UPLOAD_MAX_SIZE", 10485760)
	viper.SetDefault("STORAGE_ALLOW_COPY", false)
	viper.SetDefault("STORAGE_EXPORT_TTL", 1440)
	viper.SetDefault("STORAGE_CLEANUP_INTERVAL", 60)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_METHODS", "GET POST OPTIONS")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 30)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("INVOICE_THEME_COLOR", "#4F8EF7")
	viper.SetDefault("INVOICE_FONT_SIZE", 10)
	viper.SetDefault("INVOICE_CURRENCY", "$")
	viper.SetDefault("INVOICE_QR_DATA", "Pay to: 1234567890")
	viper.SetDefault("INVOICE_QR_CAPTION", "Scan to pay")
	viper.SetDefault("INVOICE_FOOTER", "Thank you for your business!")
	viper.SetDefault("INVOICE_FONT_FILE", "")
	viper.SetDefault("INVOICE_COMPRESS", true)
}

func fromViper() *Config {
	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Storage: StorageConfig{
			Type:            viper.GetString("STORAGE_TYPE"),
			Path:            viper.GetString("STORAGE_PATH"),
			UploadMaxSize:   viper.GetInt64("UPLOAD_MAX_SIZE"),
			AllowCopy:       viper.GetBool("STORAGE_ALLOW_COPY"),
			ExportTTL:       viper.GetInt("STORAGE_EXPORT_TTL"),
			CleanupInterval: viper.GetInt("STORAGE_CLEANUP_INTERVAL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Invoice: InvoiceConfig{
			ThemeColor: viper.GetString("INVOICE_THEME_COLOR"),
			FontSize:   viper.GetInt("INVOICE_FONT_SIZE"),
			Currency:   viper.GetString("INVOICE_CURRENCY"),
			QRData:     viper.GetString("INVOICE_QR_DATA"),
			QRCaption:  viper.GetString("INVOICE_QR_CAPTION"),
			Footer:     viper.GetString("INVOICE_FOOTER"),
			FontFile:   viper.GetString("INVOICE_FONT_FILE"),
			Compress:   viper.GetBool("INVOICE_COMPRESS"),
		},
	}
}
