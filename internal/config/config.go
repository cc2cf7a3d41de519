package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-map/internal/logging"
)

type ServerConfig struct {
	Port string `validate:"required,numeric"`
	// DataSource is a URL or file path of weather_data.json.
	DataSource    string        `validate:"required"`
	HTTPTimeout   time.Duration `validate:"gt=0"`
	MapCenterLat  float64       `validate:"latitude"`
	MapCenterLon  float64       `validate:"longitude"`
	MapZoom       int           `validate:"min=1,max=19"`
	DisplayLocale string        `validate:"required,bcp47_language_tag"`
}

type CrawlerConfig struct {
	BaseURL     string `validate:"required,url"`
	Dataset     string `validate:"required"`
	APIKey      string
	InsecureTLS bool
	// RawPath, when set, receives a copy of every downloaded payload.
	RawPath  string
	Interval time.Duration `validate:"gte=1m"`
	Once     bool
	// ExportAfterCrawl regenerates the JSON and standalone page after each crawl.
	ExportAfterCrawl bool
	RequestsPerSec   float64 `validate:"gt=0"`
}

type ExportConfig struct {
	JSONPath       string `validate:"required"`
	HTMLPath       string
	GeocoderAPIKey string
}

// AppConfig is shared by the server, crawler and exporter binaries.
type AppConfig struct {
	AppName  string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`
	DBPath   string `validate:"required"`

	Server  ServerConfig
	Crawler CrawlerConfig
	Export  ExportConfig
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "weather-map")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PATH", "sqlitedata.db")

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATA_SOURCE", "weather_data.json")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("MAP_CENTER_LAT", 23.5)
	v.SetDefault("MAP_CENTER_LON", 121.0)
	v.SetDefault("MAP_ZOOM", 8)
	v.SetDefault("DISPLAY_LOCALE", "zh-TW")

	v.SetDefault("CWA_BASE_URL", "https://opendata.cwa.gov.tw/fileapi/v1/opendataapi")
	v.SetDefault("CWA_DATASET", "F-A0010-001")
	v.SetDefault("CWA_INSECURE_TLS", false)
	v.SetDefault("CWA_RAW_PATH", "cwa_weather_data.json")
	v.SetDefault("CRAWL_INTERVAL", "6h")
	v.SetDefault("CRAWL_ONCE", false)
	v.SetDefault("CRAWL_EXPORT", true)
	v.SetDefault("CRAWL_RPS", 1.0)

	v.SetDefault("EXPORT_JSON_PATH", "weather_data.json")
	v.SetDefault("EXPORT_HTML_PATH", "map_standalone.html")
}

// Load reads configuration from the environment (and a .env file when one
// exists) with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logging.Infof("no .env file found or error loading it: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		AppName:  v.GetString("APP_NAME"),
		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
		DBPath:   v.GetString("DB_PATH"),
	}

	var err error

	cfg.Server = ServerConfig{
		Port:          v.GetString("PORT"),
		DataSource:    v.GetString("DATA_SOURCE"),
		MapCenterLat:  v.GetFloat64("MAP_CENTER_LAT"),
		MapCenterLon:  v.GetFloat64("MAP_CENTER_LON"),
		MapZoom:       v.GetInt("MAP_ZOOM"),
		DisplayLocale: v.GetString("DISPLAY_LOCALE"),
	}
	if cfg.Server.HTTPTimeout, err = duration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}

	cfg.Crawler = CrawlerConfig{
		BaseURL:          v.GetString("CWA_BASE_URL"),
		Dataset:          v.GetString("CWA_DATASET"),
		APIKey:           v.GetString("CWA_API_KEY"),
		InsecureTLS:      v.GetBool("CWA_INSECURE_TLS"),
		RawPath:          v.GetString("CWA_RAW_PATH"),
		Once:             v.GetBool("CRAWL_ONCE"),
		ExportAfterCrawl: v.GetBool("CRAWL_EXPORT"),
		RequestsPerSec:   v.GetFloat64("CRAWL_RPS"),
	}
	if cfg.Crawler.Interval, err = duration(v, "CRAWL_INTERVAL"); err != nil {
		return nil, err
	}

	cfg.Export = ExportConfig{
		JSONPath:       v.GetString("EXPORT_JSON_PATH"),
		HTMLPath:       v.GetString("EXPORT_HTML_PATH"),
		GeocoderAPIKey: v.GetString("GEOCODER_API_KEY"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
