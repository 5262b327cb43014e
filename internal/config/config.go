package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	ErrMissingBucket  = errors.New("MINIO_BUCKET is required when MINIO_ENDPOINT is set")
	ErrZoomOutOfRange = errors.New("map zoom must be between 0 and 22")
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

type CenterConfig struct {
	Lng float64 `yaml:"lng"`
	Lat float64 `yaml:"lat"`
}

// MapConfig holds the camera and basemap defaults handed to a surveyor who has
// no saved view state yet.
type MapConfig struct {
	Center  CenterConfig `yaml:"center"`
	Zoom    float64      `yaml:"zoom"`
	Basemap string       `yaml:"basemap"`
}

type UploadConfig struct {
	MaxBytes   int64 `yaml:"max_bytes"`
	RatePerMin int   `yaml:"rate_per_min"`
}

// StorageConfig points at the S3-compatible bucket that stages geometry uploads.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	CORS    CORSConfig    `yaml:"cors"`
	Map     MapConfig     `yaml:"map"`
	Uploads UploadConfig  `yaml:"uploads"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
}

// Defaults returns the configuration used when neither the YAML file nor the
// environment overrides a value. The map opens over downtown Bloomington, IN.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: "5050"},
		CORS: CORSConfig{Origins: []string{
			"http://localhost:5173",
			"http://localhost:5174",
		}},
		Map: MapConfig{
			Center:  CenterConfig{Lng: -86.5264, Lat: 39.1653},
			Zoom:    12,
			Basemap: "streets",
		},
		Uploads: UploadConfig{
			MaxBytes:   25 << 20, // 25 MiB covers every shapefile we have seen in the field
			RatePerMin: 30,
		},
		Storage: StorageConfig{Bucket: "fieldtrace-uploads"},
		// Redis is opt-in: no URL means map sessions are not persisted.
		Redis: RedisConfig{},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at path
// (FT_CONFIG or ./config.yaml when path is empty; a missing file is fine), then
// environment variables on top.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv("FT_CONFIG")
	}
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only deploys run without a config file
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
//
// Environment variables:
//   - PORT: HTTP listen port
//   - CORS_ORIGINS: comma-separated origin allow-list
//   - MAP_CENTER_LNG / MAP_CENTER_LAT / MAP_ZOOM / MAP_BASEMAP: map defaults
//   - UPLOAD_MAX_BYTES / UPLOAD_RATE_PER_MIN: upload caps
//   - MINIO_ENDPOINT / MINIO_BUCKET / MINIO_ACCESS_KEY / MINIO_SECRET_KEY /
//     MINIO_USE_SSL / MINIO_PUBLIC_URL: object storage
//   - REDIS_URL: map session store
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.Origins = origins
	}
	if v, err := strconv.ParseFloat(os.Getenv("MAP_CENTER_LNG"), 64); err == nil {
		c.Map.Center.Lng = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("MAP_CENTER_LAT"), 64); err == nil {
		c.Map.Center.Lat = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("MAP_ZOOM"), 64); err == nil {
		c.Map.Zoom = v
	}
	if v := os.Getenv("MAP_BASEMAP"); v != "" {
		c.Map.Basemap = v
	}
	if v, err := strconv.ParseInt(os.Getenv("UPLOAD_MAX_BYTES"), 10, 64); err == nil {
		c.Uploads.MaxBytes = v
	}
	if v, err := strconv.Atoi(os.Getenv("UPLOAD_RATE_PER_MIN")); err == nil {
		c.Uploads.RatePerMin = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.Storage.Endpoint = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		c.Storage.Bucket = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Storage.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Storage.SecretKey = v
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		c.Storage.UseSSL = v == "true" || v == "1"
	}
	if v := os.Getenv("MINIO_PUBLIC_URL"); v != "" {
		c.Storage.PublicURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
}

// Validate checks structural constraints. Basemap names are validated where
// they are used, by the map state machine.
func (c Config) Validate() error {
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		return ErrZoomOutOfRange
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("upload max_bytes must be positive, got %d", c.Uploads.MaxBytes)
	}
	if c.Storage.Endpoint != "" && c.Storage.Bucket == "" {
		return ErrMissingBucket
	}
	return nil
}
