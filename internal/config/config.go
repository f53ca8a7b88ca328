package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the fiches generator.
type Config struct {
	LogLevel string       `yaml:"log_level"`
	Server   ServerConfig `yaml:"server"`
	Images   ImagesConfig `yaml:"images"`
	Words    WordsConfig  `yaml:"words"`
	PDF      PDFConfig    `yaml:"pdf"`
	Cache    CacheConfig  `yaml:"cache"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	StaticDir      string   `yaml:"static_dir"`
}

// ImagesConfig configures the image provider gateway and image downloads.
type ImagesConfig struct {
	PixabayAPIKey      string           `yaml:"pixabay_api_key"`
	PixabayURL         string           `yaml:"pixabay_url"`
	UnsplashAccessKey  string           `yaml:"unsplash_access_key"`
	UnsplashURL        string           `yaml:"unsplash_url"`
	PerWordCap         int              `yaml:"per_word_cap"`
	MaxCandidates      int              `yaml:"max_candidates"`
	PerPage            int              `yaml:"per_page"`
	PageSize           int              `yaml:"page_size"`
	Concurrency        int              `yaml:"concurrency"`
	Timeout            time.Duration    `yaml:"timeout"`
	PlaceholderPalette []string         `yaml:"placeholder_palette"`
	Disambiguations    []Disambiguation `yaml:"disambiguations"`
	MaxSide            int              `yaml:"max_side"`
	JPEGQuality        int              `yaml:"jpeg_quality"`
}

// Disambiguation rewrites the search query of an ambiguous word under a theme.
type Disambiguation struct {
	Word  string `yaml:"word"`
	Theme string `yaml:"theme"`
	Query string `yaml:"query"`
}

type WordsConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	Retries     int           `yaml:"retries"`
	Backoff     time.Duration `yaml:"backoff"`
	Endpoint    string        `yaml:"endpoint"`
}

type PDFConfig struct {
	CardsPerPage int         `yaml:"cards_per_page"`
	Fonts        FontsConfig `yaml:"fonts"`
}

// FontsConfig names where each of the three typefaces comes from: a file
// path, an http(s) URL or one of the builtin: fonts.
type FontsConfig struct {
	Capital string `yaml:"capital"`
	Script  string `yaml:"script"`
	Cursive string `yaml:"cursive"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
}

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:           "8888",
			AllowedOrigins: []string{"*"},
			StaticDir:      "static",
		},
		Images: ImagesConfig{
			PixabayURL:         "https://pixabay.com/api/",
			UnsplashURL:        "https://api.unsplash.com/search/photos",
			PerWordCap:         3,
			MaxCandidates:      30,
			PerPage:            20,
			PageSize:           3,
			Concurrency:        4,
			Timeout:            15 * time.Second,
			PlaceholderPalette: []string{"FFB6C1", "87CEEB", "98FB98", "FFD700", "DDA0DD"},
			Disambiguations: []Disambiguation{
				{Word: "marron", Theme: "automne", Query: "châtaigne marron"},
			},
			MaxSide:     1600,
			JPEGQuality: 90,
		},
		Words: WordsConfig{
			Provider:    "mistral",
			Model:       "ministral-3b-latest",
			Temperature: 0.9,
			MaxTokens:   300,
			Timeout:     45 * time.Second,
			Retries:     2,
			Backoff:     time.Second,
		},
		PDF: PDFConfig{
			CardsPerPage: 2,
			Fonts: FontsConfig{
				Capital: "builtin:gobold",
				Script:  "builtin:goregular",
				Cursive: "builtin:goitalic",
			},
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			TTL:     6 * time.Hour,
		},
	}
}

// Load reads the YAML file at path (if any) on top of the defaults, then
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		slog.Debug("Loaded config file", "path", path)
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Server.Port, "FICHES_PORT")
	set(&c.Server.StaticDir, "FICHES_STATIC_DIR")
	set(&c.LogLevel, "FICHES_LOG_LEVEL")
	set(&c.Images.PixabayAPIKey, "PIXABAY_API_KEY")
	set(&c.Images.UnsplashAccessKey, "UNSPLASH_ACCESS_KEY")
	set(&c.Words.Provider, "FICHES_WORDS_PROVIDER")
	set(&c.Words.Model, "FICHES_WORDS_MODEL")
	set(&c.Words.Endpoint, "FICHES_WORDS_ENDPOINT")
	set(&c.PDF.Fonts.Capital, "FICHES_FONT_CAPITAL")
	set(&c.PDF.Fonts.Script, "FICHES_FONT_SCRIPT")
	set(&c.PDF.Fonts.Cursive, "FICHES_FONT_CURSIVE")
	set(&c.Cache.RedisAddr, "REDIS_ADDR")
	set(&c.Cache.RedisPassword, "REDIS_PASSWORD")
	set(&c.Cache.Backend, "FICHES_CACHE")

	if v := getenv("FICHES_CARDS_PER_PAGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("Ignoring invalid FICHES_CARDS_PER_PAGE", "value", v)
		} else {
			c.PDF.CardsPerPage = n
		}
	}
	if v := getenv("FICHES_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var err error

	if c.Server.Port == "" {
		err = multierr.Append(err, errors.New("server.port must be set"))
	}
	if c.PDF.CardsPerPage != 2 && c.PDF.CardsPerPage != 4 {
		err = multierr.Append(err, fmt.Errorf("pdf.cards_per_page must be 2 or 4, got %d", c.PDF.CardsPerPage))
	}
	if c.Images.PerWordCap < 1 {
		err = multierr.Append(err, fmt.Errorf("images.per_word_cap must be positive, got %d", c.Images.PerWordCap))
	}
	if c.Images.MaxCandidates < c.Images.PerWordCap {
		err = multierr.Append(err, fmt.Errorf("images.max_candidates (%d) must not be lower than images.per_word_cap (%d)",
			c.Images.MaxCandidates, c.Images.PerWordCap))
	}
	if c.Images.PageSize < 1 {
		err = multierr.Append(err, fmt.Errorf("images.page_size must be positive, got %d", c.Images.PageSize))
	}
	if len(c.Images.PlaceholderPalette) == 0 {
		err = multierr.Append(err, errors.New("images.placeholder_palette must not be empty"))
	}
	for i, d := range c.Images.Disambiguations {
		if d.Word == "" || d.Query == "" {
			err = multierr.Append(err, fmt.Errorf("images.disambiguations[%d] needs both word and query", i))
		}
	}
	if c.Images.JPEGQuality < 1 || c.Images.JPEGQuality > 100 {
		err = multierr.Append(err, fmt.Errorf("images.jpeg_quality must be within 1..100, got %d", c.Images.JPEGQuality))
	}
	for name, src := range map[string]string{
		"capital": c.PDF.Fonts.Capital,
		"script":  c.PDF.Fonts.Script,
		"cursive": c.PDF.Fonts.Cursive,
	} {
		if strings.TrimSpace(src) == "" {
			err = multierr.Append(err, fmt.Errorf("pdf.fonts.%s must be set", name))
		}
	}
	if c.Words.Retries < 0 {
		err = multierr.Append(err, fmt.Errorf("words.retries must not be negative, got %d", c.Words.Retries))
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			err = multierr.Append(err, errors.New("cache.redis_addr is required for the redis cache"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}

	return err
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
