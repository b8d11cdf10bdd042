package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath      string        `yaml:"filePath" validate:"required|unixPath"`
	Compress      bool          `yaml:"compress"`
	SweepInterval time.Duration `yaml:"sweepInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CatalogConfig struct {
	FilePath string `yaml:"filePath" validate:"required"`
	AssetDir string `yaml:"assetDir" validate:"required"`
}

// GameConfig holds round policy. Zero values fall back to the package
// defaults in services and catalog.
type GameConfig struct {
	RoundDuration time.Duration `yaml:"roundDuration"`
	MinBasePoints int           `yaml:"minBasePoints" validate:"min:0"`
	MaxBasePoints int           `yaml:"maxBasePoints" validate:"min:0"`
	PickAttempts  int           `yaml:"pickAttempts" validate:"min:0"`
	AllowedChats  []string      `yaml:"allowedChats"`
}

type TelegramConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Token       string `yaml:"token"`
	PollTimeout int    `yaml:"pollTimeout"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Catalog     CatalogConfig  `yaml:"catalog"`
	Game        GameConfig     `yaml:"game"`
	Telegram    TelegramConfig `yaml:"telegram"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}
