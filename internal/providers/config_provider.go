package providers

import (
	"errors"
	"fmt"
	"guessd/internal/structures"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	if flags.EnvFile != "" {
		if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to load env file: %w", err)
		}
	}

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("persistence.sweepInterval", time.Minute)
	v.SetDefault("game.roundDuration", 30*time.Second)
	v.SetDefault("game.minBasePoints", 3)
	v.SetDefault("game.maxBasePoints", 8)
	v.SetDefault("game.pickAttempts", 50)
	v.SetDefault("telegram.pollTimeout", 60)
	v.SetDefault("cache.ttl", 5*time.Second)

	v.BindEnv("logger.level", "GUESSD_LOG_LEVEL")
	v.BindEnv("telegram.token", "GUESSD_TELEGRAM_TOKEN", "TOKEN")
	v.BindEnv("persistence.filePath", "GUESSD_SCORES_FILE")
	v.BindEnv("cache.enabled", "GUESSD_CACHE_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "GuessDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
