package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env-default:"8080"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// Game durations come from env (or their defaults): yaml cannot decode
// duration strings into time.Duration.
type Game struct {
	MinPlayers       int           `yaml:"min-players" env:"GAME_MIN_PLAYERS" env-default:"1"`
	StorageTimeout   time.Duration `env:"GAME_STORAGE_TIMEOUT" env-default:"5s"`
	RoomTTL          time.Duration `env:"GAME_ROOM_TTL" env-default:"24h"`
	IdleTimeout      time.Duration `env:"GAME_IDLE_TIMEOUT" env-default:"30m"`
	FinishedTimeout  time.Duration `env:"GAME_FINISHED_TIMEOUT" env-default:"5m"`
	EvictionInterval time.Duration `env:"GAME_EVICTION_INTERVAL" env-default:"1m"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
