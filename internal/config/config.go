package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env-default:"9090"`
	SocketPort        string `yaml:"socket-port" env-default:"8080"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env-default:"connectfour.db"`
	Game              Game   `yaml:"game"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	Host    string `yaml:"host" env-default:"localhost"`
	Port    string `yaml:"port" env-default:"6379"`
	Stream  string `yaml:"stream" env-default:"game-events"`
}

// Game holds the process-wide gameplay constants, read once at startup.
type Game struct {
	BoardWidth          int           `yaml:"board-width" env-default:"7"`
	BoardHeight         int           `yaml:"board-height" env-default:"6"`
	WinLength           int           `yaml:"win-length" env-default:"4"`
	MatchmakingInterval time.Duration `yaml:"matchmaking-interval" env-default:"1s"`
	MatchmakingTimeout  time.Duration `yaml:"matchmaking-timeout" env-default:"10s"`
	ReconnectionGrace   time.Duration `yaml:"reconnection-grace" env-default:"30s"`
	BotMoveDelay        time.Duration `yaml:"bot-move-delay" env-default:"1s"`
	BotSearchDepth      int           `yaml:"bot-search-depth" env-default:"6"`
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
