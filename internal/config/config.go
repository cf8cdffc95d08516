package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
	"holdem-server/internal/util"
)

// Config provides configuration for the Hold'em server
type Config struct {
	loaded bool

	Table   Table   `yaml:"table"`
	Timing  Timing  `yaml:"timing"`
	Log     Log     `yaml:"log"`
	Relay   Relay   `yaml:"relay"`
	History History `yaml:"history"`
}

// Seat configures a single seat
// Remote seats can be claimed over the relay with a seat token
type Seat struct {
	Name   string `yaml:"name"`
	Bot    bool   `yaml:"bot"`
	Remote bool   `yaml:"remote"`
}

// Table configures the table and the tournament
type Table struct {
	Seats         []Seat `yaml:"seats" ignored:"true"`
	StartingStack int    `yaml:"startingStack" envconfig:"starting_stack"`
	SmallBlind    int    `yaml:"smallBlind" envconfig:"small_blind"`
	BigBlind      int    `yaml:"bigBlind" envconfig:"big_blind"`
}

// Timing configures the pace of the table
type Timing struct {
	TurnTimeout   time.Duration `yaml:"turnTimeout" envconfig:"turn_timeout"`
	BotThinkMin   time.Duration `yaml:"botThinkMin" envconfig:"bot_think_min"`
	BotThinkMax   time.Duration `yaml:"botThinkMax" envconfig:"bot_think_max"`
	ActionPause   time.Duration `yaml:"actionPause" envconfig:"action_pause"`
	RevealPause   time.Duration `yaml:"revealPause" envconfig:"reveal_pause"`
	ShowdownPause time.Duration `yaml:"showdownPause" envconfig:"showdown_pause"`
	HandPause     time.Duration `yaml:"handPause" envconfig:"hand_pause"`
}

// Log configures logging
type Log struct {
	Level             string `yaml:"level"`
	DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
}

// Relay configures the network relay for remote seats
type Relay struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowedOrigins" envconfig:"allowed_origins"`
	TokenSecret    string        `yaml:"tokenSecret" envconfig:"token_secret"`
	TokenTTL       time.Duration `yaml:"tokenTTL" envconfig:"token_ttl"`
}

// History configures the hand history recorder
type History struct {
	Enabled        bool   `yaml:"enabled"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
}

var config Config

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() Config {
	return Config{
		Table: Table{
			Seats: []Seat{
				{Name: "You", Remote: true},
				{Bot: true},
				{Bot: true},
				{Bot: true},
				{Bot: true},
			},
			StartingStack: 1000,
			SmallBlind:    10,
			BigBlind:      20,
		},
		Timing: Timing{
			TurnTimeout:   time.Second * 30,
			BotThinkMin:   time.Second,
			BotThinkMax:   time.Second * 3,
			ActionPause:   time.Second,
			RevealPause:   time.Second * 2,
			ShowdownPause: time.Second * 5,
			HandPause:     time.Second * 3,
		},
		Log: Log{
			Level: "info",
		},
		Relay: Relay{
			Addr:     ":5000",
			TokenTTL: time.Hour * 12,
		},
		History: History{
			PGDSN:          "postgres://postgres@localhost:5432/postgres?sslmode=disable",
			MigrationsPath: "./sql",
		},
	}
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// Values start from DefaultConfig, are replaced by the YAML file if it exists, then by the environment
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("holdem", &cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}

// Validate returns an error if the configuration cannot run a table
func (c Config) Validate() error {
	if len(c.Table.Seats) < 2 {
		return errors.New("table must have at least two seats")
	}

	if c.Table.StartingStack <= 0 {
		return errors.New("starting stack must be greater than zero")
	}

	if c.Table.SmallBlind <= 0 || c.Table.BigBlind < c.Table.SmallBlind {
		return errors.New("blinds must be greater than zero and the big blind must cover the small blind")
	}

	if c.Timing.BotThinkMax < c.Timing.BotThinkMin {
		return errors.New("bot think max cannot be less than bot think min")
	}

	for i, seat := range c.Table.Seats {
		if seat.Bot && seat.Remote {
			return fmt.Errorf("seat %d cannot be both a bot and remote", i+1)
		}
	}

	return nil
}
