package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lazypower/atomspace/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. ATOMSPACE_SERVER_PORT.
const EnvPrefix = "ATOMSPACE"

// Config holds all atomspace configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Log           LogConfig           `mapstructure:"log"`
	Consolidation ConsolidationConfig `mapstructure:"consolidation"`
	Bridge        BridgeConfig        `mapstructure:"bridge"`
}

type ServerConfig struct {
	Bind string `mapstructure:"bind"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"` // debug, info, warn, error
}

type ConsolidationConfig struct {
	Threshold       float64 `mapstructure:"threshold"`
	IntervalSeconds int     `mapstructure:"interval_seconds"` // 0 disables the timer
	TruthWeight     float64 `mapstructure:"truth_weight"`
	AttentionWeight float64 `mapstructure:"attention_weight"`
}

type BridgeConfig struct {
	MaxState   int     `mapstructure:"max_state"`
	Activation float64 `mapstructure:"activation"`
	Confidence float64 `mapstructure:"confidence"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 37778)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")

	v.SetDefault("consolidation.threshold", 0.95)
	v.SetDefault("consolidation.interval_seconds", 0)
	v.SetDefault("consolidation.truth_weight", 0.7)
	v.SetDefault("consolidation.attention_weight", 0.3)

	v.SetDefault("bridge.max_state", 100)
	v.SetDefault("bridge.activation", 0.1)
	v.SetDefault("bridge.confidence", 0.8)
}

// Default returns a Config with every default applied.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always decode.
		panic(err)
	}
	return *cfg
}

// Load reads configuration from defaults, the optional TOML file at path,
// and ATOMSPACE_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithViper decodes configuration from a prepared viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.InvalidArgumentf("server.port %d out of range", c.Server.Port)
	}
	if !inUnit(c.Consolidation.Threshold) {
		return errors.InvalidArgumentf("consolidation.threshold %v outside [0,1]", c.Consolidation.Threshold)
	}
	if c.Consolidation.IntervalSeconds < 0 {
		return errors.InvalidArgumentf("consolidation.interval_seconds must not be negative")
	}
	if !inUnit(c.Consolidation.TruthWeight) || !inUnit(c.Consolidation.AttentionWeight) {
		return errors.InvalidArgumentf("consolidation weights must be in [0,1]")
	}
	if c.Bridge.MaxState <= 0 {
		return errors.InvalidArgumentf("bridge.max_state must be positive")
	}
	if c.Bridge.Activation < 0 {
		return errors.InvalidArgumentf("bridge.activation must not be negative")
	}
	if !inUnit(c.Bridge.Confidence) || c.Bridge.Confidence == 0 {
		return errors.InvalidArgumentf("bridge.confidence %v outside (0,1]", c.Bridge.Confidence)
	}
	return nil
}

func inUnit(f float64) bool { return f >= 0 && f <= 1 }

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// ConsolidationInterval is the period of background consolidation; zero
// means disabled.
func (c *Config) ConsolidationInterval() time.Duration {
	return time.Duration(c.Consolidation.IntervalSeconds) * time.Second
}
