package config

import (
	"os"
	"strconv"
	"time"

	"github.com/jsphweid/chordlight/constants"
	"github.com/jsphweid/chordlight/session"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type BridgeConfig struct {
	URL      string   `yaml:"url"`
	User     string   `yaml:"user"`
	LightIDs []string `yaml:"light_ids,omitempty"`
	// in multiples of 100ms, as the bridge counts it
	TransitionTime int `yaml:"transition_time"`
}

type MidiConfig struct {
	// Port is a port number or part of a port name. Empty picks port 0.
	Port string `yaml:"port"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// MetadataConfig points at the DynamoDB table holding MIDI file metadata.
// Replays skip the lookup when Endpoint is empty.
type MetadataConfig struct {
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Table    string `yaml:"table"`
}

type Config struct {
	// LowKey is the MIDI key that becomes note id 0.
	LowKey int `yaml:"low_key"`
	// Lights is the number of colors per chord. 0 counts the bridge's lights.
	Lights int `yaml:"lights"`
	// Seed fixes chord colors. 0 seeds from the clock.
	Seed           int64          `yaml:"seed"`
	VelocityPolicy string         `yaml:"velocity_policy"`
	IdleAfter      time.Duration  `yaml:"idle_after"`
	Bridge         BridgeConfig   `yaml:"bridge"`
	Midi           MidiConfig     `yaml:"midi"`
	HTTP           HTTPConfig     `yaml:"http"`
	Metadata       MetadataConfig `yaml:"metadata"`
}

func Default() *Config {
	return &Config{
		LowKey:         constants.MidiLowA,
		VelocityPolicy: string(session.ReleaseOldest),
		IdleAfter:      5 * time.Second,
		Bridge: BridgeConfig{
			TransitionTime: 1,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Metadata: MetadataConfig{
			Region: "localhost",
			Table:  "midi-metadata",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := constants.GetBridgeURL(); v != "" {
		c.Bridge.URL = v
	}
	if v := constants.GetBridgeUser(); v != "" {
		c.Bridge.User = v
	}
	if v := constants.GetMidiPort(); v != "" {
		c.Midi.Port = v
	}
	if v := os.Getenv("CHORDLIGHT_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "CHORDLIGHT_SEED")
		}
		c.Seed = seed
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Lights < 0 {
		return errors.Errorf("lights must not be negative, got %d", c.Lights)
	}
	if c.LowKey < 0 || c.LowKey > 127 {
		return errors.Errorf("low_key must be a MIDI key (0-127), got %d", c.LowKey)
	}
	if _, err := session.ParsePolicy(c.VelocityPolicy); err != nil {
		return err
	}
	if c.Bridge.URL != "" && c.Bridge.User == "" {
		return errors.New("bridge.user is required when bridge.url is set")
	}
	if c.Bridge.TransitionTime < 0 {
		return errors.Errorf("bridge.transition_time must not be negative, got %d", c.Bridge.TransitionTime)
	}
	return nil
}

func (c *Config) Policy() session.Policy {
	p, _ := session.ParsePolicy(c.VelocityPolicy)
	return p
}

// SeedOrNow returns the configured seed, or a fresh one from the clock.
func (c *Config) SeedOrNow() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
