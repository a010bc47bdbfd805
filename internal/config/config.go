// Package config holds per-project compiler configuration, loaded
// from lodestone.yaml. Everything has a default so a project file is
// optional.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is a target game version, e.g. {1, 19, 70}.
type Version [3]int

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// AtLeast reports whether v is the given version or newer.
func (v Version) AtLeast(other Version) bool {
	for i := 0; i < 3; i++ {
		if v[i] != other[i] {
			return v[i] > other[i]
		}
	}
	return true
}

func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return fmt.Errorf("invalid game version %q (want MAJOR.MINOR.PATCH)", raw)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid game version %q: %w", raw, err)
		}
		(*v)[i] = n
	}
	return nil
}

// Config is the top-level lodestone.yaml configuration.
type Config struct {
	// EntityTag prefixes every entity tag the compiler allocates.
	EntityTag string `yaml:"entity_tag"`
	// ScoreboardPrefix prefixes every scoreboard objective the
	// compiler allocates.
	ScoreboardPrefix string `yaml:"scoreboard_prefix"`
	// EntityType is the entity summoned for a plain `new`.
	EntityType string `yaml:"entity_type"`
	// EntityPos is where freshly summoned entities are teleported.
	EntityPos string `yaml:"entity_pos"`
	// GameVersion is the targeted game version.
	GameVersion Version `yaml:"game_version"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and validates a lodestone.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if strings.ContainsAny(c.EntityTag, " [],=") {
		return fmt.Errorf("%s: entity_tag %q contains selector metacharacters", path, c.EntityTag)
	}
	if strings.ContainsAny(c.ScoreboardPrefix, " \"") {
		return fmt.Errorf("%s: scoreboard_prefix %q contains invalid characters", path, c.ScoreboardPrefix)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.EntityTag == "" {
		c.EntityTag = "ldst_tag"
	}
	if c.ScoreboardPrefix == "" {
		c.ScoreboardPrefix = "ldst"
	}
	if c.EntityType == "" {
		c.EntityType = "armor_stand"
	}
	if c.EntityPos == "" {
		c.EntityPos = "~ ~ ~"
	}
	if c.GameVersion == (Version{}) {
		c.GameVersion = Version{1, 19, 70}
	}
}
