package service

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// SchedulerConfig holds the scheduler's user-facing settings.
type SchedulerConfig struct {
	Worksheet    string   `toml:"worksheet"`
	Subjects     []string `toml:"subjects"`
	SlotCapacity int      `toml:"slot_capacity"` // max bookings per (date, time); 0 = unlimited
	FontBase     string   `toml:"font_base"`     // base name of the optional export font asset
}

// FeatureConfig holds user-facing feature configurations.
// These are non-sensitive settings that customize application behavior
// and integrations. Users can modify these without redeployment.
// Source: TOML configuration file
type FeatureConfig struct {
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// DefaultSubjects is the subject option set used when the config file does
// not override it.
var DefaultSubjects = []string{"中文", "英文", "數學", "生物", "地理", "中史", "歷史", "物理", "化學"}

// LoadFeatureConfig loads feature configuration from a TOML file.
// A missing file is not an error; defaults apply.
func LoadFeatureConfig(path string) (*FeatureConfig, error) {
	var cfg FeatureConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load feature config: %w", err)
		}
	}
	cfg.Scheduler.applyDefaults()
	return &cfg, nil
}

func (c *SchedulerConfig) applyDefaults() {
	if c.Worksheet == "" {
		c.Worksheet = "Sheet1"
	}
	if len(c.Subjects) == 0 {
		c.Subjects = append([]string(nil), DefaultSubjects...)
	}
	if c.FontBase == "" {
		c.FontBase = "font"
	}
}

// HasSubject reports whether name is in the configured subject option set.
func (c *SchedulerConfig) HasSubject(name string) bool {
	for _, s := range c.Subjects {
		if s == name {
			return true
		}
	}
	return false
}
