package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Frequency string

const (
	FrequencyLow    Frequency = "low"
	FrequencyMedium Frequency = "medium"
	FrequencyHigh   Frequency = "high"
)

// BaseTick is the tick interval at speed 1 and medium activity.
const BaseTick = 3 * time.Second

// MaxSpeed caps the speed multiplier; MinTick floors every scaled delay.
const (
	MaxSpeed = 10.0
	MinTick  = time.Millisecond
)

// Settings models virtualco.yml and the per-user settings blob.
type Settings struct {
	Notifications Notifications `yaml:"notifications" json:"notifications"`
	Simulation    Simulation    `yaml:"simulation" json:"simulation"`
	Agents        AgentBehavior `yaml:"agents" json:"agents"`
	UI            UI            `yaml:"ui" json:"ui"`
}

// Notifications gate user-facing alerts only; they never affect state.
type Notifications struct {
	AgentMessages   bool `yaml:"agent_messages" json:"agentMessages"`
	TaskUpdates     bool `yaml:"task_updates" json:"taskUpdates"`
	Milestones      bool `yaml:"milestones" json:"milestones"`
	FinancialAlerts bool `yaml:"financial_alerts" json:"financialAlerts"`
}

type Simulation struct {
	AutoSave bool `yaml:"auto_save" json:"autoSave"`
	// AutoSaveInterval is in minutes.
	AutoSaveInterval int     `yaml:"auto_save_interval" json:"autoSaveInterval"`
	DefaultSpeed     float64 `yaml:"default_speed" json:"defaultSpeed"`
	PauseOnMilestone bool    `yaml:"pause_on_milestone" json:"pauseOnMilestone"`
}

type AgentBehavior struct {
	ActivityFrequency  Frequency `yaml:"activity_frequency" json:"activityFrequency" enum:"low,medium,high"`
	EnableRandomEvents bool      `yaml:"enable_random_events" json:"enableRandomEvents"`
	SmartResponses     bool      `yaml:"smart_responses" json:"smartResponses"`
}

// UI flags are carried for clients and ignored by the simulation.
type UI struct {
	CompactMode       bool `yaml:"compact_mode" json:"compactMode"`
	ShowTimestamps    bool `yaml:"show_timestamps" json:"showTimestamps"`
	AnimationsEnabled bool `yaml:"animations_enabled" json:"animationsEnabled"`
}

// Validate ensures the settings are usable by the simulation.
func (s Settings) Validate() error {
	switch s.Agents.ActivityFrequency {
	case FrequencyLow, FrequencyMedium, FrequencyHigh:
	default:
		return fmt.Errorf("agents.activity_frequency must be low, medium or high, got %q", s.Agents.ActivityFrequency)
	}
	if err := CheckSpeed(s.Simulation.DefaultSpeed); err != nil {
		return fmt.Errorf("simulation.default_speed %w", err)
	}
	if s.Simulation.AutoSaveInterval < 1 {
		return fmt.Errorf("simulation.auto_save_interval must be at least 1 minute")
	}
	return nil
}

// Multiplier scales the tick interval for an activity frequency.
func (f Frequency) Multiplier() float64 {
	switch f {
	case FrequencyHigh:
		return 0.5
	case FrequencyLow:
		return 2
	}
	return 1
}

// CheckSpeed rejects speeds outside (0, MaxSpeed].
func CheckSpeed(speed float64) error {
	if !(speed > 0 && speed <= MaxSpeed) {
		return fmt.Errorf("must be within (0, %g], got %v", MaxSpeed, speed)
	}
	return nil
}

// TickInterval is BaseTick scaled by frequency and divided by speed,
// never below MinTick.
func TickInterval(f Frequency, speed float64) time.Duration {
	return Scale(time.Duration(float64(BaseTick)*f.Multiplier()), speed)
}

// Scale divides d by speed, never going below MinTick.
func Scale(d time.Duration, speed float64) time.Duration {
	if !(speed > 0) {
		speed = 1
	}
	v := float64(d) / speed
	if v >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return max(time.Duration(v), MinTick)
}

func (s Settings) AutoSaveEvery() time.Duration {
	return time.Duration(s.Simulation.AutoSaveInterval) * time.Minute
}

// Path returns the settings file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "virtualco.yml")
}

// GenerateDefault returns the default settings YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the default settings.
func Default() Settings {
	var s Settings
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&s)
	return s
}

// FromYAML parses settings over the defaults and validates them.
func FromYAML(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FromFile reads YAML settings from the given path.
func FromFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	return FromYAML(data)
}

// LoadOptional returns the defaults if the workspace has no settings file.
func LoadOptional(workspace string) (Settings, error) {
	s, err := FromFile(Path(workspace))
	if err != nil && os.IsNotExist(err) {
		return Default(), nil
	}
	return s, err
}

// ToYAML renders s.
func (s Settings) ToYAML() ([]byte, error) {
	return yaml.Marshal(s)
}

const defaultTemplate = `notifications:
  agent_messages: true
  task_updates: true
  milestones: true
  financial_alerts: true

simulation:
  auto_save: true
  auto_save_interval: 5
  default_speed: 1
  pause_on_milestone: false

agents:
  activity_frequency: medium
  enable_random_events: true
  smart_responses: true

ui:
  compact_mode: false
  show_timestamps: true
  animations_enabled: true
`
