package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dpavluk/slack-lesson-bot/internal/domain/entity"
)

// anchorDateLayout is the format of rotation.start_of_first_period.
const anchorDateLayout = "2006/01/02"

// Delivery-error policy values.
const (
	PolicyAbort = "abort"
	PolicySkip  = "skip"
)

type Config struct {
	Rotation RotationConfig `koanf:"rotation"`
	Files    FilesConfig    `koanf:"files"`
	Schedule ScheduleConfig `koanf:"schedule"`
	Slack    SlackConfig    `koanf:"slack"`
	Database DatabaseConfig `koanf:"database"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// RotationConfig selects which repeating period-variant of the weekly
// schedule is active.
type RotationConfig struct {
	NumberOfPeriods    int    `koanf:"number_of_periods"`
	PeriodDurationDays int    `koanf:"period_duration_days"`
	StartOfFirstPeriod string `koanf:"start_of_first_period"` // YYYY/MM/DD
}

func (c RotationConfig) Validate() error {
	if c.NumberOfPeriods < 1 {
		return fmt.Errorf("number_of_periods must be at least 1, got %d", c.NumberOfPeriods)
	}
	if c.PeriodDurationDays < 1 {
		return fmt.Errorf("period_duration_days must be at least 1, got %d", c.PeriodDurationDays)
	}
	if _, err := c.AnchorDate(); err != nil {
		return err
	}
	return nil
}

// AnchorDate parses start_of_first_period in local time.
func (c RotationConfig) AnchorDate() (time.Time, error) {
	t, err := time.ParseInLocation(anchorDateLayout, c.StartOfFirstPeriod, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_of_first_period %q, want YYYY/MM/DD: %w", c.StartOfFirstPeriod, err)
	}
	return t, nil
}

// FilesConfig points at the three schedule data sources. The period path may
// contain "$", replaced with the computed rotation period at every rebuild.
type FilesConfig struct {
	Subjects  string `koanf:"subjects"`
	Period    string `koanf:"period"`
	Timetable string `koanf:"timetable"`
}

func (c FilesConfig) Validate() error {
	if c.Subjects == "" {
		return fmt.Errorf("files.subjects is required")
	}
	if c.Period == "" {
		return fmt.Errorf("files.period is required")
	}
	if c.Timetable == "" {
		return fmt.Errorf("files.timetable is required")
	}
	return nil
}

type ScheduleConfig struct {
	// ReloadTime is the daily instant (HH:MM:SS) at which the schedule is
	// rebuilt for the new day.
	ReloadTime string `koanf:"reload_time"`
	// OnDeliveryError is "abort" (end the run) or "skip" (log and advance
	// to the next slot).
	OnDeliveryError string `koanf:"on_delivery_error"`
}

// SetDefaults applies sane defaults.
func (c *ScheduleConfig) SetDefaults() {
	if c.ReloadTime == "" {
		c.ReloadTime = "08:00:00"
	}
	if c.OnDeliveryError == "" {
		c.OnDeliveryError = PolicyAbort
	}
}

func (c ScheduleConfig) Validate() error {
	if _, err := c.ReloadClock(); err != nil {
		return fmt.Errorf("invalid reload_time: %w", err)
	}
	if c.OnDeliveryError != PolicyAbort && c.OnDeliveryError != PolicySkip {
		return fmt.Errorf("on_delivery_error must be %q or %q, got %q", PolicyAbort, PolicySkip, c.OnDeliveryError)
	}
	return nil
}

func (c ScheduleConfig) ReloadClock() (entity.ClockTime, error) {
	return entity.ParseClockTime(c.ReloadTime)
}

type SlackConfig struct {
	BotToken  string `koanf:"bot_token"`
	ChannelID string `koanf:"channel_id"`
}

func (c SlackConfig) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("slack bot token is required (slack.bot_token or SLACK_BOT_TOKEN)")
	}
	if c.ChannelID == "" {
		return fmt.Errorf("slack.channel_id is required")
	}
	return nil
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "./lessons.db"
	}
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":9090"
	}
}

// Load reads the yaml configuration file and applies LB_-prefixed
// environment overrides (LB_SLACK__CHANNEL_ID -> slack.channel_id).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := k.Load(env.Provider("LB_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "lb_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg.Schedule.SetDefaults()
	cfg.Database.SetDefaults()
	cfg.Metrics.SetDefaults()

	// Token lives in the environment (.env) rather than the config file.
	if cfg.Slack.BotToken == "" {
		cfg.Slack.BotToken = os.Getenv("SLACK_BOT_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Rotation.Validate(); err != nil {
		return err
	}
	if err := c.Files.Validate(); err != nil {
		return err
	}
	if err := c.Schedule.Validate(); err != nil {
		return err
	}
	return c.Slack.Validate()
}
