package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/marcus/tick/internal/models"
)

const configFile = ".tick/config.json"
const lockFile = ".tick/config.json.lock"

// Defaults applied when a field is unset
const (
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultDriver         = "sqlite"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
)

// ErrUnknownKey is returned by Get and Set for keys not in Keys().
var ErrUnknownKey = errors.New("unknown config key")

// Load reads the config from disk
func Load(baseDir string) (*models.Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Config{}, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return &cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(baseDir string, cfg *models.Config) error {
	configPath := filepath.Join(baseDir, configFile)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// Exists reports whether a config file has been written under baseDir.
func Exists(baseDir string) bool {
	_, err := os.Stat(filepath.Join(baseDir, configFile))
	return err == nil
}

// Update loads, modifies and saves the config while holding the lock.
func Update(baseDir string, fn func(*models.Config) error) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		return Save(baseDir, cfg)
	})
}

// withConfigLock serializes access to config.json using flock
func withConfigLock(baseDir string, fn func() error) error {
	lockPath := filepath.Join(baseDir, lockFile)

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// SearchDebounce returns the configured search delay or the default.
func SearchDebounce(cfg *models.Config) time.Duration {
	if cfg == nil || cfg.SearchDebounce <= 0 {
		return DefaultSearchDebounce
	}
	return cfg.SearchDebounce.Std()
}

// Driver returns the configured sqlite driver or the default.
func Driver(cfg *models.Config) string {
	if cfg == nil || cfg.Driver == "" {
		return DefaultDriver
	}
	return cfg.Driver
}

// field binds a dotted key to a config field.
type field struct {
	get func(*models.Config) string
	set func(*models.Config, string) error
}

var fields = map[string]field{
	"pomodoro.work":        durationField(func(c *models.Config) *models.Duration { return &c.Pomodoro.Work }),
	"pomodoro.short_break": durationField(func(c *models.Config) *models.Duration { return &c.Pomodoro.ShortBreak }),
	"pomodoro.long_break":  durationField(func(c *models.Config) *models.Duration { return &c.Pomodoro.LongBreak }),
	"search_debounce":      durationField(func(c *models.Config) *models.Duration { return &c.SearchDebounce }),
	"pomodoro.long_break_every": {
		get: func(c *models.Config) string { return strconv.Itoa(c.Pomodoro.LongBreakEvery) },
		set: func(c *models.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return fmt.Errorf("long_break_every must be a positive integer, got %q", v)
			}
			c.Pomodoro.LongBreakEvery = n
			return nil
		},
	},
	"default_category": stringField(func(c *models.Config) *string { return &c.DefaultCategory }, nil),
	"driver":           stringField(func(c *models.Config) *string { return &c.Driver }, []string{"sqlite", "sqlite3"}),
	"log_level":        stringField(func(c *models.Config) *string { return &c.LogLevel }, []string{"debug", "info", "warn", "error"}),
	"log_format":       stringField(func(c *models.Config) *string { return &c.LogFormat }, []string{"text", "json"}),
}

func durationField(ptr func(*models.Config) *models.Duration) field {
	return field{
		get: func(c *models.Config) string {
			if *ptr(c) == 0 {
				return ""
			}
			return ptr(c).Std().String()
		},
		set: func(c *models.Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return fmt.Errorf("expected a positive duration like 25m or 300ms, got %q", v)
			}
			*ptr(c) = models.Duration(d)
			return nil
		},
	}
}

func stringField(ptr func(*models.Config) *string, allowed []string) field {
	return field{
		get: func(c *models.Config) string { return *ptr(c) },
		set: func(c *models.Config, v string) error {
			v = strings.TrimSpace(v)
			if len(allowed) > 0 && !slices.Contains(allowed, v) {
				return fmt.Errorf("expected one of %s, got %q", strings.Join(allowed, ", "), v)
			}
			*ptr(c) = v
			return nil
		},
	}
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the raw value of key; unset values are empty.
func Get(cfg *models.Config, key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(cfg), nil
}

// Set validates and stores value under key on disk.
func Set(baseDir, key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return Update(baseDir, func(cfg *models.Config) error {
		if err := f.set(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}
