package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ErrPassphraseRequired is returned when the configured SSH key is encrypted
// and no passphrase was supplied
var ErrPassphraseRequired = errors.New("SSH key is encrypted - passphrase required")

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type BackendConfig struct {
	HTTPURL string `toml:"http_url"`
	WSURL   string `toml:"ws_url"`
}

type SearchConfig struct {
	DebounceMs int `toml:"debounce_ms"`
}

type PomodoroConfig struct {
	WorkSeconds       int `toml:"work_seconds"`
	ShortBreakSeconds int `toml:"short_break_seconds"`
	LongBreakSeconds  int `toml:"long_break_seconds"`
}

type SecurityConfig struct {
	Method     string `toml:"method"`       // "plaintext" or "ssh_key"
	SSHKeyPath string `toml:"ssh_key_path"` // only used with "ssh_key"
}

type UserConfig struct {
	Backend  BackendConfig  `toml:"backend"`
	Search   SearchConfig   `toml:"search"`
	Pomodoro PomodoroConfig `toml:"pomodoro"`
	Security SecurityConfig `toml:"security"`
}

type Config struct {
	DataDirectory string
	HTTPBackend   string
	WSBackend     string

	SearchDebounceMs int

	WorkSeconds       int
	ShortBreakSeconds int
	LongBreakSeconds  int

	SecurityMethod EncryptionMethod
	SSHKeyPath     string
}

var Debug = false
var DebugLog *log.Logger

const (
	EnvHTTPBackend = "STARTIME_HTTP_BACKEND"
	EnvWSBackend   = "STARTIME_WS_BACKEND"
	EnvDataDir     = "STARTIME_DATA_DIR"
	EnvDebug       = "STARTIME_DEBUG"
)

var envVars = []string{EnvHTTPBackend, EnvWSBackend, EnvDataDir}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// SearchDebounce is the quiet period before a history search is sent
func (c *Config) SearchDebounce() time.Duration {
	if c.SearchDebounceMs <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

func (c *Config) applyUserConfig(u *UserConfig) {
	c.HTTPBackend = u.Backend.HTTPURL
	c.WSBackend = u.Backend.WSURL
	c.SearchDebounceMs = u.Search.DebounceMs

	if u.Pomodoro.WorkSeconds > 0 {
		c.WorkSeconds = u.Pomodoro.WorkSeconds
	}
	if u.Pomodoro.ShortBreakSeconds > 0 {
		c.ShortBreakSeconds = u.Pomodoro.ShortBreakSeconds
	}
	if u.Pomodoro.LongBreakSeconds > 0 {
		c.LongBreakSeconds = u.Pomodoro.LongBreakSeconds
	}

	switch EncryptionMethod(u.Security.Method) {
	case EncryptionSSHKey:
		c.SecurityMethod = EncryptionSSHKey
		c.SSHKeyPath = ExpandPath(u.Security.SSHKeyPath)
	default:
		c.SecurityMethod = EncryptionNone
	}
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv(EnvHTTPBackend); url != "" {
		c.HTTPBackend = url
	}
	if url := os.Getenv(EnvWSBackend); url != "" {
		c.WSBackend = url
	}
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv(EnvDebug)
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log may contain backend URLs and conversation ids
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (%s=%s) ===", EnvDebug, os.Getenv(EnvDebug))
	DebugLog.Printf("Log path: %s", logPath)
}

func HasAllEnvVars() bool {
	for _, name := range envVars {
		if os.Getenv(name) == "" {
			return false
		}
	}
	return true
}

func HasAnyEnvVar() bool {
	for _, name := range envVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

func GetMissingEnvVar() string {
	for _, name := range envVars {
		if os.Getenv(name) == "" {
			return name
		}
	}
	return ""
}

func defaultConfig() *Config {
	return &Config{
		DataDirectory:     GetDefaultDataDir(),
		HTTPBackend:       DefaultHTTPBackend,
		WSBackend:         DefaultWSBackend,
		SearchDebounceMs:  DefaultSearchDebounceMs,
		WorkSeconds:       DefaultWorkSeconds,
		ShortBreakSeconds: DefaultShortBreakSeconds,
		LongBreakSeconds:  DefaultLongBreakSeconds,
		SecurityMethod:    EncryptionNone,
	}
}

// Load resolves configuration from the settings files, or entirely from the
// environment when all STARTIME_* variables are set and no settings file exists yet.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if !SystemConfigExists() && HasAllEnvVars() {
		cfg.applyEnvOverrides()
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.applyUserConfig(userCfg)
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
