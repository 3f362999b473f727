package config

const (
	DefaultHTTPBackend      = "http://localhost:8000"
	DefaultWSBackend        = "ws://localhost:8000"
	DefaultSearchDebounceMs = 200

	DefaultWorkSeconds       = 1500
	DefaultShortBreakSeconds = 300
	DefaultLongBreakSeconds  = 900
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/startime",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Backend: BackendConfig{
			HTTPURL: DefaultHTTPBackend,
			WSURL:   DefaultWSBackend,
		},
		Search: SearchConfig{
			DebounceMs: DefaultSearchDebounceMs,
		},
		Pomodoro: PomodoroConfig{
			WorkSeconds:       DefaultWorkSeconds,
			ShortBreakSeconds: DefaultShortBreakSeconds,
			LongBreakSeconds:  DefaultLongBreakSeconds,
		},
		Security: SecurityConfig{
			Method: string(EncryptionNone),
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# StarTime System Configuration
# Location: ~/.config/startime/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the local store and user config are kept
data_directory = "~/.local/share/startime"
`
}

func GenerateUserConfigTemplate() string {
	return `# StarTime User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[backend]
# REST API of the StarTime backend
http_url = "http://localhost:8000"

# WebSocket endpoint (conversation snapshots are pushed here)
ws_url = "ws://localhost:8000"

[search]
# Quiet period before a history search is sent, in milliseconds
debounce_ms = 200

[pomodoro]
work_seconds = 1500
short_break_seconds = 300
long_break_seconds = 900

[security]
# How the cached session token is stored on disk
#   "plaintext" - stored as-is in the local database (file is 0600)
#   "ssh_key"   - encrypted with a key derived from your SSH private key
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
