package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// KeyBindingsConfig holds modifier customization and optional per-action overrides
type KeyBindingsConfig struct {
	Modifiers ModifierConfig    `toml:"modifiers"`
	Actions   map[string]string `toml:"actions"`
}

type ModifierConfig struct {
	Primary   string `toml:"primary"`   // alt, ctrl, meta, super
	Secondary string `toml:"secondary"` // alt+shift, ctrl+shift
}

type actionDef struct {
	modifier string // "primary", "secondary" or "none"
	key      string
}

// actionRegistry maps action names to their default keybindings.
// Any of them can be overridden in the [actions] section of keybindings.toml.
var actionRegistry = map[string]actionDef{
	// Navigation between views
	"help":         {"primary", "h"},
	"home":         {"primary", "n"},
	"history":      {"primary", "s"},
	"categories":   {"primary", "c"},
	"quick_action": {"primary", "a"},
	"back":         {"none", "esc"},
	"quit":         {"primary", "q"},
	"logout":       {"secondary", "l"},

	// Conversation view
	"scroll_down":      {"primary", "j"},
	"scroll_up":        {"primary", "k"},
	"page_down":        {"primary", "pgdown"},
	"page_up":          {"primary", "pgup"},
	"scroll_to_top":    {"primary", "g"},
	"scroll_to_bottom": {"secondary", "g"},
	"yank_last_reply":  {"primary", "y"},
	"yank_event_link":  {"secondary", "y"},
	"attach_image":     {"primary", "i"},

	// Pomodoro widget
	"pomodoro_toggle":      {"primary", "p"},
	"pomodoro_start_pause": {"secondary", "p"},
	"pomodoro_reset":       {"secondary", "r"},

	// Lists (history, categories, quick actions) - normal mode
	"list_down":       {"none", "j"},
	"list_up":         {"none", "k"},
	"list_down_arrow": {"none", "down"},
	"list_up_arrow":   {"none", "up"},
	"list_select":     {"none", "enter"},
	"list_filter":     {"none", "/"},
	"history_delete":  {"none", "d"},
	"list_refresh":    {"primary", "r"},

	// Lists - filter mode (modifier required while typing)
	"list_down_filtered": {"primary", "j"},
	"list_up_filtered":   {"primary", "k"},

	// Category form
	"form_next": {"none", "tab"},
	"form_prev": {"none", "shift+tab"},
	"form_save": {"primary", "enter"},

	// Works in all text inputs
	"clear_input": {"primary", "u"},
}

// DefaultKeybindings returns default configuration
func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Modifiers: ModifierConfig{
			Primary:   "alt",
			Secondary: "alt+shift",
		},
	}
}

// LoadKeybindings loads keybindings from data directory, writing the template on first run
func LoadKeybindings(dataDir string) (*KeyBindingsConfig, error) {
	cfg := DefaultKeybindings()
	keybindingsPath := filepath.Join(dataDir, "keybindings.toml")

	if !FileExists(keybindingsPath) {
		if err := CreateDefaultKeybindings(dataDir); err != nil {
			return nil, fmt.Errorf("failed to create keybindings: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(keybindingsPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse keybindings: %w", err)
	}

	if cfg.Modifiers.Primary == "" {
		cfg.Modifiers.Primary = "alt"
	}
	if cfg.Modifiers.Secondary == "" {
		cfg.Modifiers.Secondary = "alt+shift"
	}

	return cfg, nil
}

func CreateDefaultKeybindings(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	keybindingsPath := filepath.Join(dataDir, "keybindings.toml")
	if FileExists(keybindingsPath) {
		return nil
	}

	if err := os.WriteFile(keybindingsPath, []byte(GenerateKeybindingsTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write keybindings: %w", err)
	}

	return nil
}

func GenerateKeybindingsTemplate() string {
	return `# StarTime Keybindings
# Location: <data_directory>/keybindings.toml

[modifiers]
primary = "alt"          # alt, ctrl, meta, super
secondary = "alt+shift"

# tmux users may prefer:
#   primary = "ctrl"
#   secondary = "ctrl+shift"

[actions]
# Override single actions, for example:
#   history = "ctrl+h"
#   pomodoro_toggle = "ctrl+t"
`
}

func (kb *KeyBindingsConfig) Primary() string {
	if kb.Modifiers.Primary == "" {
		return "alt"
	}
	return kb.Modifiers.Primary
}

func (kb *KeyBindingsConfig) Secondary() string {
	if kb.Modifiers.Secondary == "" {
		return "alt+shift"
	}
	return kb.Modifiers.Secondary
}

// PrimaryKey returns e.g. "alt+s"
func (kb *KeyBindingsConfig) PrimaryKey(key string) string {
	return kb.Primary() + "+" + key
}

// SecondaryKey returns e.g. "alt+S" for a shifted single letter, the way
// terminals report it, and "alt+shift+pgdown" for everything else.
func (kb *KeyBindingsConfig) SecondaryKey(key string) string {
	secondary := kb.Secondary()

	if strings.Contains(strings.ToLower(secondary), "shift") && len(key) == 1 && key[0] >= 'a' && key[0] <= 'z' {
		var mods []string
		for _, part := range strings.Split(secondary, "+") {
			if strings.ToLower(part) != "shift" {
				mods = append(mods, part)
			}
		}
		if len(mods) == 0 {
			return strings.ToUpper(key)
		}
		return strings.Join(mods, "+") + "+" + strings.ToUpper(key)
	}

	return secondary + "+" + key
}

// GetActionKey returns the keybinding for an action, user override first
func (kb *KeyBindingsConfig) GetActionKey(action string) string {
	if override, ok := kb.Actions[action]; ok && override != "" {
		return override
	}

	def, ok := actionRegistry[action]
	if !ok {
		return ""
	}
	switch def.modifier {
	case "primary":
		return kb.PrimaryKey(def.key)
	case "secondary":
		return kb.SecondaryKey(def.key)
	default:
		return def.key
	}
}

// Matches reports whether a key press string triggers the action
func (kb *KeyBindingsConfig) Matches(pressed, action string) bool {
	key := kb.GetActionKey(action)
	return key != "" && pressed == key
}

// DisplayActionKey returns e.g. "Alt+Shift+G" for help text and footers
func (kb *KeyBindingsConfig) DisplayActionKey(action string) string {
	key := kb.GetActionKey(action)
	if key == "" {
		return ""
	}
	return capitalizeKeybinding(key)
}

func capitalizeKeybinding(key string) string {
	parts := strings.Split(key, "+")
	hasShift := false
	for _, p := range parts {
		if strings.ToLower(p) == "shift" {
			hasShift = true
		}
	}

	var result []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		// An uppercase letter after a modifier means shift was held
		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' && !hasShift && i > 0 {
			result = append(result, "Shift")
		}
		result = append(result, strings.ToUpper(part[:1])+part[1:])
	}

	return strings.Join(result, "+")
}

// Validate returns (isValid, warningMessage)
func (kb *KeyBindingsConfig) Validate() (bool, string) {
	primary := kb.Primary()
	secondary := kb.Secondary()

	if primary == "shift" || secondary == "shift" {
		return false, "Shift alone conflicts with typing"
	}

	if strings.Contains(primary, "ctrl") || strings.Contains(secondary, "ctrl") {
		return true, "Warning: Ctrl may conflict with terminal shortcuts (Ctrl+C, Ctrl+Z, Ctrl+D)"
	}

	return true, ""
}
