package keybinds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/natefinch/atomic"
	"github.com/tidwall/jsonc"
)

// Config represents the user's keybinding configuration. Each section maps
// an action name to a comma separated list of keys, e.g.
//
//	"browsing": { "next_post": "j,down" }
//
// Comments and trailing commas are accepted.
type Config struct {
	Version  string            `json:"version"`
	Global   map[string]string `json:"global,omitempty"`
	Browsing map[string]string `json:"browsing,omitempty"`
	Compose  map[string]string `json:"compose,omitempty"`
	Help     map[string]string `json:"help,omitempty"`
	PollVote map[string]string `json:"poll_vote,omitempty"`
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:   c.Global,
		ContextBrowsing: c.Browsing,
		ContextCompose:  c.Compose,
		ContextHelp:     c.Help,
		ContextPollVote: c.PollVote,
	}
}

// LoadConfig loads keybinding configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return atomic.WriteFile(path, bytes.NewReader(append(data, '\n')))
}

// SplitKeys parses a comma separated key list
func SplitKeys(keys string) []string {
	var out []string
	for _, k := range strings.Split(keys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// ApplyConfig applies user configuration to a registry
// User bindings replace the default keys of the actions they name
func ApplyConfig(registry *Registry, config *Config) error {
	for context, bindings := range config.sections() {
		for actionStr, keys := range bindings {
			action := Action(actionStr)
			if !IsKnownAction(action) {
				return fmt.Errorf("unknown action '%s' in context '%s'", actionStr, context)
			}
			for _, key := range SplitKeys(keys) {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("action '%s' in context '%s': %w", actionStr, context, err)
				}
			}

			registry.Unbind(context, action)
			registry.RegisterMultiple(context, SplitKeys(keys), action)
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	// Start with defaults
	registry := NewDefaultRegistry()

	// Try to load user config
	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		// Apply user config over defaults
		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}
	// If config doesn't exist, that's fine - use defaults

	return registry, nil
}

// ExportDefaults exports default keybindings as a config file
// Useful for users to see what can be customized
func ExportDefaults() *Config {
	return ExportRegistry(NewDefaultRegistry())
}

// ExportRegistry converts a registry back to the config layout
func ExportRegistry(r *Registry) *Config {
	config := &Config{Version: "1.0"}
	export := func(context Context) map[string]string {
		byAction := make(map[Action][]string)
		for key, action := range r.bindings[context] {
			byAction[action] = append(byAction[action], key)
		}
		if len(byAction) == 0 {
			return nil
		}
		out := make(map[string]string, len(byAction))
		for action, keys := range byAction {
			sort.Strings(keys)
			out[string(action)] = strings.Join(keys, ",")
		}
		return out
	}

	config.Global = export(ContextGlobal)
	config.Browsing = export(ContextBrowsing)
	config.Compose = export(ContextCompose)
	config.Help = export(ContextHelp)
	config.PollVote = export(ContextPollVote)
	return config
}

// GetDefaultConfigPath returns the default path for keybinds.json
func GetDefaultConfigPath() (string, error) {
	return xdg.ConfigFile("orgsocial/keybinds.json")
}

// CreateExampleConfig writes the default bindings to path
func CreateExampleConfig(path string) error {
	return SaveConfig(ExportDefaults(), path)
}
