package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "conflict", "invalid", "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator validates keybinding configurations
type Validator struct {
	// reservedKeys are keys that should not be rebound
	reservedKeys map[string]bool

	// contextHierarchy defines context inheritance
	contextHierarchy map[Context]Context
}

// NewValidator creates a new keybinding validator
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]bool{
			"ctrl+c": true, // Force quit should always work
		},
		contextHierarchy: map[Context]Context{
			ContextBrowsing: ContextGlobal,
			ContextCompose:  ContextGlobal,
			ContextHelp:     ContextGlobal,
			ContextPollVote: ContextGlobal,
		},
	}
}

// ValidateRegistry validates an entire registry
func (v *Validator) ValidateRegistry(registry *Registry) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	// Check for conflicts with reserved keys
	v.checkReservedKeys(registry, result)

	// Check for shadowing (context-specific binding hiding global binding)
	v.checkShadowing(registry, result)

	return result
}

// ValidateConfig validates a configuration before applying it. Conflicts are
// keys claimed by two actions of the same section.
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	for context, bindings := range config.sections() {
		v.checkConfigSection(context, bindings, result)
	}
	if result.HasErrors() {
		sortValidationErrors(result.Errors)
		return result
	}

	// Validate the merged registry
	registry := NewDefaultRegistry()
	if err := ApplyConfig(registry, config); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Type:    "invalid",
			Message: err.Error(),
		})
		return result
	}

	merged := v.ValidateRegistry(registry)
	result.Warnings = append(result.Warnings, merged.Warnings...)
	sortValidationErrors(result.Warnings)
	return result
}

func (v *Validator) checkConfigSection(context Context, bindings map[string]string, result *ValidationResult) {
	claimed := make(map[string]string)

	actions := make([]string, 0, len(bindings))
	for action := range bindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	for _, actionStr := range actions {
		if err := ValidateAction(actionStr); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Type:    "invalid",
				Context: context,
				Message: err.Error(),
			})
			continue
		}
		for _, key := range SplitKeys(bindings[actionStr]) {
			if err := ValidateKey(key); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "invalid",
					Context: context,
					Key:     key,
					Message: err.Error(),
				})
				continue
			}
			if other, ok := claimed[key]; ok && other != actionStr {
				result.Errors = append(result.Errors, ValidationError{
					Type:    "conflict",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("bound to both %s and %s", other, actionStr),
				})
				continue
			}
			claimed[key] = actionStr
		}
	}
}

// checkReservedKeys checks if any reserved keys have been rebound
func (v *Validator) checkReservedKeys(registry *Registry, result *ValidationResult) {
	for context, bindings := range registry.bindings {
		for key, action := range bindings {
			// Only the global binding is protected
			if context == ContextGlobal && v.reservedKeys[key] && action != ActionQuitForce {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: "reserved key rebound (may cause issues)",
				})
			}
		}
	}
}

// checkShadowing checks for context-specific bindings that shadow global bindings
func (v *Validator) checkShadowing(registry *Registry, result *ValidationResult) {
	for context, bindings := range registry.bindings {
		parent, ok := v.contextHierarchy[context]
		if !ok {
			continue
		}
		parentBindings := registry.bindings[parent]

		for key, action := range bindings {
			if parentAction, has := parentBindings[key]; has && action != parentAction {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:    "warning",
					Context: context,
					Key:     key,
					Message: fmt.Sprintf("shadows %s binding (%s -> %s)", parent, parentAction, action),
				})
			}
		}
	}
}

func sortValidationErrors(errs []ValidationError) {
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Context != errs[j].Context {
			return errs[i].Context < errs[j].Context
		}
		return errs[i].Key < errs[j].Key
	})
}

// FindConflicts finds all conflicting keybindings in a config
func FindConflicts(config *Config) []string {
	validator := NewValidator()
	result := validator.ValidateConfig(config)

	var conflicts []string
	for _, err := range result.Errors {
		if err.Type == "conflict" {
			conflicts = append(conflicts, err.Error())
		}
	}

	return conflicts
}

// ValidateKey checks if a key string is valid
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	// Check for valid modifier combinations
	validModifiers := []string{"ctrl+", "alt+", "shift+", "super+"}
	for _, mod := range validModifiers {
		if key == mod {
			return fmt.Errorf("modifier without key: %s", key)
		}
	}

	return nil
}

// ValidateAction checks if an action string names a known action
func ValidateAction(actionStr string) error {
	if actionStr == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if !IsKnownAction(Action(actionStr)) {
		return fmt.Errorf("unknown action: %s", actionStr)
	}
	return nil
}
