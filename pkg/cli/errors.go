package cli

import (
	"errors"
	"fmt"

	"sweepworks/pagesweep/pkg/config"
)

// Exit codes returned by the pagesweep binary.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
)

// configHints says where a config key is set, keyed by the dotted yaml path
// NewConfigError receives.
var configHints = map[string]string{
	"file":                       "pass --config or create pagesweep.yaml in the working directory",
	"output":                     "use --output text|json or set run.output",
	"retention":                  "preview_keep and production_keep must be >= 0 (PAGESWEEP_RETENTION_PREVIEW_KEEP, PAGESWEEP_RETENTION_PRODUCTION_KEEP)",
	"retention.mode":             "set retention.mode or PAGESWEEP_RETENTION_MODE to preview, production or all",
	"branches.source":            "set branches.source or PAGESWEEP_BRANCHES_SOURCE to github or git",
	"branches.github.repository": "set branches.github.repository or GITHUB_REPOSITORY as owner/name",
	"branches.git":               "check branches.git.url and branches.git.auth (PAGESWEEP_GIT_URL, PAGESWEEP_GIT_AUTH_TYPE)",
	"telemetry":                  "inspect the telemetry section with pagesweep validate --show",
	"telemetry.logging":          "set telemetry.logging.level (debug, info, warn, error) and telemetry.logging.format (text, json)",
}

// ConfigError represents an error in configuration. Field is the dotted
// yaml key at fault.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// Hint returns a line naming the config key or environment variable that
// fixes the error, or "" for keys without one.
func (e *ConfigError) Hint() string {
	return configHints[e.Field]
}

// Hint returns the fix hint of the first ConfigError in err's chain.
func Hint(err error) string {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Hint()
	}
	return ""
}

// CommandError wraps the failure of a pagesweep subcommand. Config errors
// inside it keep their exit code.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	var validationErr config.ValidationError
	if errors.As(err, &cfgErr) || errors.As(err, &validationErr) {
		return ExitConfigError
	}
	return ExitFailure
}
