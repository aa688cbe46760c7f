package config

import "fmt"

// MissingFieldError reports a required configuration field that is
// absent after merging flags, environment, and the config file.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required configuration field %q (set a flag, a CENTRIC_* environment variable, or the config file)", e.Field)
}
