package setup

import "fmt"

// MissingSettingError reports a configuration value a component cannot
// start without.
type MissingSettingError struct {
	Setting string
}

func (e MissingSettingError) Error() string {
	return fmt.Sprintf("setting %q not configured", e.Setting)
}

func NewMissingSettingError(s string) *MissingSettingError {
	return &MissingSettingError{
		Setting: s,
	}
}
