package discord

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidExtensionName = errors.New("invalid extension name")

// ExtensionNotFoundError is returned for a name that is not in the registry.
type ExtensionNotFoundError struct {
	Name string
}

func (e *ExtensionNotFoundError) Error() string {
	return fmt.Sprintf("Extension %q could not be found.", e.Name)
}

type ExtensionAlreadyLoadedError struct {
	Name string
}

func (e *ExtensionAlreadyLoadedError) Error() string {
	return fmt.Sprintf("Extension %q is already loaded.", e.Name)
}

type ExtensionNotLoadedError struct {
	Name string
}

func (e *ExtensionNotLoadedError) Error() string {
	return fmt.Sprintf("Extension %q has not been loaded.", e.Name)
}

// ExtensionFailedError wraps an error raised while constructing or
// registering an extension.
type ExtensionFailedError struct {
	Name string
	Err  error
}

func (e *ExtensionFailedError) Error() string {
	return fmt.Sprintf("Extension %q raised an error: %s: %v", e.Name, typeName(e.Err), e.Err)
}

func (e *ExtensionFailedError) Unwrap() error { return e.Err }

// typeName is the bare type name of err, e.g. ExtensionFailedError.
func typeName(err error) string {
	name := fmt.Sprintf("%T", err)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
