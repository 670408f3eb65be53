//go:build !windows

package env

import (
	"os"

	"winsdk/internal/sdk"
)

// SetSdk is not available outside Windows
func SetSdk(info sdk.Info) error {
	return ErrUnsupported
}

// GetSystemVar is not available outside Windows
func GetSystemVar(name string) (string, error) {
	return "", ErrUnsupported
}

// LookupEnv reads the process environment
func LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// IsAdmin always reports false outside Windows
func IsAdmin() bool {
	return false
}
