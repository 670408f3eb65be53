//go:build windows

package sdk

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// DefaultRegistry returns the local machine registry, 32-bit view
func DefaultRegistry() Registry {
	return windowsRegistry{}
}

type windowsRegistry struct{}

func (windowsRegistry) OpenKey(path string) (Key, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path,
		registry.QUERY_VALUE|registry.ENUMERATE_SUB_KEYS|registry.WOW64_32KEY)
	if err != nil {
		return nil, translate(err)
	}
	return windowsKey{k: k}, nil
}

type windowsKey struct {
	k registry.Key
}

func (w windowsKey) GetStringValue(name string) (string, error) {
	val, valtype, err := w.k.GetStringValue(name)
	if err != nil {
		return "", translate(err)
	}
	if valtype == registry.EXPAND_SZ {
		expanded, err := registry.ExpandString(val)
		if err != nil {
			return "", fmt.Errorf("failed to expand %s: %w", name, err)
		}
		return expanded, nil
	}
	return val, nil
}

func (w windowsKey) ReadSubKeyNames() ([]string, error) {
	names, err := w.k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, translate(err)
	}
	return names, nil
}

func (w windowsKey) Close() error {
	return w.k.Close()
}

func translate(err error) error {
	switch {
	case errors.Is(err, registry.ErrNotExist):
		return ErrNotExist
	case errors.Is(err, registry.ErrUnexpectedType):
		return ErrMalformed
	default:
		return err
	}
}
