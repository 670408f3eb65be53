//go:build !windows

package sdk

// DefaultRegistry returns a registry that fails every open on non-Windows platforms
func DefaultRegistry() Registry {
	return unsupportedRegistry{}
}

type unsupportedRegistry struct{}

func (unsupportedRegistry) OpenKey(path string) (Key, error) {
	return nil, ErrUnsupported
}
