package sdk

import "errors"

var (
	// ErrNotExist is returned when a registry key or value is missing
	ErrNotExist = errors.New("registry key or value does not exist")

	// ErrMalformed is returned when a registry value has an unexpected type
	ErrMalformed = errors.New("registry value has an unexpected type")

	// ErrUnsupported is returned on platforms without a Windows registry
	ErrUnsupported = errors.New("the Windows registry is only available on Windows")
)

// Registry opens keys under HKEY_LOCAL_MACHINE for reading
type Registry interface {
	OpenKey(path string) (Key, error)
}

// Key is an open, read-only registry key
type Key interface {
	// GetStringValue returns a REG_SZ or expanded REG_EXPAND_SZ value
	GetStringValue(name string) (string, error)
	ReadSubKeyNames() ([]string, error)
	Close() error
}

const (
	sdksKeyPath         = `SOFTWARE\Microsoft\Microsoft SDKs\Windows`
	win10KeyPath        = sdksKeyPath + `\v10.0`
	win81KeyPath        = sdksKeyPath + `\v8.1`
	installedRootsPath  = `SOFTWARE\Microsoft\Windows Kits\Installed Roots`
	kitsRoot10ValueName = "KitsRoot10"
)
