//go:build windows

package env

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"winsdk/internal/sdk"
)

const (
	HWND_BROADCAST   = 0xFFFF
	WM_SETTINGCHANGE = 0x001A
	SMTO_ABORTIFHUNG = 0x0002
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	sendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
	systemEnvRegPath    = `System\CurrentControlSet\Control\Session Manager\Environment`
)

// SetSdk selects an SDK installation system-wide by writing WindowsSdkDir,
// WindowsSdkVersion and WindowsSdkVerBinPath and putting its tools on Path
func SetSdk(info sdk.Info) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, systemEnvRegPath, registry.SET_VALUE|registry.QUERY_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open registry key (run as administrator): %w", err)
	}
	defer key.Close()

	currentPath, _, err := key.GetStringValue("Path")
	if err != nil {
		return fmt.Errorf("failed to read Path: %w", err)
	}

	oldBinPath, _, err := key.GetStringValue(VarSdkVerBinPath)
	if err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", VarSdkVerBinPath, err)
	}

	vars := Variables(info)
	for _, name := range VariableNames {
		if err := key.SetStringValue(name, vars[name]); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}

	newPath := updatePath(currentPath, oldBinPath, binArch(runtime.GOARCH))
	if err := key.SetExpandStringValue("Path", newPath); err != nil {
		return fmt.Errorf("failed to update Path: %w", err)
	}

	broadcastSettingChange()

	return nil
}

// broadcastSettingChange tells running applications that the environment changed
func broadcastSettingChange() {
	env, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return
	}
	var result uintptr
	sendMessageTimeoutW.Call(
		uintptr(HWND_BROADCAST),
		uintptr(WM_SETTINGCHANGE),
		0,
		uintptr(unsafe.Pointer(env)),
		uintptr(SMTO_ABORTIFHUNG),
		5000,
		uintptr(unsafe.Pointer(&result)),
	)
}

// GetSystemVar returns a variable from the system environment in the registry
func GetSystemVar(name string) (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, systemEnvRegPath, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("failed to open registry key: %w", err)
	}
	defer key.Close()

	value, _, err := key.GetStringValue(name)
	if err != nil {
		return "", fmt.Errorf("%s not set: %w", name, err)
	}

	return value, nil
}

// LookupEnv reads the process environment, falling back to the system
// environment so values set by `winsdk use` are seen before a restart
func LookupEnv(name string) (string, bool) {
	if v, ok := os.LookupEnv(name); ok {
		return v, true
	}
	v, err := GetSystemVar(name)
	if err != nil {
		return "", false
	}
	return v, true
}

// IsAdmin checks if the current process is running with administrator privileges
func IsAdmin() bool {
	var sid *windows.SID

	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	token := windows.Token(0)

	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return member
}
