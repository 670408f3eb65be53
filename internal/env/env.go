package env

import (
	"errors"
	"strings"

	"winsdk/internal/sdk"
)

// ErrUnsupported is returned when the system environment cannot be changed on this platform
var ErrUnsupported = errors.New("system environment changes are only supported on Windows")

const (
	// VarSdkVerBinPath points at the versioned bin folder of the active SDK
	VarSdkVerBinPath = "WindowsSdkVerBinPath"

	binPathRef = "%" + VarSdkVerBinPath + "%"
)

// VariableNames lists the variables written by SetSdk, in write order
var VariableNames = []string{sdk.EnvSdkDir, sdk.EnvSdkVersion, VarSdkVerBinPath}

// Variables returns the system environment variables that select an SDK installation
func Variables(info sdk.Info) map[string]string {
	dir := sdk.EnvDir(info)
	version := sdk.EnvVersion(info)
	return map[string]string{
		sdk.EnvSdkDir:     dir,
		sdk.EnvSdkVersion: version,
		VarSdkVerBinPath:  dir + `bin\` + version,
	}
}

// GetSdkDir returns WindowsSdkDir from the system environment
func GetSdkDir() (string, error) {
	return GetSystemVar(sdk.EnvSdkDir)
}

// GetSdkVersion returns WindowsSdkVersion from the system environment
func GetSdkVersion() (string, error) {
	return GetSystemVar(sdk.EnvSdkVersion)
}

// binArch maps a GOARCH to the folder name the SDK uses below bin\<version>
func binArch(goarch string) string {
	switch goarch {
	case "386":
		return "x86"
	case "arm64":
		return "arm64"
	case "arm":
		return "arm"
	default:
		return "x64"
	}
}

// updatePath rewrites Path so that the SDK tools for arch come first, dropping
// entries that point into the previously selected bin folder
func updatePath(currentPath, oldBinPath, arch string) string {
	entries := strings.Split(currentPath, ";")
	kept := make([]string, 0, len(entries)+1)
	oldBinPath = strings.ToLower(strings.TrimRight(oldBinPath, `\`))

	for _, p := range entries {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		lower := strings.ToLower(p)
		if strings.Contains(lower, strings.ToLower(binPathRef)) {
			continue
		}
		if oldBinPath != "" && strings.HasPrefix(lower, oldBinPath) {
			continue
		}

		kept = append(kept, p)
	}

	return strings.Join(append([]string{binPathRef + arch}, kept...), ";")
}
