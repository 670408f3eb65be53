package sdk

import (
	"path/filepath"
	"strings"
)

// Source identifies where an installation record was found
type Source string

const (
	SourceEnv      Source = "env"      // WindowsSdkDir / WindowsSdkVersion
	SourceRegistry Source = "registry" // Microsoft SDKs\Windows\v*
	SourceKits     Source = "kits"     // Windows Kits\Installed Roots
	SourceScan     Source = "scan"     // Include\<version> under a search root
)

// Info describes a Windows SDK installation
type Info struct {
	InstallationFolder string `json:"InstallationFolder"`
	ProductName        string `json:"ProductName,omitempty"`
	ProductVersion     string `json:"ProductVersion"`
	Source             Source `json:"Source"`
}

// Exists reports whether the installation folder is present on disk
func (i Info) Exists() bool {
	return isDir(i.InstallationFolder)
}

// DisplayName returns the product name, or a name derived from the version
func (i Info) DisplayName() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	return "Windows SDK " + i.ProductVersion
}

// SameInstallation reports whether two records describe the same installation:
// same folder, ignoring case, and the same version ignoring trailing zero segments
func SameInstallation(a, b Info) bool {
	return folderKey(a.InstallationFolder) == folderKey(b.InstallationFolder) &&
		SameVersion(a.ProductVersion, b.ProductVersion)
}

func folderKey(path string) string {
	return strings.ToLower(filepath.Clean(strings.TrimRight(path, `\/`)))
}
