package sdk

import "strings"

const (
	EnvSdkDir     = "WindowsSdkDir"
	EnvSdkVersion = "WindowsSdkVersion"
)

// parseEnvVersion turns a WindowsSdkVersion value like `10.0.22621.0\` into "10.0.22621"
func parseEnvVersion(raw string) string {
	ver, _, _ := strings.Cut(raw, `.0\`)
	return strings.TrimRight(strings.TrimSpace(ver), `\`)
}

// EnvVersion renders the WindowsSdkVersion value for an installation, the form
// the Visual Studio developer prompt uses (four segments and a trailing backslash)
func EnvVersion(info Info) string {
	ver := strings.TrimSpace(info.ProductVersion)
	if n := strings.Count(ver, "."); n < 3 {
		ver += strings.Repeat(".0", 3-n)
	}
	return ver + `\`
}

// EnvDir renders the WindowsSdkDir value, which always ends with a backslash
func EnvDir(info Info) string {
	return strings.TrimRight(strings.TrimSpace(info.InstallationFolder), `\/`) + `\`
}
