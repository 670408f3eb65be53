package sdk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// StandardSearchPaths are the Windows Kits roots scanned for Include\<version> folders
var StandardSearchPaths = []string{
	`C:\Program Files (x86)\Windows Kits\10`,
	`C:\Program Files\Windows Kits\10`,
}

// Locator finds Windows SDK installations on the system
type Locator struct {
	registry    Registry
	lookupEnv   func(string) (string, bool)
	searchPaths []string
	log         logrus.FieldLogger
}

// Option configures a Locator
type Option func(*Locator)

// WithRegistry replaces the registry the locator reads from
func WithRegistry(r Registry) Option {
	return func(l *Locator) {
		l.registry = r
	}
}

// WithLookupEnv replaces the environment lookup (os.LookupEnv by default)
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(l *Locator) {
		l.lookupEnv = fn
	}
}

// WithSearchPaths adds Windows Kits roots to scan after the standard ones
func WithSearchPaths(paths ...string) Option {
	return func(l *Locator) {
		l.searchPaths = append(l.searchPaths, paths...)
	}
}

// WithLogger sets the logger used for diagnostics
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Locator) {
		l.log = log
	}
}

// NewLocator creates a new Windows SDK locator
func NewLocator(opts ...Option) *Locator {
	l := &Locator{
		registry:    DefaultRegistry(),
		lookupEnv:   os.LookupEnv,
		searchPaths: slices.Clone(StandardSearchPaths),
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SearchPaths returns the Windows Kits roots the locator scans
func (l *Locator) SearchPaths() []string {
	return slices.Clone(l.searchPaths)
}

// Any returns the first installation found, trying in order the environment,
// the Windows 10 SDK and the Windows 8.1 SDK. It returns nil if none is installed.
func (l *Locator) Any() (*Info, error) {
	if info := l.FromEnv(); info != nil {
		return info, nil
	}

	info, err := l.Win10()
	if err != nil || info != nil {
		return info, err
	}

	return l.Win81()
}

// FromEnv returns the installation described by WindowsSdkDir and WindowsSdkVersion,
// or nil unless both are set
func (l *Locator) FromEnv() *Info {
	dir, ok := l.lookupEnv(EnvSdkDir)
	if !ok || strings.TrimSpace(dir) == "" {
		return nil
	}
	raw, ok := l.lookupEnv(EnvSdkVersion)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	return &Info{
		InstallationFolder: dir,
		ProductVersion:     parseEnvVersion(raw),
		Source:             SourceEnv,
	}
}

// Win10 returns the Windows 10 SDK installation, if present
func (l *Locator) Win10() (*Info, error) {
	return l.readInfo(win10KeyPath)
}

// Win81 returns the Windows 8.1 SDK installation, if present
func (l *Locator) Win81() (*Info, error) {
	return l.readInfo(win81KeyPath)
}

// FindAll returns every installed SDK, newest first. Records whose folder is
// missing on disk are dropped and duplicates reported by several sources are merged.
func (l *Locator) FindAll() ([]Info, error) {
	found := make([]Info, 0)

	if info := l.FromEnv(); info != nil {
		found = append(found, *info)
	}

	registered, err := l.fromSdksKey()
	if err != nil {
		return nil, err
	}
	found = append(found, registered...)

	kits, err := l.fromInstalledRoots()
	if err != nil {
		return nil, err
	}
	found = append(found, kits...)

	for _, root := range l.searchPaths {
		found = append(found, l.scanRoot(root)...)
	}

	return l.collect(found), nil
}

// FindAtLeast returns the installations whose version is at least min
func (l *Locator) FindAtLeast(min string) ([]Info, error) {
	bound, err := ParseVersion(min)
	if err != nil {
		return nil, err
	}

	all, err := l.FindAll()
	if err != nil {
		return nil, err
	}

	return lo.Filter(all, func(info Info, _ int) bool {
		return AtLeast(info.ProductVersion, bound)
	}), nil
}

// readInfo decodes a Microsoft SDKs\Windows\v* key. A missing key yields nil,
// as does a malformed one.
func (l *Locator) readInfo(path string) (*Info, error) {
	key, err := l.registry.OpenKey(path)
	if errors.Is(err, ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open registry key %s: %w", path, err)
	}
	defer key.Close()

	log := l.log.WithField("key", path)

	folder, err := key.GetStringValue("InstallationFolder")
	if isSkippable(err) || (err == nil && strings.TrimSpace(folder) == "") {
		log.WithError(err).Debug("Skipping SDK entry without InstallationFolder")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read InstallationFolder from %s: %w", path, err)
	}

	version, err := key.GetStringValue("ProductVersion")
	if isSkippable(err) || (err == nil && strings.TrimSpace(version) == "") {
		log.WithError(err).Debug("Skipping SDK entry without ProductVersion")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ProductVersion from %s: %w", path, err)
	}

	name, err := key.GetStringValue("ProductName")
	if err != nil && !isSkippable(err) {
		return nil, fmt.Errorf("failed to read ProductName from %s: %w", path, err)
	}

	return &Info{
		InstallationFolder: folder,
		ProductName:        strings.TrimSpace(name),
		ProductVersion:     strings.TrimSpace(version),
		Source:             SourceRegistry,
	}, nil
}

// fromSdksKey reads every v* subkey of Microsoft SDKs\Windows whose folder is a kits root
func (l *Locator) fromSdksKey() ([]Info, error) {
	names, err := l.subKeyNames(sdksKeyPath)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		if !strings.HasPrefix(strings.ToLower(name), "v") {
			continue
		}
		path := sdksKeyPath + `\` + name
		info, err := l.readInfo(path)
		if err != nil {
			return nil, err
		}
		if info == nil {
			continue
		}
		// v*A keys describe .NET Framework tools, which ship no headers
		if !IsKitsRoot(info.InstallationFolder) {
			l.log.WithField("key", path).Debug("Skipping SDK entry without an Include folder")
			continue
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// fromInstalledRoots lists the versions registered under Windows Kits\Installed Roots
// that have an Include folder below KitsRoot10
func (l *Locator) fromInstalledRoots() ([]Info, error) {
	key, err := l.registry.OpenKey(installedRootsPath)
	if errors.Is(err, ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open registry key %s: %w", installedRootsPath, err)
	}
	defer key.Close()

	root, err := key.GetStringValue(kitsRoot10ValueName)
	if isSkippable(err) || (err == nil && strings.TrimSpace(root) == "") {
		l.log.WithError(err).Debug("Installed Roots has no KitsRoot10")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kitsRoot10ValueName, err)
	}

	names, err := key.ReadSubKeyNames()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", installedRootsPath, err)
	}

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		if !isKitsVersion(name) {
			continue
		}
		if !isDir(filepath.Join(root, "Include", name)) {
			l.log.WithField("version", name).Debug("Registered kit has no Include folder")
			continue
		}
		infos = append(infos, Info{
			InstallationFolder: root,
			ProductVersion:     name,
			Source:             SourceKits,
		})
	}
	return infos, nil
}

// scanRoot lists the Include\<version> folders below a Windows Kits root
func (l *Locator) scanRoot(root string) []Info {
	entries, err := os.ReadDir(filepath.Join(root, "Include"))
	if err != nil {
		return nil
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !isKitsVersion(entry.Name()) {
			continue
		}
		infos = append(infos, Info{
			InstallationFolder: filepath.Clean(root),
			ProductVersion:     entry.Name(),
			Source:             SourceScan,
		})
	}
	return infos
}

func (l *Locator) subKeyNames(path string) ([]string, error) {
	key, err := l.registry.OpenKey(path)
	if errors.Is(err, ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open registry key %s: %w", path, err)
	}
	defer key.Close()

	names, err := key.ReadSubKeyNames()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", path, err)
	}
	slices.Sort(names)
	return names, nil
}

// collect drops stale records, merges duplicates and sorts newest first
func (l *Locator) collect(found []Info) []Info {
	present := lo.Filter(found, func(info Info, _ int) bool {
		if info.Exists() {
			return true
		}
		l.log.WithFields(logrus.Fields{
			"folder":  info.InstallationFolder,
			"version": info.ProductVersion,
			"source":  info.Source,
		}).Debug("Dropping SDK record whose folder does not exist")
		return false
	})

	merged := make([]Info, 0, len(present))
	for _, info := range present {
		idx := slices.IndexFunc(merged, func(m Info) bool {
			return SameInstallation(m, info)
		})
		if idx < 0 {
			merged = append(merged, info)
			continue
		}
		if merged[idx].ProductName == "" {
			merged[idx].ProductName = info.ProductName
		}
	}

	slices.SortStableFunc(merged, func(a, b Info) int {
		if c := CompareVersions(b.ProductVersion, a.ProductVersion); c != 0 {
			return c
		}
		return strings.Compare(folderKey(a.InstallationFolder), folderKey(b.InstallationFolder))
	})
	return merged
}

func isSkippable(err error) bool {
	return errors.Is(err, ErrNotExist) || errors.Is(err, ErrMalformed)
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// IsKitsRoot reports whether path looks like a Windows Kits root, i.e. has an Include folder
func IsKitsRoot(path string) bool {
	return isDir(filepath.Join(path, "Include"))
}
