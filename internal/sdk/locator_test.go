package sdk

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kitsRoot creates a Windows Kits root with the given Include\<version> folders
func kitsRoot(t *testing.T, versions ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, v := range versions {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "Include", v, "um"), 0755))
	}
	return root
}

func newTestLocator(reg Registry, opts ...Option) (*Locator, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	all := append([]Option{WithRegistry(reg), WithLookupEnv(noEnv), WithLogger(logger)}, opts...)
	return NewLocator(all...), hook
}

func TestFindAll_NoInstallations(t *testing.T) {
	reg := newFakeRegistry()
	l, _ := newTestLocator(reg)

	infos, err := l.FindAll()
	require.NoError(t, err)
	require.NotNil(t, infos)
	assert.Empty(t, infos)
}

func TestFindAll_RegistryKitsAndScan(t *testing.T) {
	root10 := kitsRoot(t, "10.0.22621.0", "10.0.19041.0")
	root81 := kitsRoot(t, "shared")
	portable := kitsRoot(t, "10.0.26100.0", "not-a-version")

	reg := newFakeRegistry()
	reg.set(win10KeyPath, map[string]string{
		"InstallationFolder": root10,
		"ProductName":        "Windows Software Development Kit - Windows 10.0.22621.2428",
		"ProductVersion":     "10.0.22621",
	})
	reg.set(win81KeyPath, map[string]string{
		"InstallationFolder": root81,
		"ProductName":        "Windows Software Development Kit for Windows 8.1",
		"ProductVersion":     "8.1.25984",
	})
	reg.set(installedRootsPath, map[string]string{kitsRoot10ValueName: root10})
	reg.set(installedRootsPath+`\10.0.22621.0`, nil)
	reg.set(installedRootsPath+`\10.0.19041.0`, nil)
	// registered but its files are gone
	reg.set(installedRootsPath+`\10.0.17763.0`, nil)

	l, _ := newTestLocator(reg, WithSearchPaths(root10, portable))

	infos, err := l.FindAll()
	require.NoError(t, err)
	require.Len(t, infos, 4)

	assert.Equal(t, Info{InstallationFolder: portable, ProductVersion: "10.0.26100.0", Source: SourceScan}, infos[0])
	assert.Equal(t, Info{
		InstallationFolder: root10,
		ProductName:        "Windows Software Development Kit - Windows 10.0.22621.2428",
		ProductVersion:     "10.0.22621",
		Source:             SourceRegistry,
	}, infos[1])
	assert.Equal(t, Info{InstallationFolder: root10, ProductVersion: "10.0.19041.0", Source: SourceKits}, infos[2])
	assert.Equal(t, "8.1.25984", infos[3].ProductVersion)

	for _, info := range infos {
		assert.NotEmpty(t, info.ProductVersion)
		assert.DirExists(t, info.InstallationFolder)
	}
	assert.Zero(t, reg.openKeys(), "every opened key must be closed")
}

func TestFindAll_MergesEnvironmentWithRegistry(t *testing.T) {
	root := kitsRoot(t, "10.0.22621.0")

	reg := newFakeRegistry()
	reg.set(win10KeyPath, map[string]string{
		"InstallationFolder": root,
		"ProductName":        "Windows Software Development Kit",
		"ProductVersion":     "10.0.22621",
	})

	l, _ := newTestLocator(reg, WithLookupEnv(mapEnv(map[string]string{
		EnvSdkDir:     root,
		EnvSdkVersion: `10.0.22621.0\`,
	})))

	infos, err := l.FindAll()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, SourceEnv, infos[0].Source)
	assert.Equal(t, "Windows Software Development Kit", infos[0].ProductName)
}

func TestFindAll_SkipsMalformedEntries(t *testing.T) {
	good := kitsRoot(t, "shared")

	reg := newFakeRegistry()
	reg.set(win10KeyPath, map[string]string{"InstallationFolder": t.TempDir()})
	bad := reg.set(win81KeyPath, map[string]string{"ProductVersion": "8.1"})
	bad.errs["InstallationFolder"] = ErrMalformed
	reg.set(sdksKeyPath+`\v8.0`, map[string]string{"InstallationFolder": "  ", "ProductVersion": "8.0"})
	reg.set(sdksKeyPath+`\v7.1`, map[string]string{
		"InstallationFolder": good,
		"ProductVersion":     "7.1.51106",
	})
	reg.set(sdksKeyPath+`\ExtensionSDKs`, map[string]string{"InstallationFolder": good})

	l, hook := newTestLocator(reg)

	infos, err := l.FindAll()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "7.1.51106", infos[0].ProductVersion)
	assert.Empty(t, infos[0].ProductName)

	skipped := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.DebugLevel && entry.Data["key"] != nil {
			skipped++
		}
	}
	assert.Equal(t, 3, skipped)
}

func TestFindAll_SkipsFrameworkToolKeys(t *testing.T) {
	root := kitsRoot(t, "10.0.19041.0")
	tools := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tools, "bin", "NETFX 4.8 Tools"), 0755))

	reg := newFakeRegistry()
	reg.set(win10KeyPath, map[string]string{
		"InstallationFolder": root,
		"ProductName":        "Windows Software Development Kit",
		"ProductVersion":     "10.0.19041",
	})
	reg.set(sdksKeyPath+`\v10.0A`, map[string]string{
		"InstallationFolder": tools,
		"ProductName":        "Windows Software Development Kit for Windows 10",
		"ProductVersion":     "10.0.19041",
	})

	l, _ := newTestLocator(reg)

	infos, err := l.FindAll()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, root, infos[0].InstallationFolder)
	assert.True(t, IsKitsRoot(infos[0].InstallationFolder))
}

func TestFindAll_DropsMissingFolders(t *testing.T) {
	reg := newFakeRegistry()
	reg.set(win10KeyPath, map[string]string{
		"InstallationFolder": filepath.Join(t.TempDir(), "uninstalled"),
		"ProductVersion":     "10.0.22000",
	})

	l, _ := newTestLocator(reg)

	infos, err := l.FindAll()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestFindAll_PropagatesRegistryErrors(t *testing.T) {
	denied := errors.New("access is denied")

	tests := []struct {
		name  string
		setup func(reg *fakeRegistry)
		want  error
	}{
		{
			name: "sdks key",
			setup: func(reg *fakeRegistry) {
				reg.openErrs[sdksKeyPath] = denied
			},
			want: denied,
		},
		{
			name: "version subkey",
			setup: func(reg *fakeRegistry) {
				reg.set(win10KeyPath, nil)
				reg.openErrs[win10KeyPath] = denied
			},
			want: denied,
		},
		{
			name: "value read",
			setup: func(reg *fakeRegistry) {
				k := reg.set(win10KeyPath, nil)
				k.errs["InstallationFolder"] = denied
			},
			want: denied,
		},
		{
			name: "installed roots",
			setup: func(reg *fakeRegistry) {
				reg.openErrs[installedRootsPath] = denied
			},
			want: denied,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := newFakeRegistry()
			tc.setup(reg)
			l, _ := newTestLocator(reg)

			infos, err := l.FindAll()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, infos)
		})
	}
}

func TestFindAll_UnsupportedPlatform(t *testing.T) {
	l, _ := newTestLocator(unsupportedTestRegistry{})

	_, err := l.FindAll()
	assert.ErrorIs(t, err, ErrUnsupported)
}

type unsupportedTestRegistry struct{}

func (unsupportedTestRegistry) OpenKey(string) (Key, error) {
	return nil, ErrUnsupported
}

func TestFindAll_Idempotent(t *testing.T) {
	root := kitsRoot(t, "10.0.22621.0", "10.0.22000.0")
	reg := newFakeRegistry()
	reg.set(installedRootsPath, map[string]string{kitsRoot10ValueName: root})
	reg.set(installedRootsPath+`\10.0.22621.0`, nil)

	l, _ := newTestLocator(reg, WithSearchPaths(root))

	first, err := l.FindAll()
	require.NoError(t, err)
	second, err := l.FindAll()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
	assert.DirExists(t, filepath.Join(root, "Include", "10.0.22000.0"))
}

func TestFindAtLeast(t *testing.T) {
	root := kitsRoot(t, "10.0.17763.0", "10.0.19041.0", "10.0.22621.0")
	l, _ := newTestLocator(newFakeRegistry(), WithSearchPaths(root))

	infos, err := l.FindAtLeast("10.0.19041")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "10.0.22621.0", infos[0].ProductVersion)
	assert.Equal(t, "10.0.19041.0", infos[1].ProductVersion)

	_, err = l.FindAtLeast("latest")
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestAny(t *testing.T) {
	root10 := t.TempDir()
	root81 := t.TempDir()

	win10 := map[string]string{"InstallationFolder": root10, "ProductVersion": "10.0.22621"}
	win81 := map[string]string{"InstallationFolder": root81, "ProductVersion": "8.1.25984"}
	env := map[string]string{EnvSdkDir: `D:\kits\10\`, EnvSdkVersion: `10.0.26100.0\`}

	tests := []struct {
		name        string
		env         map[string]string
		keys        map[string]map[string]string
		wantVersion string
		wantSource  Source
	}{
		{
			name:        "environment first",
			env:         env,
			keys:        map[string]map[string]string{win10KeyPath: win10},
			wantVersion: "10.0.26100",
			wantSource:  SourceEnv,
		},
		{
			name:        "windows 10 before 8.1",
			keys:        map[string]map[string]string{win10KeyPath: win10, win81KeyPath: win81},
			wantVersion: "10.0.22621",
			wantSource:  SourceRegistry,
		},
		{
			name:        "windows 8.1 fallback",
			keys:        map[string]map[string]string{win81KeyPath: win81},
			wantVersion: "8.1.25984",
			wantSource:  SourceRegistry,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := newFakeRegistry()
			for path, values := range tc.keys {
				reg.set(path, values)
			}
			l, _ := newTestLocator(reg, WithLookupEnv(mapEnv(tc.env)))

			info, err := l.Any()
			require.NoError(t, err)
			require.NotNil(t, info)
			assert.Equal(t, tc.wantVersion, info.ProductVersion)
			assert.Equal(t, tc.wantSource, info.Source)
		})
	}

	t.Run("nothing installed", func(t *testing.T) {
		l, _ := newTestLocator(newFakeRegistry())
		info, err := l.Any()
		require.NoError(t, err)
		assert.Nil(t, info)
	})
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want *Info
	}{
		{
			name: "developer prompt",
			env:  map[string]string{EnvSdkDir: `C:\Program Files (x86)\Windows Kits\10\`, EnvSdkVersion: `10.0.22621.0\`},
			want: &Info{InstallationFolder: `C:\Program Files (x86)\Windows Kits\10\`, ProductVersion: "10.0.22621", Source: SourceEnv},
		},
		{
			name: "version without trailing zero",
			env:  map[string]string{EnvSdkDir: `C:\sdk`, EnvSdkVersion: `8.1\`},
			want: &Info{InstallationFolder: `C:\sdk`, ProductVersion: "8.1", Source: SourceEnv},
		},
		{
			name: "missing version",
			env:  map[string]string{EnvSdkDir: `C:\sdk`},
		},
		{
			name: "missing dir",
			env:  map[string]string{EnvSdkVersion: `10.0.22621.0\`},
		},
		{
			name: "empty dir",
			env:  map[string]string{EnvSdkDir: " ", EnvSdkVersion: `10.0.22621.0\`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, _ := newTestLocator(newFakeRegistry(), WithLookupEnv(mapEnv(tc.env)))
			assert.Equal(t, tc.want, l.FromEnv())
		})
	}
}

func TestSearchPaths(t *testing.T) {
	l := NewLocator(WithSearchPaths(`D:\kits\10`))
	paths := l.SearchPaths()
	assert.Equal(t, append(slices.Clone(StandardSearchPaths), `D:\kits\10`), paths)

	paths[0] = "changed"
	assert.NotEqual(t, "changed", l.SearchPaths()[0])
}

func TestIsKitsRoot(t *testing.T) {
	assert.True(t, IsKitsRoot(kitsRoot(t, "10.0.22621.0")))
	assert.False(t, IsKitsRoot(t.TempDir()))
	assert.False(t, IsKitsRoot(filepath.Join(t.TempDir(), "missing")))
}
