// Package updater keeps the winsdk binary current with its GitHub releases.
package updater

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/sirupsen/logrus"

	"winsdk/internal/config"
)

const (
	// GitHubRepo is the repository winsdk releases are published to
	GitHubRepo = "winsdk-dev/winsdk"

	// CheckInterval rate-limits background checks
	CheckInterval = 24 * time.Hour

	// UpdateTimeout bounds an interactive `winsdk update`
	UpdateTimeout = 5 * time.Minute

	checksumFile = "SHA256SUMS.txt"
	devVersion   = "dev"
)

// ErrNoReleases is returned when the repository has no release for this platform
var ErrNoReleases = errors.New("no releases found")

// Updater checks for and applies winsdk releases
type Updater struct {
	config  *config.Config
	version string
	source  *selfupdate.Updater
	log     logrus.FieldLogger
}

// NewUpdater creates an Updater for the running version. Release assets are
// verified against the SHA256SUMS.txt file published with each release.
func NewUpdater(cfg *config.Config, version string, log logrus.FieldLogger) (*Updater, error) {
	source, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: checksumFile},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	return &Updater{
		config:  cfg,
		version: strings.TrimPrefix(strings.TrimSpace(version), "v"),
		source:  source,
		log:     log,
	}, nil
}

// ShouldCheckForUpdate reports whether a background check is due
func (u *Updater) ShouldCheckForUpdate() bool {
	settings := u.config.UpdateConfig
	switch {
	case !settings.Enabled, !settings.AutoCheck:
		return false
	case u.version == devVersion:
		// local builds have nothing to compare against
		return false
	default:
		return time.Since(settings.LastCheck) >= CheckInterval
	}
}

// CheckForUpdate returns the latest release when it is newer than the running
// version and was not skipped, nil otherwise. The check time is recorded.
func (u *Updater) CheckForUpdate(ctx context.Context) (*selfupdate.Release, error) {
	latest, found, err := u.source.DetectLatest(ctx, selfupdate.ParseSlug(GitHubRepo))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, ErrNoReleases
	}

	u.recordCheck(time.Now())

	log := u.log.WithFields(logrus.Fields{"current": u.version, "latest": latest.Version()})
	if !u.isNewer(latest) {
		log.Debug("winsdk is up to date")
		return nil, nil
	}
	if u.config.UpdateConfig.SkipVersion == latest.Version() {
		log.Debug("Latest release was skipped")
		return nil, nil
	}

	return latest, nil
}

// PerformUpdate replaces the running executable with the release asset.
// The previous binary is restored if the swap fails.
func (u *Updater) PerformUpdate(ctx context.Context, release *selfupdate.Release) error {
	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}

	u.log.WithFields(logrus.Fields{"asset": release.AssetName, "path": exe}).Debug("Applying update")
	if err := selfupdate.UpdateTo(ctx, release.AssetURL, release.AssetName, exe); err != nil {
		return fmt.Errorf("failed to install %s: %w", release.Version(), err)
	}
	return nil
}

// SkipVersion stops notifications for version
func (u *Updater) SkipVersion(version string) error {
	u.config.UpdateConfig.SkipVersion = version
	return u.config.Save()
}

func (u *Updater) isNewer(release *selfupdate.Release) bool {
	return !release.LessOrEqual(u.version)
}

func (u *Updater) recordCheck(at time.Time) {
	u.config.UpdateConfig.LastCheck = at
	if err := u.config.Save(); err != nil {
		u.log.WithError(err).Warn("Failed to record update check time")
	}
}
