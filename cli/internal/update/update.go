// Package update checks whether a newer sqlstash release exists.
package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/sqlstash/cli/internal/ui"
)

const releaseURL = "https://api.github.com/repos/satishbabariya/sqlstash/releases/latest"

// CheckForUpdates compares the running version against the latest
// published release and prints a notice when an update is available.
// Network failures are reported, not fatal.
func CheckForUpdates(currentVersion string) error {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	latestStr, err := latestRelease()
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	latest, err := version.NewVersion(latestStr)
	if err != nil {
		return fmt.Errorf("invalid latest version format: %w", err)
	}

	if current.LessThan(latest) {
		ui.PrintWarning("A new version is available!")
		fmt.Printf("Current version: %s\n", currentVersion)
		fmt.Printf("Latest version:  %s\n", latestStr)
		fmt.Printf("\nUpdate with: go install github.com/satishbabariya/sqlstash/cli@latest\n")
		fmt.Printf("Or download:  %s\n", DownloadURL(latestStr))
	}

	return nil
}

// latestRelease fetches the latest release tag from GitHub.
func latestRelease() (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(releaseURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}

// DownloadURL returns the release asset URL for the current platform.
func DownloadURL(ver string) string {
	return fmt.Sprintf("https://github.com/satishbabariya/sqlstash/releases/download/v%s/sqlstash-%s-%s",
		ver, runtime.GOOS, runtime.GOARCH)
}
