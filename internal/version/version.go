// Package version provides version information and update checking.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// Version is the current version of launch-mcp
	Version = "0.1.0"

	// GitHubRepo is the repository path
	GitHubRepo = "ctagard/launch-mcp"

	// GitHubAPIURL is the GitHub API endpoint for latest release
	GitHubAPIURL = "https://api.github.com/repos/%s/releases/latest"
)

// UpdateInfo contains information about available updates
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	UpdateAvailable bool      `json:"update_available"`
	ReleaseURL      string    `json:"release_url,omitempty"`
	ReleaseNotes    string    `json:"release_notes,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
	Error           string    `json:"error,omitempty"`
}

// UpdateMessage returns a human-readable message about the update
func (u *UpdateInfo) UpdateMessage() string {
	if u.Error != "" {
		return ""
	}
	if !u.UpdateAvailable {
		return ""
	}
	return fmt.Sprintf(
		"A new version of launch-mcp is available: v%s (current: v%s). "+
			"Update with: go install github.com/%s/cmd/launch-mcp@latest",
		u.LatestVersion, u.CurrentVersion, GitHubRepo,
	)
}

// Checker handles version checking
type Checker struct {
	mu         sync.RWMutex
	updateInfo *UpdateInfo
	checked    bool
}

// NewChecker creates a new version checker
func NewChecker() *Checker {
	return &Checker{}
}

// githubRelease represents the GitHub API response for a release
type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Body    string `json:"body"`
}

// CheckForUpdates checks GitHub for a newer version
func (c *Checker) CheckForUpdates(ctx context.Context) *UpdateInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	info := &UpdateInfo{
		CurrentVersion: Version,
		CheckedAt:      time.Now(),
	}

	if ctx == nil {
		ctx = context.Background()
	}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	url := fmt.Sprintf(GitHubAPIURL, GitHubRepo)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		info.Error = fmt.Sprintf("failed to create request: %v", err)
		c.store(info)
		return info
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "launch-mcp/"+Version)

	resp, err := client.Do(req)
	if err != nil {
		info.Error = fmt.Sprintf("failed to check for updates: %v", err)
		c.store(info)
		return info
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		info.Error = fmt.Sprintf("GitHub API returned status %d", resp.StatusCode)
		c.store(info)
		return info
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		info.Error = fmt.Sprintf("failed to parse response: %v", err)
		c.store(info)
		return info
	}

	// Tag names carry a leading 'v'
	latestVersion := strings.TrimPrefix(release.TagName, "v")
	info.LatestVersion = latestVersion
	info.ReleaseURL = release.HTMLURL
	info.ReleaseNotes = truncateString(release.Body, 500)
	info.UpdateAvailable = compareVersions(Version, latestVersion) < 0

	c.store(info)
	return info
}

// store caches the result; callers hold the write lock.
func (c *Checker) store(info *UpdateInfo) {
	c.updateInfo = info
	c.checked = true
}

// CheckForUpdatesAsync checks for updates in the background
func (c *Checker) CheckForUpdatesAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.CheckForUpdates(ctx)
	}()
}

// GetUpdateInfo returns the cached update info
func (c *Checker) GetUpdateInfo() *UpdateInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updateInfo
}

// HasChecked returns whether an update check has been performed
func (c *Checker) HasChecked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.checked
}

// compareVersions compares two semver strings.
// Returns -1 if v1 < v2, 0 if equal, 1 if v1 > v2.
func compareVersions(v1, v2 string) int {
	a, b := parseVersion(v1), parseVersion(v2)
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// parseVersion splits a semver string into its numeric components,
// tolerating a leading 'v' and pre-release suffixes like "1.0.0-beta".
func parseVersion(v string) [3]int {
	var out [3]int
	parts := strings.Split(strings.TrimPrefix(v, "v"), ".")
	for i := 0; i < len(parts) && i < len(out); i++ {
		numeric := strings.Split(parts[i], "-")[0]
		fmt.Sscanf(numeric, "%d", &out[i])
	}
	return out
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
