package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Version is set at build time via -ldflags "-X .../pkg/cli.Version=...".
// It defaults to a non-semver placeholder so an unversioned dev build
// fails the semver parse loudly rather than silently claiming v0.0.0.
var Version = "dev"

var semverInTag = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// ghRelease is the subset of the GitHub releases API response this
// package cares about.
type ghRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

func fetchReleases(repo string) ([]ghRelease, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf("https://api.github.com/repos/%s/releases", repo))
	if err != nil {
		return nil, fmt.Errorf("cli: github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cli: reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cli: github API returned status %d: %s", resp.StatusCode, string(body))
	}

	var releases []ghRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, fmt.Errorf("cli: decoding github releases: %w", err)
	}
	return releases, nil
}

// releaseVersion extracts a semver from r's tag, falling back to its
// display name; it tolerates an unprefixed version since go-github-
// selfupdate's own tag matcher is stricter than the releases this
// project tags by hand sometimes are.
func releaseVersion(r ghRelease) (semver.Version, bool) {
	match := semverInTag.FindString(r.TagName)
	if match == "" {
		match = semverInTag.FindString(r.Name)
	}
	if match == "" {
		return semver.Version{}, false
	}
	if v, err := semver.Parse(match); err == nil {
		return v, true
	}
	if v, err := semver.Parse(strings.TrimPrefix(match, "v")); err == nil {
		return v, true
	}
	return semver.Version{}, false
}

// binaryAssetURL picks the download URL most likely to be a prebuilt
// binary (matching a platform/arch hint in the filename), falling back
// to the first asset listed if none match.
func binaryAssetURL(r ghRelease) string {
	fallback := ""
	for _, a := range r.Assets {
		name := strings.ToLower(a.Name)
		if fallback == "" {
			fallback = a.BrowserDownloadURL
		}
		for _, hint := range []string{"darwin", "linux", "windows", "amd64", "arm64"} {
			if strings.Contains(name, hint) {
				return a.BrowserDownloadURL
			}
		}
	}
	return fallback
}

// newestPublishedRelease returns the highest-semver non-draft,
// non-prerelease release in repo, tolerant of tag naming that
// go-github-selfupdate's own matcher rejects.
func newestPublishedRelease(repo string) (*selfupdate.Release, error) {
	releases, err := fetchReleases(repo)
	if err != nil {
		return nil, err
	}

	var best *selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		v, ok := releaseVersion(r)
		if !ok {
			continue
		}
		if best != nil && !v.GT(best.Version) {
			continue
		}
		best = &selfupdate.Release{Version: v, AssetURL: binaryAssetURL(r)}
	}
	if best == nil {
		return nil, nil
	}
	return best, nil
}

// CheckForUpdates queries GitHub for a newer patchfill release, and on
// confirmation from the user, downloads and replaces the running
// executable in place.
func CheckForUpdates(repo string) error {
	fmt.Printf("Current version: %s\n", Version)
	currentVer, parseErr := semver.Parse(Version)
	if parseErr != nil {
		fmt.Printf("warning: could not parse current version %q: %v\n", Version, parseErr)
	}

	latest, err := newestPublishedRelease(repo)
	if err != nil {
		return fmt.Errorf("cli: update check failed: %w", err)
	}
	if latest == nil {
		fmt.Printf("No releases found for %s.\n", repo)
		return nil
	}
	fmt.Printf("Latest version: %s\n", latest.Version)

	if latest.Version.LTE(currentVer) {
		fmt.Printf("You are already running the latest version: %s.\n", currentVer)
		return nil
	}
	if latest.AssetURL == "" {
		fmt.Printf("A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		fmt.Println("Please visit the project releases page to download the new version.")
		return nil
	}

	answer, perr := PromptLine(fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if perr != nil {
		return fmt.Errorf("cli: failed reading input: %w", perr)
	}
	if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
		fmt.Println("Update cancelled.")
		return nil
	}

	fmt.Println("Updating...")
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("cli: could not locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("cli: update failed: %w", err)
	}

	return restartSelf(exe, latest.Version.String())
}

// restartSelf re-executes exe in place (replacing the current process
// image) so the newly-installed binary takes over without the user
// needing to relaunch. If the platform or binary can't exec in place,
// it falls back to spawning exe as a detached child and exiting.
func restartSelf(exe, newVersion string) error {
	argv := append([]string{exe}, os.Args[1:]...)
	execErr := syscall.Exec(exe, argv, os.Environ())
	// syscall.Exec only returns on failure.

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if startErr := cmd.Start(); startErr != nil {
		fmt.Printf("Updated to version %s, but failed to restart automatically: %v; fallback start error: %v\n", newVersion, execErr, startErr)
		fmt.Println("Please restart the application manually.")
		return nil
	}
	os.Exit(0)
	return nil
}
