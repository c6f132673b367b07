// Package update checks for newer releases of the CLI and figures out how
// this binary was installed, so the upgrade command can run the right
// package manager.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// InstallMethod identifies how the CLI got onto this machine.
type InstallMethod string

const (
	InstallMethodBrew    InstallMethod = "brew"
	InstallMethodNPM     InstallMethod = "npm"
	InstallMethodPNPM    InstallMethod = "pnpm"
	InstallMethodBun     InstallMethod = "bun"
	InstallMethodUnknown InstallMethod = "unknown"
)

const releasesURL = "https://api.github.com/repos/fuze/cli/releases/latest"

// FetchLatest returns the latest release tag and its release page URL.
func FetchLatest(ctx context.Context) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch latest release: HTTP %d", resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", "", fmt.Errorf("decode release: %w", err)
	}
	if release.TagName == "" {
		return "", "", fmt.Errorf("release has no tag")
	}
	return release.TagName, release.HTMLURL, nil
}

// IsNewerVersion reports whether latest is strictly newer than current.
func IsNewerVersion(current, latest string) (bool, error) {
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("parse current version %q: %w", current, err)
	}
	lat, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false, fmt.Errorf("parse latest version %q: %w", latest, err)
	}
	return lat.GreaterThan(cur), nil
}

func pathMatchesNPM(path string) bool {
	return strings.Contains(path, ".npm-global") ||
		strings.Contains(path, ".npm/") ||
		strings.Contains(path, "node_modules") ||
		strings.Contains(path, "/npm/")
}

func pathMatchesBun(path string) bool {
	return strings.Contains(path, ".bun/")
}

func pathMatchesPNPM(path string) bool {
	return strings.Contains(path, "/pnpm/") || strings.Contains(path, ".pnpm/")
}

func pathMatchesHomebrew(path string) bool {
	return strings.Contains(path, "/homebrew/") ||
		strings.Contains(path, "/Cellar/") ||
		strings.Contains(path, "/.linuxbrew/")
}

type installMethodRule struct {
	method InstallMethod
	check  func(string) bool
}

// installMethodRules orders detection so the more specific path shapes win:
// bun and pnpm paths can contain "npm"-ish segments.
func installMethodRules() []installMethodRule {
	return []installMethodRule{
		{InstallMethodBun, pathMatchesBun},
		{InstallMethodPNPM, pathMatchesPNPM},
		{InstallMethodNPM, pathMatchesNPM},
		{InstallMethodBrew, pathMatchesHomebrew},
	}
}

// DetectInstallMethod inspects the running binary's path. The path comes
// back either way, for manual instructions.
func DetectInstallMethod() (InstallMethod, string) {
	exe, err := os.Executable()
	if err != nil {
		return InstallMethodUnknown, ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	for _, r := range installMethodRules() {
		if r.check(exe) {
			return r.method, exe
		}
	}
	return InstallMethodUnknown, exe
}

func suggestUpgradeCommandForMethod(method InstallMethod) string {
	switch method {
	case InstallMethodNPM:
		return "npm i -g @fuze/cli@latest"
	case InstallMethodPNPM:
		return "pnpm add -g @fuze/cli@latest"
	case InstallMethodBun:
		return "bun add -g @fuze/cli@latest"
	default:
		return "brew upgrade fuze/tap/fuze"
	}
}

// SuggestUpgradeCommand returns the shell command that upgrades this
// installation.
func SuggestUpgradeCommand(method InstallMethod) string {
	return suggestUpgradeCommandForMethod(method)
}
