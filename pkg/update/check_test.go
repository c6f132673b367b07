package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestUpgradeCommandForMethod(t *testing.T) {
	tests := []struct {
		method   InstallMethod
		expected string
	}{
		{InstallMethodBrew, "brew upgrade fuze/tap/fuze"},
		{InstallMethodNPM, "npm i -g @fuze/cli@latest"},
		{InstallMethodPNPM, "pnpm add -g @fuze/cli@latest"},
		{InstallMethodBun, "bun add -g @fuze/cli@latest"},
		{InstallMethodUnknown, "brew upgrade fuze/tap/fuze"},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.expected, suggestUpgradeCommandForMethod(tt.method))
		})
	}
}

func TestPathMatchesNPM(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/home/user/.npm-global/bin/fuze", true},
		{"/home/user/.npm/bin/fuze", true},
		{"/usr/local/lib/node_modules/.bin/fuze", true},
		{"/home/user/.local/share/npm/bin/fuze", true},
		{"/opt/homebrew/bin/fuze", false},
		{"/home/user/.bun/bin/fuze", false},
		{"/home/user/.local/share/pnpm/fuze", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathMatchesNPM(tt.path))
		})
	}
}

func TestPathMatchesBun(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/home/user/.bun/bin/fuze", true},
		{"/home/user/.npm-global/bin/fuze", false},
		{"/opt/homebrew/bin/fuze", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathMatchesBun(tt.path))
		})
	}
}

func TestPathMatchesPNPM(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/home/user/.local/share/pnpm/fuze", true},
		{"/home/user/.pnpm/global/fuze", true},
		{"/home/user/.npm-global/bin/fuze", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathMatchesPNPM(tt.path))
		})
	}
}

func TestPathMatchesHomebrew(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/opt/homebrew/bin/fuze", true},
		{"/usr/local/Cellar/fuze/1.0/bin/fuze", true},
		{"/home/linuxbrew/.linuxbrew/Cellar/fuze/1.0/bin/fuze", true},
		{"/home/user/.npm-global/bin/fuze", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathMatchesHomebrew(tt.path))
		})
	}
}

func TestInstallMethodRulesPathPrecedence(t *testing.T) {
	rules := installMethodRules()

	detect := func(path string) InstallMethod {
		for _, r := range rules {
			if r.check(path) {
				return r.method
			}
		}
		return InstallMethodUnknown
	}

	assert.Equal(t, InstallMethodNPM, detect("/home/user/.npm-global/bin/fuze"))
	assert.Equal(t, InstallMethodBun, detect("/home/user/.bun/bin/fuze"))
	assert.Equal(t, InstallMethodBrew, detect("/opt/homebrew/bin/fuze"))
	assert.Equal(t, InstallMethodPNPM, detect("/home/user/.local/share/pnpm/fuze"))
	assert.Equal(t, InstallMethodUnknown, detect("/usr/local/bin/fuze"))
}

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		current, latest string
		newer           bool
	}{
		{"v1.0.0", "v1.0.1", true},
		{"1.2.0", "v1.2.0", false},
		{"v2.0.0", "v1.9.9", false},
	}
	for _, tt := range tests {
		t.Run(tt.current+"_vs_"+tt.latest, func(t *testing.T) {
			newer, err := IsNewerVersion(tt.current, tt.latest)
			assert.NoError(t, err)
			assert.Equal(t, tt.newer, newer)
		})
	}
}

func TestIsNewerVersionRejectsDevBuilds(t *testing.T) {
	_, err := IsNewerVersion("dev", "v1.0.0")
	assert.Error(t, err)
}
