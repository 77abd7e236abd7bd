package render

import (
	"strings"
	"testing"
)

func stubBackground(t *testing.T, dark bool) {
	t.Helper()
	orig := hasDarkBackground
	hasDarkBackground = func() bool { return dark }
	t.Cleanup(func() { hasDarkBackground = orig })
}

func TestResolveStyle(t *testing.T) {
	tests := []struct {
		name  string
		dark  bool
		style string
		want  string
	}{
		{"auto on dark", true, ThemeAuto, ThemeDark},
		{"auto on light", false, ThemeAuto, ThemeLight},
		{"empty on dark", true, "", ThemeDark},
		{"explicit style", false, ThemeDracula, ThemeDracula},
		{"path passthrough", true, "/tmp/style.json", "/tmp/style.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBackground(t, tt.dark)
			if got := ResolveStyle(tt.style); got != tt.want {
				t.Errorf("ResolveStyle(%q) = %q, want %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestCacheKey_AutoFollowsBackground(t *testing.T) {
	stubBackground(t, true)
	darkKey := cacheKey(DefaultOptions())

	stubBackground(t, false)
	lightKey := cacheKey(DefaultOptions())

	if darkKey == lightKey {
		t.Error("auto style should key on the resolved background")
	}
	if !strings.HasPrefix(lightKey, ThemeLight+":") {
		t.Errorf("unexpected key %q", lightKey)
	}
}

func TestIsBuiltinStyle(t *testing.T) {
	for _, name := range ThemeNames() {
		if !IsBuiltinStyle(name) {
			t.Errorf("%q should be a builtin style", name)
		}
	}

	for _, name := range []string{"", "mongodb", "./custom.json"} {
		if IsBuiltinStyle(name) {
			t.Errorf("%q should not be a builtin style", name)
		}
	}
}

func TestMarkdownWithBuiltinStyles(t *testing.T) {
	stubBackground(t, true)

	for _, name := range ThemeNames() {
		t.Run(name, func(t *testing.T) {
			output, err := Markdown("# Replica sets\n\n```js\nrs.status()\n```", DefaultOptions().WithStyle(name))
			if err != nil {
				t.Fatalf("render with %s failed: %v", name, err)
			}
			if !strings.Contains(output, "status") {
				t.Errorf("output should contain code, got: %s", output)
			}
		})
	}
}

func TestAvailableThemes(t *testing.T) {
	themes := AvailableThemes()

	if len(themes) != 8 {
		t.Errorf("expected 8 themes, got %d", len(themes))
	}
	if themes[0].Name != ThemeAuto {
		t.Errorf("expected auto to be listed first, got %s", themes[0].Name)
	}
	for _, theme := range themes {
		if theme.Description == "" {
			t.Errorf("theme %s has empty description", theme.Name)
		}
	}
}
