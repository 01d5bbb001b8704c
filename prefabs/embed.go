package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed weapons/*.yaml entities/*.yaml
var PrefabsFS embed.FS

// Root is the on-disk directory checked before the embedded copies. Files
// there override embedded prefabs so presets can be tuned without a rebuild.
var Root = "prefabs"

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// ModTime reports when the on-disk copy of a weapon preset was last written.
// Embedded-only presets report false.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPrefabPath(weaponPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// WeaponNames lists the available weapon presets, embedded and on disk.
func WeaponNames() ([]string, error) {
	seen := map[string]bool{}
	entries, err := fs.ReadDir(PrefabsFS, "weapons")
	if err != nil {
		return nil, fmt.Errorf("prefabs: list weapons: %w", err)
	}
	for _, e := range entries {
		if isSpecFile(e.Name()) {
			seen[presetName(e.Name())] = true
		}
	}
	if disk, err := os.ReadDir(filepath.Join(Root, "weapons")); err == nil {
		for _, e := range disk {
			if !e.IsDir() && isSpecFile(e.Name()) {
				seen[presetName(e.Name())] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func weaponPath(name string) string {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return cleanPrefabPath(name)
	}
	return "weapons/" + name + ".yaml"
}

func presetName(file string) string {
	base := path.Base(filepath.ToSlash(file))
	return strings.TrimSuffix(base, path.Ext(base))
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}
	if !strings.Contains(s, "/") {
		s = "weapons/" + s
	}
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}

	s := filepath.ToSlash(p)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	if path.Ext(s) == "" {
		s += ".tengo"
	}
	return fmt.Sprintf("scripts/%s", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join(Root, filepath.FromSlash(clean))
}
