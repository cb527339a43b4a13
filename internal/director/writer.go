package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ScriptsDir is where generated scroll scripts are kept.
const ScriptsDir = "scripts"

// GenerateScriptPath names a new script in ScriptsDir after the current time.
func GenerateScriptPath() string {
	return filepath.Join(ScriptsDir, "script_"+time.Now().Format("2006-01-02_15-04-05")+".yaml")
}

// WriteScript writes a script to a YAML file, creating its directory.
func WriteScript(script *Script, path string) error {
	data, err := yaml.Marshal(script)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadScript reads a script from a YAML file. Keyframes are sorted by time
// and progress values must lie in [0,1].
func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}

	if len(script.Keyframes) == 0 {
		return nil, fmt.Errorf("script %s has no keyframes", path)
	}
	for i, kf := range script.Keyframes {
		if kf.Progress < 0 || kf.Progress > 1 {
			return nil, fmt.Errorf("script %s: keyframe %d: progress %v outside [0,1]", path, i, kf.Progress)
		}
	}

	// Обеспечиваем сортировку по времени
	sort.SliceStable(script.Keyframes, func(i, j int) bool {
		return script.Keyframes[i].Time < script.Keyframes[j].Time
	})

	if last := script.Keyframes[len(script.Keyframes)-1].Time; script.Duration < last {
		script.Duration = last
	}
	return &script, nil
}

// FindLatestScript returns the most recently modified .yaml file in dir.
func FindLatestScript(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scripts directory: %w", err)
	}

	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // removed while listing
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest, latestMod = filepath.Join(dir, entry.Name()), info.ModTime()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no script files found in %s", dir)
	}
	return latest, nil
}
