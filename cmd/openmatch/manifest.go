package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const noOpenmatchTomlMessage = "no openmatch.toml found\nplease specify the snapshot explicitly, e.g.:\n  openmatch check path/to/matches.mp"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Check   checkConfig   `toml:"check"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type checkConfig struct {
	Snapshot string `toml:"snapshot"`
	Format   string `toml:"format"`
	Jobs     int    `toml:"jobs"`
}

func findOpenmatchToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "openmatch.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findOpenmatchToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("check") {
		return projectConfig{}, fmt.Errorf("%s: missing [check]", path)
	}
	if !meta.IsDefined("check", "snapshot") || strings.TrimSpace(cfg.Check.Snapshot) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [check].snapshot", path)
	}
	switch cfg.Check.Format {
	case "", "pretty", "json", "short":
		// optional default, validated here so check fails early
	default:
		return projectConfig{}, fmt.Errorf("%s: unknown [check].format value: %s", path, cfg.Check.Format)
	}
	if cfg.Check.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: [check].jobs must be non-negative", path)
	}
	return cfg, nil
}

// resolveSnapshotTarget turns the manifest's [check].snapshot entry into
// a concrete snapshot path.
func resolveSnapshotTarget(manifest *projectManifest) (string, error) {
	if manifest == nil {
		return "", fmt.Errorf("missing project manifest")
	}
	rel := strings.TrimSpace(manifest.Config.Check.Snapshot)
	path := filepath.Join(manifest.Root, filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [check].snapshot path does not exist: %s", manifest.Path, path)
		}
		return "", fmt.Errorf("%s: failed to stat [check].snapshot: %w", manifest.Path, err)
	}
	if info.IsDir() {
		return path, nil
	}
	if filepath.Ext(path) != ".mp" {
		return "", fmt.Errorf("%s: [check].snapshot must be a .mp file or directory", manifest.Path)
	}
	return path, nil
}
