package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Visual.AlphaBasedHighlighting {
		t.Error("expected alpha-based highlighting to be enabled by default")
	}
	if cfg.Visual.ScaleTexturesOnSlopes != SlopeScaleFromOne {
		t.Errorf("expected slope scaling from_one, got %s", cfg.Visual.ScaleTexturesOnSlopes)
	}
	if cfg.Visual.GridSize != 8 {
		t.Errorf("expected grid size 8, got %d", cfg.Visual.GridSize)
	}
	if cfg.Visual.DragAngleTolerance != 0.06 {
		t.Errorf("expected drag tolerance 0.06, got %f", cfg.Visual.DragAngleTolerance)
	}
	if cfg.Visual.SkyFlatName != "F_SKY1" {
		t.Errorf("expected sky flat F_SKY1, got %s", cfg.Visual.SkyFlatName)
	}

	levels := cfg.Visual.BrightnessLevels
	if len(levels) != 17 || levels[0] != 0 || levels[len(levels)-1] != 255 {
		t.Errorf("unexpected brightness levels %v", levels)
	}

	if !cfg.Map.UDMF {
		t.Error("expected UDMF by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "flattool.yaml")

	yamlContent := `
visual:
  alpha_based_highlighting: false
  scale_textures_on_slopes: never
  grid_size: 16
  drag_angle_tolerance: 0.1
  brightness_levels: [0, 128, 255]

map:
  path: "maps/e1m1.yaml"
  udmf: false

logging:
  level: "debug"
  log_file: "flattool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Visual.AlphaBasedHighlighting {
		t.Error("expected alpha-based highlighting to be disabled")
	}
	if cfg.Visual.ScaleTexturesOnSlopes != SlopeScaleNever {
		t.Errorf("expected slope scaling never, got %s", cfg.Visual.ScaleTexturesOnSlopes)
	}
	if cfg.Visual.GridSize != 16 {
		t.Errorf("expected grid size 16, got %d", cfg.Visual.GridSize)
	}
	if len(cfg.Visual.BrightnessLevels) != 3 {
		t.Errorf("expected 3 brightness levels, got %v", cfg.Visual.BrightnessLevels)
	}
	if cfg.Visual.SkyFlatName != "F_SKY1" {
		t.Errorf("unset values should keep defaults, got sky %q", cfg.Visual.SkyFlatName)
	}
	if cfg.Map.Path != "maps/e1m1.yaml" || cfg.Map.UDMF {
		t.Errorf("unexpected map config %+v", cfg.Map)
	}
	if cfg.Logging.LogFile != "flattool.log" {
		t.Errorf("expected log file 'flattool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
visual:
  grid_size: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/flattool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Visual.ScaleTexturesOnSlopes = "sideways"
	cfg.Visual.GridSize = 0
	cfg.Visual.DragAngleTolerance = -1
	cfg.Visual.BrightnessLevels = nil

	cfg.Validate()

	if cfg.Visual.ScaleTexturesOnSlopes != SlopeScaleFromOne {
		t.Errorf("expected fallback slope policy, got %s", cfg.Visual.ScaleTexturesOnSlopes)
	}
	if cfg.Visual.GridSize != 1 {
		t.Errorf("expected grid size clamped to 1, got %d", cfg.Visual.GridSize)
	}
	if cfg.Visual.DragAngleTolerance != 0.06 {
		t.Errorf("expected default drag tolerance, got %f", cfg.Visual.DragAngleTolerance)
	}
	if len(cfg.Visual.BrightnessLevels) == 0 {
		t.Error("expected default brightness levels")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" && filepath.Dir(path) == "." {
		t.Errorf("expected no local config, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "flattool.yaml")
	if err := os.WriteFile(configPath, []byte("visual:\n  grid_size: 4\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path != "./flattool.yaml" {
		t.Errorf("expected to find ./flattool.yaml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "map flag",
			setup: func() { *flagMap = "maps/test.yaml" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Map.Path != "maps/test.yaml" {
					t.Errorf("expected map path maps/test.yaml, got %s", cfg.Map.Path)
				}
			},
			teardown: func() { *flagMap = "" },
		},
		{
			name:  "grid flag",
			setup: func() { *flagGrid = 32 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Visual.GridSize != 32 {
					t.Errorf("expected grid size 32, got %d", cfg.Visual.GridSize)
				}
			},
			teardown: func() { *flagGrid = 0 },
		},
		{
			name:  "no alpha pick flag",
			setup: func() { *flagNoAlphaPick = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Visual.AlphaBasedHighlighting {
					t.Error("expected alpha-based highlighting disabled")
				}
			},
			teardown: func() { *flagNoAlphaPick = false },
		},
		{
			name:  "legacy flag",
			setup: func() { *flagLegacyFormat = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Map.UDMF {
					t.Error("expected UDMF disabled")
				}
			},
			teardown: func() { *flagLegacyFormat = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "flattool.yaml")

	yamlContent := `
visual:
  grid_size: 64
  fog_density: 12
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagGrid = 4
	defer func() {
		*flagConfig = ""
		*flagGrid = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Visual.GridSize != 4 {
		t.Errorf("expected grid size 4 from flag, got %d", cfg.Visual.GridSize)
	}
	if cfg.Visual.FogDensity != 12 {
		t.Errorf("expected fog density 12 from file, got %d", cfg.Visual.FogDensity)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Visual.GridSize = 2
	cfg.Visual.ScaleTexturesOnSlopes = SlopeScaleNever
	cfg.Map.Path = "maps/e1m1.yaml"

	written, err := cfg.Save(path)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != path {
		t.Errorf("expected %s, got %s", path, written)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Visual.GridSize != 2 {
		t.Errorf("expected grid size 2 after reload, got %d", loaded.Visual.GridSize)
	}
	if loaded.Visual.ScaleTexturesOnSlopes != SlopeScaleNever {
		t.Errorf("expected slope scaling never after reload, got %s", loaded.Visual.ScaleTexturesOnSlopes)
	}
	if loaded.Map.Path != "" {
		t.Errorf("expected map path left out, got %s", loaded.Map.Path)
	}
	if cfg.Map.Path != "maps/e1m1.yaml" {
		t.Errorf("Save changed the map path to %q", cfg.Map.Path)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the config file, got %d entries", len(entries))
	}
}

func TestSaveDefaultPath(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir follows XDG_CONFIG_HOME only on unix")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	written, err := Default().Save("")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if want := filepath.Join(ConfigDir(), FileName); written != want {
		t.Errorf("expected %s, got %s", want, written)
	}
	if _, err := os.Stat(written); err != nil {
		t.Errorf("config not written: %v", err)
	}
}
