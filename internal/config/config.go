// Package config handles editor configuration loading and management.
package config

// SlopeScaling selects how auto-alignment rescales textures on slopes.
type SlopeScaling string

// Slope scaling policies.
const (
	SlopeScaleFromOne     SlopeScaling = "from_one"     // base scale 1.0
	SlopeScaleFromCurrent SlopeScaling = "from_current" // base scale is the current scale
	SlopeScaleNever       SlopeScaling = "never"
)

// Config holds all editor settings.
type Config struct {
	Visual  VisualConfig  `yaml:"visual"`
	Map     MapConfig     `yaml:"map"`
	Logging LoggingConfig `yaml:"logging"`
}

// VisualConfig holds 3D editing mode settings.
type VisualConfig struct {
	AlphaBasedHighlighting bool         `yaml:"alpha_based_highlighting"` // Pixel-accurate picking on masked 3D floors
	ScaleTexturesOnSlopes  SlopeScaling `yaml:"scale_textures_on_slopes"`
	GridSize               int          `yaml:"grid_size"`
	DragAngleTolerance     float64      `yaml:"drag_angle_tolerance"` // Radians of camera motion before a click becomes a drag
	FogDensity             int          `yaml:"fog_density"`
	UseLongTextureNames    bool         `yaml:"use_long_texture_names"`
	AdditivePaintSelect    bool         `yaml:"additive_paint_select"`
	BrightnessLevels       []int        `yaml:"brightness_levels"`
	SkyFlatName            string       `yaml:"sky_flat_name"`
}

// MapConfig holds the map to open.
type MapConfig struct {
	Path string `yaml:"path"`
	UDMF bool   `yaml:"udmf"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Visual: VisualConfig{
			AlphaBasedHighlighting: true,
			ScaleTexturesOnSlopes:  SlopeScaleFromOne,
			GridSize:               8,
			DragAngleTolerance:     0.06,
			FogDensity:             0,
			UseLongTextureNames:    false,
			AdditivePaintSelect:    false,
			BrightnessLevels:       defaultBrightnessLevels(),
			SkyFlatName:            "F_SKY1",
		},
		Map: MapConfig{
			Path: "",
			UDMF: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// defaultBrightnessLevels returns 0, 16, ..., 240, 255.
func defaultBrightnessLevels() []int {
	levels := make([]int, 0, 17)
	for b := 0; b < 256; b += 16 {
		levels = append(levels, b)
	}
	return append(levels, 255)
}

// Validate fixes values that would break the editor.
func (c *Config) Validate() {
	switch c.Visual.ScaleTexturesOnSlopes {
	case SlopeScaleFromOne, SlopeScaleFromCurrent, SlopeScaleNever:
	default:
		c.Visual.ScaleTexturesOnSlopes = SlopeScaleFromOne
	}
	if c.Visual.GridSize < 1 {
		c.Visual.GridSize = 1
	}
	if c.Visual.DragAngleTolerance <= 0 {
		c.Visual.DragAngleTolerance = 0.06
	}
	if len(c.Visual.BrightnessLevels) == 0 {
		c.Visual.BrightnessLevels = defaultBrightnessLevels()
	}
}
