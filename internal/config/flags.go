package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagMap          = flag.String("map", "", "Path to map description (YAML)")
	flagGrid         = flag.Int("grid", 0, "Grid size for snapped texture dragging")
	flagNoAlphaPick  = flag.Bool("no-alpha-pick", false, "Disable alpha-based picking on masked 3D floors")
	flagLegacyFormat = flag.Bool("legacy", false, "Treat the map as a non-UDMF format")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMap != "" {
		cfg.Map.Path = *flagMap
	}
	if *flagGrid > 0 {
		cfg.Visual.GridSize = *flagGrid
	}
	if *flagNoAlphaPick {
		cfg.Visual.AlphaBasedHighlighting = false
	}
	if *flagLegacyFormat {
		cfg.Map.UDMF = false
	}
}
