// flattool loads a map description and runs floor and ceiling surface
// operations on it from the command line.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Faultbox/visualflats/internal/config"
	"github.com/Faultbox/visualflats/internal/logger"
	"github.com/Faultbox/visualflats/internal/mapdata"
	"github.com/Faultbox/visualflats/internal/metrics"
	"github.com/Faultbox/visualflats/internal/surface"
	"github.com/Faultbox/visualflats/internal/texture"
	"github.com/Faultbox/visualflats/internal/undo"
	"github.com/Faultbox/visualflats/internal/visual"
	"github.com/Faultbox/visualflats/pkg/math"
)

var (
	flagFlats   = flag.String("flats", "", "Directory with flat images (png, bmp, webp)")
	flagMetrics = flag.Bool("metrics", false, "Print surface metrics after the command")
)

// flatExtensions are tried in order when loading a flat from disk.
var flatExtensions = []string{".png", ".bmp", ".webp"}

var log = logger.For(logger.CLI)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log = logger.For(logger.CLI)

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command, args := args[0], args[1:]
	switch command {
	case "help":
		printUsage()
		return
	case "config":
		cmdConfig(cfg, args)
		return
	}
	if cfg.Map.Path == "" {
		fmt.Fprintln(os.Stderr, "No map given, use -map <file.yaml>")
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		log.Error("failed to register metrics", zap.Error(err))
		os.Exit(1)
	}

	mode, err := open(cfg)
	if err != nil {
		log.Error("failed to open map", zap.Error(err))
		os.Exit(1)
	}

	switch command {
	case "info":
		cmdInfo(mode)
	case "build":
		cmdBuild(mode)
	case "pick":
		cmdPick(mode, args)
	case "align":
		cmdAlign(mode, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if *flagMetrics {
		printMetrics(reg)
	}
}

func printUsage() {
	fmt.Println(`flattool - floor and ceiling surface tool

Usage:
  flattool -map <file.yaml> [options] <command> [args]

Commands:
  info                               Show map and flat information
  build                              Build every surface and list them
  pick <x y z> <tx ty tz>            Pick the surface seen from a point
  align <x y z> <tx ty tz> [x|y|xy]  Auto-align the picked flat to its nearest edge
  config [file]                      Save the effective settings (default: user config dir)

Options:
  -config <file>    Config file (default: ./flattool.yaml)
  -flats <dir>      Load flat images from a directory
  -legacy           Treat the map as a non-UDMF format
  -no-alpha-pick    Disable alpha-based picking on masked 3D floors
  -metrics          Print surface metrics
  -debug            Enable debug logging

Examples:
  flattool -map e1m1.yaml info
  flattool -map e1m1.yaml -flats ./flats build
  flattool -map e1m1.yaml pick 32 32 64 32 32 0
  flattool -map e1m1.yaml align 32 32 64 32 32 0 xy
  flattool -grid 16 -no-alpha-pick config`)
}

// open loads the map and its flats and builds the visual sectors.
func open(cfg *config.Config) (*visual.Mode, error) {
	m, err := mapdata.LoadFile(cfg.Map.Path)
	if err != nil {
		return nil, err
	}
	if cfg.Visual.SkyFlatName != "" {
		m.SkyFlatName = cfg.Visual.SkyFlatName
	}

	flats := texture.NewCache()
	for _, name := range m.UsedFlats() {
		if m.IsSkyFlat(name) {
			continue
		}
		if _, err := flats.AddFlat(name); err != nil {
			return nil, err
		}
		if *flagFlats != "" {
			loadFlat(flats, *flagFlats, name)
		}
	}

	mode := visual.New(m, cfg, flats, undo.NewJournal())
	mode.Build()
	log.Info("map opened",
		zap.String("path", cfg.Map.Path),
		zap.Int("sectors", len(m.Sectors)),
		zap.Bool("udmf", cfg.Map.UDMF))
	return mode, nil
}

// loadFlat decodes the first image found for name. Missing files leave the
// flat registered without pixels.
func loadFlat(flats *texture.Cache, dir, name string) {
	for _, ext := range flatExtensions {
		path := filepath.Join(dir, name+ext)
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		err = flats.LoadFlat(name, f)
		f.Close()
		if err != nil {
			log.Warn("failed to load flat", zap.String("path", path), zap.Error(err))
		}
		return
	}
	log.Debug("flat image not found", logger.Flat(name), zap.String("dir", dir))
}

func cmdConfig(cfg *config.Config, args []string) {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	written, err := cfg.Save(path)
	if err != nil {
		log.Error("failed to save config", zap.Error(err))
		os.Exit(1)
	}
	fmt.Printf("Config written to %s\n", written)
}

func cmdInfo(mode *visual.Mode) {
	m := mode.Map()

	var extras, vavoom int
	for _, s := range m.Sectors {
		for _, def := range s.ExtraFloors {
			extras++
			if def.Vavoom {
				vavoom++
			}
		}
	}

	fmt.Printf("Sky flat:     %s\n", m.SkyFlatName)
	fmt.Printf("Vertices:     %d\n", len(m.Vertices))
	fmt.Printf("Lines:        %d\n", len(m.Linedefs))
	fmt.Printf("Sectors:      %d\n", len(m.Sectors))
	fmt.Printf("Extra floors: %d (%d vavoom)\n", extras, vavoom)
	fmt.Println()
	fmt.Println("Flats:")

	flats := m.UsedFlats()
	sort.Strings(flats)
	for _, name := range flats {
		state := "missing"
		if m.IsSkyFlat(name) {
			state = "sky"
		} else if img := mode.Textures().FlatImageByName(name); img != nil && img.IsImageLoaded() {
			state = fmt.Sprintf("%dx%d", img.Width(), img.Height())
		}
		fmt.Printf("  %-12s %s\n", texture.ShortName(name), state)
	}
}

func cmdBuild(mode *visual.Mode) {
	passes := make(map[surface.RenderPass]int)
	var total int
	for _, vs := range mode.Sectors() {
		for _, s := range vs.Surfaces() {
			if s.Triangles() == 0 {
				continue
			}
			passes[s.RenderPass()]++
			total += s.Triangles()
			fmt.Println(describe(s))
		}
	}

	fmt.Println()
	fmt.Printf("Triangles: %d\n", total)
	for _, p := range []surface.RenderPass{surface.PassSolid, surface.PassMask, surface.PassAlpha, surface.PassAdditive} {
		if passes[p] > 0 {
			fmt.Printf("  %-10s %d\n", p, passes[p])
		}
	}
}

func cmdPick(mode *visual.Mode, args []string) {
	from, to, _, err := parseRay(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Usage: flattool pick <x y z> <tx ty tz>: %v\n", err)
		os.Exit(1)
	}
	hit := look(mode, from, to)
	if hit == nil {
		fmt.Println("Nothing picked")
		return
	}
	p := mode.HitPosition()
	fmt.Println(describe(hit))
	fmt.Printf("Hit at (%.2f, %.2f)\n", p.X, p.Y)
}

func cmdAlign(mode *visual.Mode, args []string) {
	from, to, rest, err := parseRay(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Usage: flattool align <x y z> <tx ty tz> [x|y|xy]: %v\n", err)
		os.Exit(1)
	}
	axes := "xy"
	if len(rest) > 0 {
		axes = strings.ToLower(rest[0])
	}
	alignX, alignY := strings.Contains(axes, "x"), strings.Contains(axes, "y")
	if !alignX && !alignY {
		fmt.Fprintf(os.Stderr, "Unknown axes: %s\n", axes)
		os.Exit(1)
	}

	hit := look(mode, from, to)
	if hit == nil {
		fmt.Println("Nothing picked")
		return
	}
	mode.AlignTextures(alignX, alignY)
	if status := mode.LastStatus(); status != "" {
		fmt.Println(status)
	}
	fmt.Println(describe(hit))
	if r := mode.LastResult(); r != "" {
		fmt.Println(r)
	}
}

// look points the camera from one point at another and picks.
func look(mode *visual.Mode, from, to math.Vec3) *surface.Surface {
	cam := mode.Camera()
	cam.Position, cam.Target = from, to
	mode.SetCamera(cam)
	return mode.PickTarget()
}

func parseRay(args []string) (from, to math.Vec3, rest []string, err error) {
	if len(args) < 6 {
		return from, to, nil, fmt.Errorf("need 6 coordinates, got %d", len(args))
	}
	var v [6]float64
	for i := range v {
		if v[i], err = strconv.ParseFloat(args[i], 64); err != nil {
			return from, to, nil, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
	}
	from = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	to = math.Vec3{X: v[3], Y: v[4], Z: v[5]}
	return from, to, args[6:], nil
}

func describe(s *surface.Surface) string {
	layer := "base"
	if s.ExtraFloor() != nil {
		layer = "extra"
		if s.InnerSide() {
			layer = "inner"
		}
	}
	t := s.Transform()
	return fmt.Sprintf("sector %4d %-7s %-5s %-8s %-10s tris %3d  pan (%.2f, %.2f) rot %.2f scale (%.3f, %.3f)",
		s.Owner().MapSector().Index, s.Kind(), layer, texture.ShortName(s.TextureName()), s.RenderPass(),
		s.Triangles(), t.Pan.X, t.Pan.Y, t.Rotation, t.Scale.X, t.Scale.Y)
}

func printMetrics(reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		log.Error("failed to gather metrics", zap.Error(err))
		return
	}
	fmt.Println()
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			fmt.Printf("%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
}
