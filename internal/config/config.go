// internal/config/config.go
//
// This package handles configuration and the .tcpplan directory structure.
// Every project that uses the planner gets a .tcpplan/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// PlannerDir is the name of the directory we create in each project
	PlannerDir = ".tcpplan"

	// ExportDirEnv overrides export.dir when set.
	ExportDirEnv = "TCPPLAN_EXPORT_DIR"

	MinZoom = 1
	MaxZoom = 20

	defaultLat      = 40.7128
	defaultLng      = -74.0060
	defaultZoom     = 17
	defaultExport   = "exports"
	defaultIDScheme = "counter"
)

const defaultProjectConfigYAML = `# tcp planner project configuration
version: 1

# Where the map opens. Press h in the editor to save the current view here.
map:
  center:
    lat: 40.7128
    lng: -74.0060
  zoom: 17

# Exported plans land in this directory (relative to .tcpplan/).
# Set compress: true to write .json.zst files instead of plain JSON.
export:
  dir: exports
  compress: false

# Object id scheme: counter (<unix-ms>_<n>) or uuid.
ids:
  scheme: counter
`

// LatLng is a coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// MapConfig is the home view of the map.
type MapConfig struct {
	Center LatLng `yaml:"center"`
	Zoom   int    `yaml:"zoom"`
}

// ExportConfig controls where and how plans are exported.
type ExportConfig struct {
	Dir      string `yaml:"dir"`
	Compress bool   `yaml:"compress"`
}

// IDConfig selects the object id generator.
type IDConfig struct {
	Scheme string `yaml:"scheme"`
}

// ProjectConfig models .tcpplan/config.yaml.
type ProjectConfig struct {
	Version int          `yaml:"version"`
	Map     MapConfig    `yaml:"map"`
	Export  ExportConfig `yaml:"export"`
	IDs     IDConfig     `yaml:"ids"`
}

// Config holds the runtime configuration for the planner.
type Config struct {
	// ProjectDir is the directory where the user ran `tcpplan` from
	ProjectDir string

	// PlannerProjectDir is ProjectDir/.tcpplan
	PlannerProjectDir string

	Project ProjectConfig

	exportOverride string
}

// InitPlannerDir creates the .tcpplan directory structure in the given
// project directory. This is called when the editor starts up.
//
// Structure created:
// .tcpplan/
// ├── config.yaml
// ├── logs/      <- session activity log
// └── exports/   <- default export destination
func InitPlannerDir(projectDir string) error {
	plannerDir := filepath.Join(projectDir, PlannerDir)

	dirs := []string{
		filepath.Join(plannerDir, "logs"),
		filepath.Join(plannerDir, defaultExport),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(plannerDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		PlannerProjectDir: filepath.Join(projectDir, PlannerDir),
		Project:           defaultProjectConfig(),
	}

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	if env := strings.TrimSpace(os.Getenv(ExportDirEnv)); env != "" {
		cfg.exportOverride = resolvePath(projectDir, env)
	}

	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.PlannerProjectDir, "logs")
}

// SessionLogPath returns the activity log file.
func (c *Config) SessionLogPath() string {
	return filepath.Join(c.LogsDir(), "session.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.PlannerProjectDir, "config.yaml")
}

// ExportDir returns the directory exported plans are written to. The
// environment override wins over the file.
func (c *Config) ExportDir() string {
	if c.exportOverride != "" {
		return c.exportOverride
	}
	return c.Project.Export.Dir
}

// CompressExports reports whether exports are zstd-compressed.
func (c *Config) CompressExports() bool {
	return c.Project.Export.Compress
}

// IDScheme returns the configured object id scheme.
func (c *Config) IDScheme() string {
	return c.Project.IDs.Scheme
}

// Home returns the configured map home view.
func (c *Config) Home() (lat, lng float64, zoom int) {
	m := c.Project.Map
	return m.Center.Lat, m.Center.Lng, m.Zoom
}

// SetHome updates the map home view and persists it back to
// .tcpplan/config.yaml.
func (c *Config) SetHome(lat, lng float64, zoom int) error {
	next := c.Project
	next.Map = MapConfig{Center: LatLng{Lat: lat, Lng: lng}, Zoom: zoom}
	if err := next.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project.Map = next.Map
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.PlannerProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.PlannerProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Map: MapConfig{
			Center: LatLng{Lat: defaultLat, Lng: defaultLng},
			Zoom:   defaultZoom,
		},
		Export: ExportConfig{Dir: defaultExport},
		IDs:    IDConfig{Scheme: defaultIDScheme},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Map.Zoom == 0 {
		pc.Map.Zoom = defaultZoom
	}
	if strings.TrimSpace(pc.Export.Dir) == "" {
		pc.Export.Dir = defaultExport
	}
	if strings.TrimSpace(pc.IDs.Scheme) == "" {
		pc.IDs.Scheme = defaultIDScheme
	}
}

// normalize resolves export.dir against the .tcpplan directory.
func (pc *ProjectConfig) normalize(base string) {
	pc.Export.Dir = resolvePath(base, pc.Export.Dir)
	pc.IDs.Scheme = strings.ToLower(strings.TrimSpace(pc.IDs.Scheme))
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	c := pc.Map.Center
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("map.center.lat must be within [-90, 90]")
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("map.center.lng must be within [-180, 180]")
	}
	if pc.Map.Zoom < MinZoom || pc.Map.Zoom > MaxZoom {
		return fmt.Errorf("map.zoom must be within [%d, %d]", MinZoom, MaxZoom)
	}
	switch pc.IDs.Scheme {
	case "counter", "uuid":
	default:
		return fmt.Errorf("ids.scheme must be 'counter' or 'uuid'")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	if err := os.MkdirAll(c.PlannerProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure planner dir: %w", err)
	}
	out := c.Project
	if rel, err := filepath.Rel(c.PlannerProjectDir, out.Export.Dir); err == nil && !strings.HasPrefix(rel, "..") {
		out.Export.Dir = rel
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
