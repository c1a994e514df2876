package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/klokku/gridplanner/pkg/geometry"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "GRIDPLANNER_"

// Storage backends understood by Storage.Backend.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Application struct {
	Host     string   `koanf:"host"`
	Frontend Frontend `koanf:"frontend"`
	Server   Server   `koanf:"server"`
	Grid     Grid     `koanf:"grid"`
	Storage  Storage  `koanf:"storage"`
	Database Database `koanf:"db"`
}

type Frontend struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

// Grid describes the layout the presentation layer renders.
type Grid struct {
	Resources   int     `koanf:"resources"`
	HourWidthPx float64 `koanf:"hourwidthpx"`
	CellWidthPx float64 `koanf:"cellwidthpx"`
	// CellHeightPx is the height of one resource row.
	CellHeightPx float64 `koanf:"cellheightpx"`
}

type Storage struct {
	Backend string `koanf:"backend"`
	// Path is the directory used by the file backend.
	Path  string `koanf:"path"`
	Redis Redis  `koanf:"redis"`
}

type Redis struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	Pass       string `koanf:"pass"`
	DB         int    `koanf:"db"`
	Prefix     string `koanf:"prefix"`
	MaxRetries int    `koanf:"maxretries"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:8181",
		Frontend: Frontend{
			Enabled: true,
			Path:    "frontend",
		},
		Server: Server{
			Addr: ":8181",
		},
		Grid: Grid{
			Resources:    15,
			HourWidthPx:  8,
			CellWidthPx:  geometry.HoursPerDay * 8,
			CellHeightPx: 64,
		},
		Storage: Storage{
			Backend: BackendFile,
			Path:    "data",
			Redis: Redis{
				Host:       "localhost",
				Port:       6379,
				Prefix:     "gridplanner:",
				MaxRetries: 3,
			},
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "gridplanner",
			Pass:   "",
			Name:   "gridplanner",
			Schema: "public",
		},
	}
}

// Load layers defaults, the YAML file at path and GRIDPLANNER_* environment
// variables. An empty path or a missing file skips the YAML layer.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if path == "" {
		log.Info("No config file given, using defaults and environment variables")
	} else if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.Validate(); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (a Application) Validate() error {
	var errs []error
	if a.Grid.Resources <= 0 {
		errs = append(errs, fmt.Errorf("grid.resources must be positive, got %d", a.Grid.Resources))
	}
	if a.Grid.HourWidthPx <= 0 {
		errs = append(errs, fmt.Errorf("grid.hourwidthpx must be positive, got %v", a.Grid.HourWidthPx))
	}
	if a.Grid.CellWidthPx <= 0 || a.Grid.CellHeightPx <= 0 {
		errs = append(errs, fmt.Errorf("grid cell size must be positive, got %vx%v", a.Grid.CellWidthPx, a.Grid.CellHeightPx))
	}
	if dayWidth := geometry.HoursPerDay * a.Grid.HourWidthPx; a.Grid.HourWidthPx > 0 && a.Grid.CellWidthPx < dayWidth {
		errs = append(errs, fmt.Errorf("grid.cellwidthpx must hold a whole day (%v px at %v px per hour), got %v",
			dayWidth, a.Grid.HourWidthPx, a.Grid.CellWidthPx))
	}
	switch a.Storage.Backend {
	case BackendFile:
		if a.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for the file backend"))
		}
	case BackendPostgres, BackendRedis, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", a.Storage.Backend))
	}
	return errors.Join(errs...)
}
