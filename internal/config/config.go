// Package config holds runtime configuration for tiltcam and its sources:
// command-line flags, TILTCAM_* environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ayusman/tiltcam/internal/detector"
)

const envPrefix = "TILTCAM_"

// Config is the full runtime configuration.
type Config struct {
	// Source is a camera device id ("0") or a video file / stream URL.
	Source string `validate:"required"`

	FaceModel    string  `validate:"required"`
	EyeModel     string  `validate:"required"`
	ScaleFactor  float64 `validate:"gt=1"`
	MinNeighbors int     `validate:"gte=0"`
	MinSize      int     `validate:"gte=1"`

	// Threads is passed to OpenCV; 0 leaves its default.
	Threads  int  `validate:"gte=0"`
	Equalize bool

	Window   bool
	HTTPAddr string `validate:"omitempty,hostname_port"`
	Record   string
	Tray     bool

	// HooksDir holds hook directories run for every frame; empty disables hooks.
	HooksDir    string
	HookTimeout time.Duration `validate:"gt=0"`

	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile  string
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	face := detector.DefaultFaceConfig()
	return Config{
		Source:       "0",
		FaceModel:    face.ModelPath,
		EyeModel:     detector.DefaultEyeConfig().ModelPath,
		ScaleFactor:  face.ScaleFactor,
		MinNeighbors: face.MinNeighbors,
		MinSize:      face.MinSize,
		Threads:      10,
		Window:       true,
		HookTimeout:  2 * time.Second,
		LogLevel:     "info",
	}
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FaceDetector returns the detector settings for faces.
func (c Config) FaceDetector() detector.Config {
	return detector.Config{
		ModelPath:    c.FaceModel,
		ScaleFactor:  c.ScaleFactor,
		MinNeighbors: c.MinNeighbors,
		MinSize:      c.MinSize,
	}
}

// EyeDetector returns the detector settings for eyes.
func (c Config) EyeDetector() detector.Config {
	return detector.Config{
		ModelPath:    c.EyeModel,
		ScaleFactor:  c.ScaleFactor,
		MinNeighbors: c.MinNeighbors,
		MinSize:      c.MinSize,
	}
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func env(name string) []string {
	return []string{envPrefix + name}
}

// Flags returns the CLI flags, each with a TILTCAM_* environment fallback.
func Flags() []cli.Flag {
	d := Default()
	return []cli.Flag{
		&cli.StringFlag{Name: "source", Value: d.Source, Usage: "camera device id or video path/URL", EnvVars: env("SOURCE")},
		&cli.StringFlag{Name: "face-model", Value: d.FaceModel, Usage: "face cascade XML", EnvVars: env("FACE_MODEL")},
		&cli.StringFlag{Name: "eye-model", Value: d.EyeModel, Usage: "eye cascade XML", EnvVars: env("EYE_MODEL")},
		&cli.Float64Flag{Name: "scale-factor", Value: d.ScaleFactor, Usage: "detector pyramid scale step", EnvVars: env("SCALE_FACTOR")},
		&cli.IntFlag{Name: "min-neighbors", Value: d.MinNeighbors, Usage: "detector minimum neighbours", EnvVars: env("MIN_NEIGHBORS")},
		&cli.IntFlag{Name: "min-size", Value: d.MinSize, Usage: "smallest detectable region edge in pixels", EnvVars: env("MIN_SIZE")},
		&cli.IntFlag{Name: "threads", Value: d.Threads, Usage: "OpenCV worker threads (0 = OpenCV default)", EnvVars: env("THREADS")},
		&cli.BoolFlag{Name: "equalize", Value: d.Equalize, Usage: "equalize histogram before detection", EnvVars: env("EQUALIZE")},
		&cli.BoolFlag{Name: "window", Value: d.Window, Usage: "show the annotated video in a window", EnvVars: env("WINDOW")},
		&cli.StringFlag{Name: "http-addr", Value: d.HTTPAddr, Usage: "serve stream and face feed on this address", EnvVars: env("HTTP_ADDR")},
		&cli.StringFlag{Name: "record", Value: d.Record, Usage: "record poses to this SQLite file", EnvVars: env("RECORD")},
		&cli.BoolFlag{Name: "tray", Value: d.Tray, Usage: "show a system tray menu", EnvVars: env("TRAY")},
		&cli.StringFlag{Name: "hooks-dir", Value: d.HooksDir, Usage: "run hooks found in this directory for every frame", EnvVars: env("HOOKS_DIR")},
		&cli.DurationFlag{Name: "hook-timeout", Value: d.HookTimeout, Usage: "kill a hook after this long", EnvVars: env("HOOK_TIMEOUT")},
		&cli.StringFlag{Name: "log-level", Value: d.LogLevel, Usage: "log level", EnvVars: env("LOG_LEVEL")},
		&cli.StringFlag{Name: "log-file", Value: d.LogFile, Usage: "also write logs to this rotated file", EnvVars: env("LOG_FILE")},
	}
}

// FromContext builds a Config from parsed CLI flags.
func FromContext(c *cli.Context) Config {
	return Config{
		Source:       c.String("source"),
		FaceModel:    c.String("face-model"),
		EyeModel:     c.String("eye-model"),
		ScaleFactor:  c.Float64("scale-factor"),
		MinNeighbors: c.Int("min-neighbors"),
		MinSize:      c.Int("min-size"),
		Threads:      c.Int("threads"),
		Equalize:     c.Bool("equalize"),
		Window:       c.Bool("window"),
		HTTPAddr:     c.String("http-addr"),
		Record:       c.String("record"),
		Tray:         c.Bool("tray"),
		HooksDir:     c.String("hooks-dir"),
		HookTimeout:  c.Duration("hook-timeout"),
		LogLevel:     c.String("log-level"),
		LogFile:      c.String("log-file"),
	}
}
