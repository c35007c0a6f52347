package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v2"
)

// parse runs the flag set over args and returns the resulting Config.
func parse(t *testing.T, args ...string) Config {
	t.Helper()

	var got Config
	app := &cli.App{
		Name:  "tiltcam",
		Flags: Flags(),
		Action: func(c *cli.Context) error {
			got = FromContext(c)
			return nil
		},
	}
	if err := app.Run(append([]string{"tiltcam"}, args...)); err != nil {
		t.Fatalf("app.Run() error = %v", err)
	}
	return got
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestFlags_DefaultsMatchDefault(t *testing.T) {
	if got, want := parse(t), Default(); got != want {
		t.Errorf("parsed defaults = %+v, want %+v", got, want)
	}
}

func TestFlags_Overrides(t *testing.T) {
	got := parse(t,
		"--source", "clip.mp4",
		"--scale-factor", "1.2",
		"--min-neighbors", "4",
		"--min-size", "40",
		"--window=false",
		"--http-addr", ":9090",
		"--record", "/tmp/poses.db",
		"--log-level", "debug",
		"--hooks-dir", "/etc/tiltcam/hooks",
		"--hook-timeout", "500ms",
	)

	if got.Source != "clip.mp4" {
		t.Errorf("Source = %q", got.Source)
	}
	if got.ScaleFactor != 1.2 {
		t.Errorf("ScaleFactor = %f", got.ScaleFactor)
	}
	if got.MinNeighbors != 4 || got.MinSize != 40 {
		t.Errorf("MinNeighbors/MinSize = %d/%d", got.MinNeighbors, got.MinSize)
	}
	if got.Window {
		t.Error("Window should be false")
	}
	if got.HTTPAddr != ":9090" || got.Record != "/tmp/poses.db" || got.LogLevel != "debug" {
		t.Errorf("unexpected config %+v", got)
	}
	if got.HooksDir != "/etc/tiltcam/hooks" || got.HookTimeout != 500*time.Millisecond {
		t.Errorf("HooksDir/HookTimeout = %q/%s", got.HooksDir, got.HookTimeout)
	}
}

func TestFlags_EnvFallback(t *testing.T) {
	t.Setenv("TILTCAM_SOURCE", "2")
	t.Setenv("TILTCAM_EQUALIZE", "true")

	got := parse(t)

	if got.Source != "2" {
		t.Errorf("Source = %q, want 2", got.Source)
	}
	if !got.Equalize {
		t.Error("Equalize should be true from env")
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is fine", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("LoadDotEnv() = %v, want nil", err)
		}
	})

	t.Run("loads variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("TILTCAM_MIN_SIZE=48\n"), 0644); err != nil {
			t.Fatalf("write .env: %v", err)
		}
		t.Setenv("TILTCAM_MIN_SIZE", "")
		os.Unsetenv("TILTCAM_MIN_SIZE")

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("LoadDotEnv() = %v", err)
		}
		if got := parse(t); got.MinSize != 48 {
			t.Errorf("MinSize = %d, want 48", got.MinSize)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "scale factor must exceed 1", mutate: func(c *Config) { c.ScaleFactor = 1.0 }, wantErr: true},
		{name: "min size must be positive", mutate: func(c *Config) { c.MinSize = 0 }, wantErr: true},
		{name: "negative neighbours", mutate: func(c *Config) { c.MinNeighbors = -1 }, wantErr: true},
		{name: "missing source", mutate: func(c *Config) { c.Source = "" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "http addr with port only", mutate: func(c *Config) { c.HTTPAddr = ":8080" }, wantErr: false},
		{name: "zero hook timeout", mutate: func(c *Config) { c.HookTimeout = 0 }, wantErr: true},
		{name: "http addr without port", mutate: func(c *Config) { c.HTTPAddr = "localhost" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDetectorConfigs(t *testing.T) {
	cfg := Default()
	cfg.MinSize = 24

	face := cfg.FaceDetector()
	eye := cfg.EyeDetector()

	if face.ModelPath != cfg.FaceModel || eye.ModelPath != cfg.EyeModel {
		t.Errorf("model paths not carried over: %q %q", face.ModelPath, eye.ModelPath)
	}
	if face.MinSize != 24 || eye.MinSize != 24 {
		t.Errorf("MinSize not carried over: %d %d", face.MinSize, eye.MinSize)
	}
}
