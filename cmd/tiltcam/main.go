package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gocv.io/x/gocv"

	"github.com/ayusman/tiltcam/internal/analyzer"
	"github.com/ayusman/tiltcam/internal/app"
	"github.com/ayusman/tiltcam/internal/capture"
	"github.com/ayusman/tiltcam/internal/config"
	"github.com/ayusman/tiltcam/internal/detector"
	"github.com/ayusman/tiltcam/internal/hook"
	"github.com/ayusman/tiltcam/internal/log"
	"github.com/ayusman/tiltcam/internal/pose"
	"github.com/ayusman/tiltcam/internal/render"
	"github.com/ayusman/tiltcam/internal/server"
	"github.com/ayusman/tiltcam/internal/store"
	"github.com/ayusman/tiltcam/internal/tray"
)

const windowName = "tiltcam"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "tiltcam: %v\n", err)
		os.Exit(1)
	}

	cliApp := &cli.App{
		Name:   "tiltcam",
		Usage:  "track head tilt from a camera or video",
		Flags:  config.Flags(),
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tiltcam: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.FromContext(c)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Tray && cfg.Window && runtime.GOOS == "darwin" {
		return errors.New("--tray and --window both need the main thread on macOS; disable one")
	}

	logger, err := log.New(log.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}

	if cfg.Threads > 0 {
		gocv.SetNumThreads(cfg.Threads)
	}

	faces, eyes, err := setupDetectors(cfg, logger)
	if err != nil {
		return err
	}
	defer faces.Close()
	defer eyes.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := app.Config{
		Camera:   capture.NewCamera(cfg.Source),
		Analyzer: analyzer.New(faces, eyes, logger),
		Renderer: render.NewRenderer(),
		Equalize: cfg.Equalize,
		Logger:   logger,
	}

	if cfg.Window {
		w := render.NewWindow(windowName)
		defer w.Close()
		appCfg.Display = w
	}

	if cfg.Record != "" {
		st, err := store.New(cfg.Record)
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		defer st.Close()
		appCfg.Store = st
	}

	var srv *server.Server
	if cfg.HTTPAddr != "" {
		srv = server.New(server.Config{
			StaticDir: findWebDir(),
			Store:     appCfg.Store,
			Logger:    logger,
		})
		appCfg.Observers = append(appCfg.Observers, srv)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.HooksDir != "" {
		hooks := hook.NewManager(cfg.HooksDir)
		if err := hooks.Discover(); err != nil {
			return fmt.Errorf("discover hooks: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"dir":   hooks.Dir(),
			"hooks": len(hooks.List()),
		}).Info("hooks discovered")

		dispatcher := hook.NewDispatcher(ctx, hooks, hook.NewExecutor(cfg.HookTimeout), logger)
		defer dispatcher.Wait()
		appCfg.Observers = append(appCfg.Observers, dispatcher)
	}

	var tr *tray.Tray
	if cfg.Tray {
		tr = tray.New()
		appCfg.Observers = append(appCfg.Observers, app.ObserverFunc(func(_ int, _ *gocv.Mat, found []pose.Face) {
			tr.SetStatus(render.StatusText(len(found)))
		}))
	}

	a := app.New(appCfg)

	if srv != nil {
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
				logger.WithError(err).Error("http server failed")
				cancel()
			}
		}()
	}

	if tr == nil {
		return a.Run(ctx)
	}

	// The tray loop owns the main goroutine; the pipeline runs beside it.
	tr.OnToggle(a.SetOverlay)
	tr.OnQuit(cancel)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		tr.Quit()
	}()
	go func() {
		<-ctx.Done()
		tr.Quit()
	}()

	tr.Run()
	cancel()
	return <-errCh
}

// setupDetectors loads the face and eye cascades.
func setupDetectors(cfg config.Config, logger *logrus.Logger) (faces, eyes *detector.CascadeDetector, err error) {
	faces, err = detector.NewCascadeDetector(cfg.FaceDetector())
	if err != nil {
		return nil, nil, fmt.Errorf("load face model: %w", err)
	}

	eyes, err = detector.NewCascadeDetector(cfg.EyeDetector())
	if err != nil {
		faces.Close()
		return nil, nil, fmt.Errorf("load eye model: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"face_model": faces.ModelPath(),
		"eye_model":  eyes.ModelPath(),
	}).Info("cascades loaded")

	return faces, eyes, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.tiltcam/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".tiltcam", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
