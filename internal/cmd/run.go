package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Alia5/padmap/device/mapping"
	"github.com/Alia5/padmap/hal/nvm"
	"github.com/Alia5/padmap/internal/configpaths"
	"github.com/Alia5/padmap/internal/emulator"
	"github.com/Alia5/padmap/internal/input"
	"github.com/Alia5/padmap/internal/log"
	"github.com/Alia5/padmap/internal/profile"
	"github.com/Alia5/padmap/internal/server/api"
	"github.com/Alia5/padmap/internal/server/api/handler"
	"github.com/Alia5/padmap/internal/sink"
)

// Version is the build version reported by the ping endpoint.
type Version string

type Gesture struct {
	DeferReports bool `help:"Withhold input reports while a mode gesture is held" default:"false" env:"PADMAP_GESTURE_DEFER_REPORTS"`
}

type Uinput struct {
	Name    string `help:"uinput device name" default:"padmap virtual gamepad" env:"PADMAP_UINPUT_NAME"`
	Vendor  uint16 `help:"uinput USB vendor ID" default:"4617" env:"PADMAP_UINPUT_VENDOR"`
	Product uint16 `help:"uinput USB product ID" default:"1" env:"PADMAP_UINPUT_PRODUCT"`
}

// Run starts the virtual gamepad.
type Run struct {
	API     api.ServerConfig `embed:"" prefix:"api."`
	Gesture Gesture          `embed:"" prefix:"gesture."`
	Uinput  Uinput           `embed:"" prefix:"uinput."`

	Image        string        `help:"Flash image path (default: <config dir>/flash.img)" env:"PADMAP_IMAGE"`
	Volatile     bool          `help:"Keep flash in memory only" env:"PADMAP_VOLATILE"`
	WriteTimeout time.Duration `help:"Flash erase/program timeout" default:"100ms" env:"PADMAP_WRITE_TIMEOUT"`
	PollInterval time.Duration `help:"Input report interval" default:"4ms" env:"PADMAP_POLL_INTERVAL"`
	Profile      string        `help:"Mapping profile to apply and persist at startup" type:"path" env:"PADMAP_PROFILE"`

	Source  []string      `help:"Input sources: keyboard, evdev, none" default:"keyboard" env:"PADMAP_SOURCE"`
	Evdev   string        `help:"evdev device path or name substring" env:"PADMAP_EVDEV"`
	Grab    bool          `help:"Grab the evdev device exclusively" env:"PADMAP_EVDEV_GRAB"`
	KeyHold time.Duration `help:"How long a terminal key press stays held" default:"600ms" env:"PADMAP_KEY_HOLD"`
	Sink    []string      `help:"Report sinks: log, uinput" default:"log" env:"PADMAP_SINK"`
}

type runner interface {
	Run(ctx context.Context) error
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger, version Version) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flash, closeFlash, err := r.openFlash(logger)
	if err != nil {
		return err
	}
	defer closeFlash()

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	sources, runners, err := r.openSources(logger, stop, &closers)
	if err != nil {
		return err
	}
	sinks, err := r.openSinks(logger, rawLogger)
	if err != nil {
		return err
	}

	dev := emulator.New(flash, emulator.Options{
		PollInterval: r.PollInterval,
		DeferReports: r.Gesture.DeferReports,
		WriteTimeout: r.WriteTimeout,
		Source:       input.Merge(sources...),
		Sinks:        sinks,
		Logger:       logger,
		Raw:          rawLogger,
	})
	defer dev.Close()

	if r.Profile != "" {
		if err := applyProfile(dev, r.Profile); err != nil {
			return err
		}
		logger.Info("profile applied", "file", r.Profile, "table", dev.Store().Table())
	}

	apiSrv := api.New(dev, r.API.Addr, r.API, logger)
	RegisterRoutes(apiSrv.Router(), dev, string(version))
	if err := apiSrv.Start(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	defer apiSrv.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	runners = append(runners, dev)
	errCh := make(chan error, len(runners))
	for _, rn := range runners {
		go func() { errCh <- rn.Run(runCtx) }()
	}

	var runErr error
wait:
	for range runners {
		select {
		case <-ctx.Done():
			break wait
		case err := <-errCh:
			if err != nil {
				runErr = err
				break wait
			}
		}
	}
	logger.Info("Shutting down")
	cancel()
	return runErr
}

// RegisterRoutes wires every API endpoint to dev.
func RegisterRoutes(r *api.Router, dev *emulator.Device, version string) {
	r.Register("ping", handler.Ping(version))
	r.Register("mapping/get", handler.MappingGet(dev))
	r.Register("mapping/set", handler.MappingSet(dev))
	r.Register("mapping/reset", handler.MappingReset(dev))
	r.Register("control", handler.Control(dev))
	r.Register("endpoint/{ep}/out", handler.EndpointOut(dev))
	r.Register("state", handler.State(dev))
	r.Register("input/press", handler.InputPress(dev))
	r.Register("input/release", handler.InputRelease(dev))
	r.Register("mode/set", handler.ModeSet(dev))
	r.RegisterStream("reports", handler.ReportsStream(dev))
}

func (r *Run) openFlash(logger *slog.Logger) (mapping.Flash, func(), error) {
	if r.Volatile {
		logger.Info("using volatile flash")
		return nvm.NewMemory(nvm.HEFGeometry), func() {}, nil
	}
	path := r.Image
	if path == "" {
		path = configpaths.DefaultImagePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := nvm.OpenFile(path, nvm.HEFGeometry)
	if err != nil {
		return nil, nil, fmt.Errorf("flash image %s: %w", path, err)
	}
	logger.Info("flash image opened", "path", path)
	return f, func() { _ = f.Close() }, nil
}

func (r *Run) openSources(logger *slog.Logger, interrupt func(), closers *[]io.Closer) ([]input.Source, []runner, error) {
	var sources []input.Source
	var runners []runner
	for _, name := range splitList(r.Source) {
		switch name {
		case "none":
		case "keyboard":
			kb := input.NewKeyboard(os.Stdin, nil, r.KeyHold, logger)
			kb.OnInterrupt = interrupt
			sources = append(sources, kb)
			runners = append(runners, kb)
		case "evdev":
			if r.Evdev == "" {
				return nil, nil, errors.New("--evdev is required for the evdev source")
			}
			ev, err := input.OpenEvdev(r.Evdev, r.Grab, logger)
			if err != nil {
				return nil, nil, err
			}
			*closers = append(*closers, ev)
			sources = append(sources, ev)
			runners = append(runners, ev)
		default:
			return nil, nil, fmt.Errorf("unknown input source %q", name)
		}
	}
	return sources, runners, nil
}

func (r *Run) openSinks(logger *slog.Logger, rawLogger log.RawLogger) ([]sink.Sink, error) {
	var sinks []sink.Sink
	for _, name := range splitList(r.Sink) {
		switch name {
		case "log":
			sinks = append(sinks, sink.NewLog(logger, rawLogger))
		case "uinput":
			u, err := sink.NewUinput(sink.UinputPath, r.Uinput.Name, r.Uinput.Vendor, r.Uinput.Product)
			if err != nil {
				_ = sink.Multi(sinks).Close()
				return nil, err
			}
			logger.Info("uinput gamepad created", "name", r.Uinput.Name)
			sinks = append(sinks, u)
		default:
			_ = sink.Multi(sinks).Close()
			return nil, fmt.Errorf("unknown sink %q", name)
		}
	}
	return sinks, nil
}

func applyProfile(dev *emulator.Device, path string) error {
	p, err := profile.Load(path)
	if err != nil {
		return err
	}
	t, err := p.Table(dev.Store().Table())
	if err != nil {
		return err
	}
	return dev.Store().Save(t)
}

func splitList(items []string) []string {
	var out []string
	for _, it := range items {
		for _, s := range strings.Split(it, ",") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
