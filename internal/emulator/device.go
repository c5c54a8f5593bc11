// Package emulator runs the virtual gamepad: it owns the mapping store, the
// feature report channel and the polling loop that turns input snapshots into
// reports.
package emulator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/padmap/device/feature"
	"github.com/Alia5/padmap/device/gamepad"
	"github.com/Alia5/padmap/device/mapping"
	"github.com/Alia5/padmap/hal/irq"
	"github.com/Alia5/padmap/internal/input"
	"github.com/Alia5/padmap/internal/log"
	"github.com/Alia5/padmap/internal/sink"
)

// Options configures a Device.
type Options struct {
	// PollInterval is the input report period.
	PollInterval time.Duration
	// DeferReports withholds reports while a mode gesture is being held.
	DeferReports bool
	// WriteTimeout bounds each flash busy-wait.
	WriteTimeout time.Duration

	Source input.Source
	Sinks  []sink.Sink
	Ticks  gamepad.TickSource

	Logger *slog.Logger
	Raw    log.RawLogger
}

// Device is one emulated gamepad.
type Device struct {
	store   *mapping.Store
	channel *feature.Channel
	line    *irq.Line
	ep      *feature.VirtualEndpoint
	modes   *gamepad.ModeController
	manual  *input.Manual
	source  input.Source
	sinks   sink.Multi
	ticks   gamepad.TickSource

	interval     time.Duration
	deferReports bool
	logger       *slog.Logger

	mu       sync.Mutex
	snap     gamepad.Snapshot
	last     gamepad.Report
	reports  uint64
	deferred uint64
	drops    map[feature.DropReason]uint64
	loadErr  error
	subs     map[chan gamepad.Report]struct{}
}

// New builds a device on flash and loads the persisted mapping.
func New(flash mapping.Flash, opts Options) *Device {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Raw == nil {
		opts.Raw = log.NewRaw(nil)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = gamepad.TickPeriod
	}
	if opts.Ticks == nil {
		opts.Ticks = gamepad.NewClockTicks(gamepad.TickPeriod)
	}

	d := &Device{
		line:         irq.NewLine(),
		ep:           feature.NewVirtualEndpoint(),
		modes:        gamepad.NewModeController(opts.Logger),
		manual:       input.NewManual(),
		sinks:        sink.Multi(opts.Sinks),
		ticks:        opts.Ticks,
		interval:     opts.PollInterval,
		deferReports: opts.DeferReports,
		logger:       opts.Logger,
		last:         gamepad.NewReport(),
		drops:        map[feature.DropReason]uint64{},
		subs:         map[chan gamepad.Report]struct{}{},
	}
	d.source = input.Merge(opts.Source, d.manual)

	d.store = mapping.New(flash, &mapping.Options{
		WriteTimeout: opts.WriteTimeout,
		IRQ:          d.line,
		Logger:       opts.Logger.With("component", "mapping"),
		OnLoadRejected: func(err error) {
			d.mu.Lock()
			d.loadErr = err
			d.mu.Unlock()
		},
	})
	d.channel = feature.New(d.store, &feature.Options{
		Receiver: d.ep,
		Endpoint: feature.JoystickEP,
		Logger:   opts.Logger.With("component", "feature"),
		Raw:      opts.Raw,
		Descriptors: map[uint8][]byte{
			feature.LegacyInterface:  gamepad.Descriptor.MustBytes(),
			feature.MappingInterface: feature.MappingDescriptor.MustBytes(),
		},
		OnDrop: d.countDrop,
	})
	d.store.Load()
	return d
}

// countDrop runs inside the interrupt handler, which already holds the line.
func (d *Device) countDrop(reason feature.DropReason, _, _ uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drops[reason]++
}

// Store returns the mapping store.
func (d *Device) Store() *mapping.Store { return d.store }

// Manual returns the API-driven input source.
func (d *Device) Manual() *input.Manual { return d.manual }

// Modes returns the mode controller.
func (d *Device) Modes() *gamepad.ModeController { return d.modes }

// HandleControl delivers a control request in interrupt context.
func (d *Device) HandleControl(setup feature.SetupPacket, data []byte) (resp []byte, handled bool) {
	d.line.Deliver(func() {
		resp, handled = d.channel.HandleControl(setup, data)
	})
	return resp, handled
}

// HandleOut completes an OUT transfer on the joystick endpoint. It returns
// false when no receive was armed.
func (d *Device) HandleOut(data []byte) bool {
	if _, ok := d.ep.Deliver(data); !ok {
		d.logger.Debug("OUT transfer without armed receive", "len", len(data))
		return false
	}
	d.line.Deliver(d.channel.SetReportComplete)
	return true
}

// Poll runs one input cycle. sent is false when the report was deferred.
func (d *Device) Poll() (r gamepad.Report, sent bool) {
	snap := d.source.Snapshot()
	flags := d.modes.Update(snap, d.ticks.Ticks())

	d.mu.Lock()
	d.snap = snap
	if d.deferReports && d.modes.Holding() {
		d.deferred++
		r = d.last
		d.mu.Unlock()
		return r, false
	}
	d.mu.Unlock()

	r = gamepad.Translate(snap, flags, d.store)
	if err := d.sinks.Send(r); err != nil {
		d.logger.Warn("report sink failed", "error", err)
	}

	d.mu.Lock()
	changed := r != d.last
	d.last = r
	d.reports++
	if changed {
		for ch := range d.subs {
			select {
			case ch <- r:
			default:
			}
		}
	}
	d.mu.Unlock()
	return r, true
}

// Run polls every PollInterval until ctx is done.
func (d *Device) Run(ctx context.Context) error {
	t := time.NewTicker(d.interval)
	defer t.Stop()
	d.logger.Info("gamepad running", "interval", d.interval, "deferReports", d.deferReports)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			d.Poll()
		}
	}
}

// Subscribe returns a channel receiving every changed report. Slow readers
// miss reports. cancel must be called to release the subscription.
func (d *Device) Subscribe() (reports <-chan gamepad.Report, cancel func()) {
	ch := make(chan gamepad.Report, 16)
	d.mu.Lock()
	d.subs[ch] = struct{}{}
	ch <- d.last
	d.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, ch)
			d.mu.Unlock()
		})
	}
}

// Close closes the sinks.
func (d *Device) Close() error { return d.sinks.Close() }

// State is a point-in-time view of the device.
type State struct {
	Flags    gamepad.ModeFlags
	Table    mapping.Table
	Snapshot gamepad.Snapshot
	Report   gamepad.Report
	Reports  uint64
	Deferred uint64
	Drops    map[feature.DropReason]uint64
	LoadErr  error
	Holding  bool
}

// State returns the current state.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	drops := make(map[feature.DropReason]uint64, len(d.drops))
	for k, v := range d.drops {
		drops[k] = v
	}
	return State{
		Flags:    d.modes.Flags(),
		Table:    d.store.Table(),
		Snapshot: d.snap,
		Report:   d.last,
		Reports:  d.reports,
		Deferred: d.deferred,
		Drops:    drops,
		LoadErr:  d.loadErr,
		Holding:  d.modes.Holding(),
	}
}
