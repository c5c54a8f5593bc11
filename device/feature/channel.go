package feature

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alia5/padmap/device/mapping"
	"github.com/Alia5/padmap/internal/log"
)

// Protocol addresses.
const (
	LegacyInterface  uint8 = 0
	LegacyReportID   uint8 = 2
	MappingInterface uint8 = 1
	MappingReportID  uint8 = 1

	// ReportSize is the size of both mapping reports.
	ReportSize = 64

	// JoystickEP is the interface 0 endpoint the legacy report arrives on.
	JoystickEP uint8 = 1
)

// mappingOffset is the index of the first table byte in a mapping report.
const mappingOffset = 1

// Store is the part of the mapping store the channel drives.
type Store interface {
	Table() mapping.Table
	Save(t mapping.Table) error
	Load() mapping.Record
}

// DropReason explains why a request was ignored.
type DropReason int

const (
	// DropBusy: a legacy SET arrived while a receive was outstanding.
	DropBusy DropReason = iota
	// DropBadTag: a completed legacy report did not start with its report ID.
	DropBadTag
	// DropIdle: a completion arrived with no receive armed or still running.
	DropIdle
)

func (r DropReason) String() string {
	switch r {
	case DropBusy:
		return "busy"
	case DropBadTag:
		return "bad-tag"
	case DropIdle:
		return "idle"
	}
	return fmt.Sprintf("drop(%d)", int(r))
}

// Options configures a Channel.
type Options struct {
	Receiver Receiver
	Endpoint uint8
	Logger   *slog.Logger
	Raw      log.RawLogger

	// Descriptors maps interface numbers to report descriptors served by
	// GET_DESCRIPTOR(Report).
	Descriptors map[uint8][]byte

	// OnDrop is called whenever a request is silently ignored.
	OnDrop func(reason DropReason, iface, reportID uint8)
}

// Channel multiplexes the mapping protocol over class requests on EP0.
//
// HandleControl and SetReportComplete must be called from one context at a
// time; the caller serializes them the way a USB interrupt would.
type Channel struct {
	store  Store
	rx     Receiver
	ep     uint8
	logger *slog.Logger
	raw    log.RawLogger
	descs  map[uint8][]byte
	onDrop func(DropReason, uint8, uint8)

	legacyBuf [ReportSize]byte
	legacyRx  RxHandle
}

// New creates a Channel writing through store.
func New(store Store, opts *Options) *Channel {
	if opts == nil {
		opts = &Options{}
	}
	c := &Channel{
		store:  store,
		rx:     opts.Receiver,
		ep:     opts.Endpoint,
		logger: opts.Logger,
		raw:    opts.Raw,
		descs:  opts.Descriptors,
		onDrop: opts.OnDrop,
	}
	if c.ep == 0 {
		c.ep = JoystickEP
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.raw == nil {
		c.raw = log.NewRaw(nil)
	}
	if c.descs == nil {
		c.descs = map[uint8][]byte{MappingInterface: MappingDescriptor.MustBytes()}
	}
	return c
}

// HandleControl processes one control request. data is the OUT data stage.
// handled is false when the request belongs to someone else; resp is the IN
// data stage, if any.
func (c *Channel) HandleControl(setup SetupPacket, data []byte) (resp []byte, handled bool) {
	if setup.IsStandard() && setup.Request == RequestGetDescriptor {
		return c.getDescriptor(setup)
	}
	if !setup.IsClass() {
		return nil, false
	}

	iface, rid := setup.Interface(), setup.ReportID()
	switch {
	case iface == LegacyInterface && rid == LegacyReportID && setup.Request == RequestSetReport:
		c.armLegacy()
		return nil, true

	case iface == MappingInterface && rid == MappingReportID:
		switch setup.Request {
		case RequestSetReport:
			c.raw.Log("SET mapping", data)
			c.SetFromFeatureReport(data)
			return nil, true
		case RequestGetReport:
			rep := c.MappingReport()
			c.raw.Log("GET mapping", rep)
			return truncate(rep, setup.Length), true
		}
	}
	c.logger.Log(context.Background(), log.LevelTrace, "control request passed through", "setup", setup.String())
	return nil, false
}

func (c *Channel) getDescriptor(setup SetupPacket) ([]byte, bool) {
	if setup.DescriptorType() != DescriptorTypeReport {
		return nil, false
	}
	d, ok := c.descs[setup.Interface()]
	if !ok {
		return nil, false
	}
	return truncate(d, setup.Length), true
}

func truncate(b []byte, n uint16) []byte {
	if n != 0 && int(n) < len(b) {
		return b[:n]
	}
	return b
}

// SetFromFeatureReport applies an interface 1 SET_REPORT payload. Byte 0 is
// reserved; up to 14 table bytes follow. Slots the payload does not reach
// keep their current value. The store is reloaded after saving.
func (c *Channel) SetFromFeatureReport(payload []byte) {
	t := c.store.Table()
	n := 0
	if len(payload) > mappingOffset {
		n = copy(t[:], payload[mappingOffset:])
	}

	if err := c.store.Save(t); err != nil {
		c.logger.Warn("mapping feature report not persisted", "error", err)
	}
	rec := c.store.Load()
	c.logger.Info("mapping updated", "interface", MappingInterface, "bytes", n, "table", rec.Table)
}

// MappingReport returns the interface 1 GET_REPORT payload: a zero byte, the
// working table, then zero padding to ReportSize.
func (c *Channel) MappingReport() []byte {
	out := make([]byte, ReportSize)
	t := c.store.Table()
	copy(out[mappingOffset:], t[:])
	return out
}

func (c *Channel) armLegacy() {
	if c.rx == nil {
		c.drop(DropIdle, LegacyInterface, LegacyReportID)
		return
	}
	if c.legacyRx != nil && c.legacyRx.Busy() {
		c.drop(DropBusy, LegacyInterface, LegacyReportID)
		return
	}
	c.legacyBuf = [ReportSize]byte{}
	c.legacyRx = c.rx.Receive(c.ep, c.legacyBuf[:])
	c.logger.Debug("legacy mapping receive armed", "ep", c.ep)
}

// LegacyPending reports whether a legacy receive is armed and not yet
// consumed by SetReportComplete.
func (c *Channel) LegacyPending() bool { return c.legacyRx != nil }

// SetReportComplete consumes a finished legacy receive. The buffer is applied
// only when its first byte is the legacy report ID. Either way the buffer and
// handle are cleared.
func (c *Channel) SetReportComplete() {
	if c.legacyRx == nil || c.legacyRx.Busy() {
		c.drop(DropIdle, LegacyInterface, LegacyReportID)
		return
	}
	c.raw.Log("OUT legacy mapping", c.legacyBuf[:])
	if c.legacyBuf[0] == LegacyReportID {
		var t mapping.Table
		copy(t[:], c.legacyBuf[mappingOffset:mappingOffset+mapping.NumButtons])
		if err := c.store.Save(t); err != nil {
			c.logger.Warn("legacy mapping report not persisted", "error", err)
		} else {
			c.logger.Info("mapping updated", "interface", LegacyInterface, "table", t)
		}
	} else {
		c.drop(DropBadTag, LegacyInterface, LegacyReportID)
	}
	c.legacyBuf = [ReportSize]byte{}
	c.legacyRx = nil
}

func (c *Channel) drop(reason DropReason, iface, rid uint8) {
	c.logger.Debug("feature request dropped", "reason", reason, "interface", iface, "reportId", rid)
	if c.onDrop != nil {
		c.onDrop(reason, iface, rid)
	}
}
