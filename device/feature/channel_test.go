package feature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/device/feature"
	"github.com/Alia5/padmap/device/mapping"
	"github.com/Alia5/padmap/hal/nvm"
)

type drop struct {
	reason     feature.DropReason
	iface, rid uint8
}

type fixture struct {
	mem   *nvm.Memory
	store *mapping.Store
	ep    *feature.VirtualEndpoint
	ch    *feature.Channel
	drops []drop
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{mem: nvm.NewMemory(nvm.HEFGeometry), ep: feature.NewVirtualEndpoint()}
	f.store = mapping.New(f.mem, nil)
	f.store.Load()
	f.ch = feature.New(f.store, &feature.Options{
		Receiver: f.ep,
		OnDrop: func(r feature.DropReason, iface, rid uint8) {
			f.drops = append(f.drops, drop{r, iface, rid})
		},
	})
	return f
}

func setMapping(payload []byte) feature.SetupPacket {
	return feature.ClassRequest(feature.RequestSetReport, feature.ReportTypeFeature, 1, 1, uint16(len(payload)))
}

func TestMappingSetPartial(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    mapping.Table
	}{
		{name: "empty", payload: nil, want: mapping.DefaultTable},
		{name: "zero length data stage", payload: []byte{}, want: mapping.DefaultTable},
		{name: "reserved byte only", payload: []byte{0}, want: mapping.DefaultTable},
		{name: "three slots", payload: []byte{0, 5, 6, 7}, want: mapping.Table{5, 6, 7, 4, 5, 6, 7, 8, 10, 11, 14, 13, 12, 9}},
		{
			name:    "full report",
			payload: append([]byte{0, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, make([]byte, 49)...),
			want:    mapping.Table{14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
		},
		{name: "reserved byte is not validated", payload: []byte{0xAA, 3}, want: mapping.Table{3, 2, 3, 4, 5, 6, 7, 8, 10, 11, 14, 13, 12, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp, handled := f.ch.HandleControl(setMapping(tt.payload), tt.payload)
			assert.True(t, handled)
			assert.Nil(t, resp)
			assert.Equal(t, tt.want, f.store.Table())

			rebooted := mapping.New(f.mem, nil)
			assert.Equal(t, tt.want, rebooted.Load().Table, "persisted")
		})
	}
}

func TestMappingSetKeepsPersistedSlots(t *testing.T) {
	f := newFixture(t)
	full := []byte{0, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	f.ch.HandleControl(setMapping(full), full)
	f.ch.HandleControl(setMapping([]byte{0, 1}), []byte{0, 1})
	assert.Equal(t, mapping.Table{1, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, f.store.Table())
}

func TestMappingGet(t *testing.T) {
	f := newFixture(t)
	payload := []byte{0, 9, 8, 7}
	f.ch.HandleControl(setMapping(payload), payload)

	get := feature.ClassRequest(feature.RequestGetReport, feature.ReportTypeFeature, 1, 1, feature.ReportSize)
	resp, handled := f.ch.HandleControl(get, nil)
	require.True(t, handled)
	require.Len(t, resp, feature.ReportSize)
	assert.Equal(t, byte(0), resp[0])
	assert.Equal(t, []byte{9, 8, 7, 4, 5, 6, 7, 8, 10, 11, 14, 13, 12, 9}, resp[1:15])
	assert.Equal(t, make([]byte, feature.ReportSize-15), resp[15:])

	get.Length = 8
	resp, handled = f.ch.HandleControl(get, nil)
	require.True(t, handled)
	assert.Len(t, resp, 8)
}

func TestLegacyReceive(t *testing.T) {
	set := feature.ClassRequest(feature.RequestSetReport, feature.ReportTypeOutput, 2, 0, feature.ReportSize)

	t.Run("applies tagged report", func(t *testing.T) {
		f := newFixture(t)
		_, handled := f.ch.HandleControl(set, nil)
		require.True(t, handled)
		require.True(t, f.ep.Armed())
		assert.Equal(t, mapping.DefaultTable, f.store.Table(), "nothing applied before completion")

		buf := make([]byte, feature.ReportSize)
		buf[0] = 2
		copy(buf[1:], []byte{14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1})
		n, ok := f.ep.Deliver(buf)
		require.True(t, ok)
		require.Equal(t, feature.ReportSize, n)

		f.ch.SetReportComplete()
		assert.Equal(t, mapping.Table{14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, f.store.Table())
		assert.False(t, f.ch.LegacyPending())
		assert.Empty(t, f.drops)
	})

	t.Run("drops while busy", func(t *testing.T) {
		f := newFixture(t)
		f.ch.HandleControl(set, nil)
		_, handled := f.ch.HandleControl(set, nil)
		assert.True(t, handled)
		assert.Equal(t, []drop{{feature.DropBusy, 0, 2}}, f.drops)
	})

	t.Run("discards bad tag", func(t *testing.T) {
		f := newFixture(t)
		f.ch.HandleControl(set, nil)
		buf := make([]byte, feature.ReportSize)
		buf[0] = 1
		buf[1] = 9
		f.ep.Deliver(buf)
		f.ch.SetReportComplete()

		assert.Equal(t, mapping.DefaultTable, f.store.Table())
		_, writes := f.mem.Counts()
		assert.Zero(t, writes)
		assert.Equal(t, []drop{{feature.DropBadTag, 0, 2}}, f.drops)
		assert.False(t, f.ch.LegacyPending(), "handle cleared either way")

		f.ch.HandleControl(set, nil)
		assert.True(t, f.ep.Armed(), "re-arms after completion")
	})

	t.Run("completion before delivery is ignored", func(t *testing.T) {
		f := newFixture(t)
		f.ch.SetReportComplete()
		f.ch.HandleControl(set, nil)
		f.ch.SetReportComplete()
		assert.True(t, f.ch.LegacyPending())
		assert.Equal(t, []drop{{feature.DropIdle, 0, 2}, {feature.DropIdle, 0, 2}}, f.drops)
	})

	t.Run("short delivery zero fills", func(t *testing.T) {
		f := newFixture(t)
		f.ch.HandleControl(set, nil)
		f.ep.Deliver([]byte{2, 3, 3})
		f.ch.SetReportComplete()
		assert.Equal(t, mapping.Table{3, 3}, f.store.Table())
	})
}

func TestPassThrough(t *testing.T) {
	tests := []struct {
		name  string
		setup feature.SetupPacket
	}{
		{name: "iface 0 report 1", setup: feature.ClassRequest(feature.RequestSetReport, feature.ReportTypeFeature, 1, 0, 2)},
		{name: "iface 1 report 2", setup: feature.ClassRequest(feature.RequestSetReport, feature.ReportTypeFeature, 2, 1, 2)},
		{name: "iface 2", setup: feature.ClassRequest(feature.RequestGetReport, feature.ReportTypeFeature, 1, 2, 64)},
		{name: "legacy get", setup: feature.ClassRequest(feature.RequestGetReport, feature.ReportTypeOutput, 2, 0, 64)},
		{name: "set idle", setup: feature.SetupPacket{RequestType: 0x21, Request: 0x0A, Index: 1}},
		{name: "vendor", setup: feature.SetupPacket{RequestType: 0x41, Request: 0x09, Value: 0x0301, Index: 1}},
		{name: "standard get status", setup: feature.SetupPacket{RequestType: 0x80, Request: 0x00, Length: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp, handled := f.ch.HandleControl(tt.setup, []byte{0, 1})
			assert.False(t, handled)
			assert.Nil(t, resp)
			assert.Equal(t, mapping.DefaultTable, f.store.Table())
			assert.False(t, f.ep.Armed())
		})
	}
}

func TestGetReportDescriptor(t *testing.T) {
	f := newFixture(t)
	get := feature.SetupPacket{RequestType: 0x81, Request: feature.RequestGetDescriptor, Value: 0x2200, Index: 1, Length: 0xFF}
	resp, handled := f.ch.HandleControl(get, nil)
	require.True(t, handled)
	assert.Equal(t, []byte{
		0x06, 0x00, 0xFF,
		0x09, 0x01,
		0xA1, 0x01,
		0x85, 0x01,
		0x75, 0x08, 0x95, 0x40,
		0xB1, 0x02, // Data,Var,Abs: host-writable
		0xC0,
	}, resp)

	get.Index = 0
	_, handled = f.ch.HandleControl(get, nil)
	assert.False(t, handled, "interface 0 descriptor not registered")

	get.Index = 1
	get.Value = 0x2100
	_, handled = f.ch.HandleControl(get, nil)
	assert.False(t, handled)
}

func TestSetupPacket(t *testing.T) {
	raw := []byte{0xA1, 0x01, 0x01, 0x03, 0x01, 0x00, 0x40, 0x00}
	var s feature.SetupPacket
	require.NoError(t, feature.ParseSetupPacket(raw, &s))
	assert.True(t, s.IsClass())
	assert.True(t, s.IsDeviceToHost())
	assert.Equal(t, uint8(1), s.ReportID())
	assert.Equal(t, uint8(feature.ReportTypeFeature), s.ReportType())
	assert.Equal(t, uint8(1), s.Interface())
	assert.Equal(t, uint16(64), s.Length)

	assert.Equal(t, feature.ClassRequest(feature.RequestGetReport, feature.ReportTypeFeature, 1, 1, 64), s)
	out, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	assert.ErrorIs(t, feature.ParseSetupPacket(raw[:7], &s), feature.ErrSetupTooShort)
}
