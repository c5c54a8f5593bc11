package handler

import (
	"encoding/hex"
	"encoding/json"

	"github.com/Alia5/padmap/apitypes"
	"github.com/Alia5/padmap/device/gamepad"
	"github.com/Alia5/padmap/device/mapping"
	"github.com/Alia5/padmap/internal/emulator"
	"github.com/Alia5/padmap/internal/server/api"
)

func reply(res *api.Response, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res.JSON = string(b)
	return nil
}

func tableInts(t mapping.Table) []int {
	out := make([]int, len(t))
	for i, u := range t {
		out[i] = int(u)
	}
	return out
}

func mappingResponse(rec mapping.Record) apitypes.MappingResponse {
	out := apitypes.MappingResponse{
		Table:    tableInts(rec.Table),
		Checksum: rec.Checksum,
	}
	for i, u := range rec.Table {
		out.Slots = append(out.Slots, apitypes.Slot{
			Button: gamepad.Button(i).String(),
			Usage:  u,
			Name:   gamepad.Usage(u).String(),
		})
	}
	return out
}

// ReportJSON converts an input report to its API form.
func ReportJSON(r gamepad.Report) apitypes.Report {
	raw, _ := r.MarshalBinary()
	out := apitypes.Report{
		Raw:    hex.EncodeToString(raw),
		Usages: []string{},
		Hat:    r.Hat.String(),
		X:      r.X,
		Y:      r.Y,
		Z:      r.Z,
		Rz:     r.Rz,
	}
	for _, u := range r.Usages() {
		out.Usages = append(out.Usages, u.String())
	}
	return out
}

func modeResponse(f gamepad.ModeFlags) apitypes.ModeResponse {
	return apitypes.ModeResponse{MappingEnabled: f.MappingEnabled, DPad: f.DPad.String()}
}

func stateResponse(st emulator.State) apitypes.StateResponse {
	out := apitypes.StateResponse{
		Mode:     modeResponse(st.Flags),
		Holding:  st.Holding,
		Table:    tableInts(st.Table),
		Pressed:  st.Snapshot.Names(),
		Report:   ReportJSON(st.Report),
		Reports:  st.Reports,
		Deferred: st.Deferred,
		Drops:    map[string]uint64{},
	}
	if out.Pressed == nil {
		out.Pressed = []string{}
	}
	for reason, n := range st.Drops {
		out.Drops[reason.String()] = n
	}
	if st.LoadErr != nil {
		out.LoadErr = st.LoadErr.Error()
	}
	return out
}
