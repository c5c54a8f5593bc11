package apitypes

// Shared API response structs used by both handlers and clients.

type ApiError struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

// Slot is one physical button and the usage it reports.
type Slot struct {
	Button string `json:"button"`
	Usage  uint8  `json:"usage"`
	Name   string `json:"name"`
}

type MappingResponse struct {
	Table    []int  `json:"table"`
	Slots    []Slot `json:"slots"`
	Checksum uint8  `json:"checksum"`
	Saved    bool   `json:"saved,omitempty"`
}

type ControlResponse struct {
	Handled bool   `json:"handled"`
	Data    string `json:"data,omitempty"` // hex encoded IN data stage
}

type OutResponse struct {
	Accepted bool `json:"accepted"`
}

type ModeResponse struct {
	MappingEnabled bool   `json:"mappingEnabled"`
	DPad           string `json:"dpad"`
}

type Report struct {
	Raw    string   `json:"raw"` // hex encoded input report
	Usages []string `json:"usages"`
	Hat    string   `json:"hat"`
	X      uint8    `json:"x"`
	Y      uint8    `json:"y"`
	Z      uint8    `json:"z"`
	Rz     uint8    `json:"rz"`
}

type StateResponse struct {
	Mode     ModeResponse      `json:"mode"`
	Holding  bool              `json:"holding"`
	Table    []int             `json:"table"`
	Pressed  []string          `json:"pressed"`
	Report   Report            `json:"report"`
	Reports  uint64            `json:"reports"`
	Deferred uint64            `json:"deferred"`
	Drops    map[string]uint64 `json:"drops"`
	LoadErr  string            `json:"loadError,omitempty"`
}

type PressResponse struct {
	Pressed []string `json:"pressed"`
	HoldMs  int64    `json:"holdMs"`
}
