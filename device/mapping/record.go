// Package mapping owns the persisted button-to-usage table of the gamepad.
//
// The table is stored as a small versioned record protected by a CRC-8. A
// record that fails validation is never partially trusted: the whole table is
// replaced by DefaultTable for the running session.
package mapping

import "errors"

const (
	// NumButtons is the number of physical button slots in a table.
	NumButtons = 14

	// MaxUsage is the highest assignable usage value. 0 means unassigned.
	MaxUsage uint8 = 14

	// FormatVersion tags the current on-flash record layout.
	FormatVersion uint8 = 0x01

	// RecordSize is the logical payload size: version, table, checksum.
	RecordSize = 1 + NumButtons + 1
)

var (
	ErrVersionMismatch  = errors.New("mapping: record version mismatch")
	ErrChecksumMismatch = errors.New("mapping: record checksum mismatch")
	ErrRowTooShort      = errors.New("mapping: storage row too short")
)

// Table holds one usage value per physical button index.
type Table [NumButtons]uint8

// DefaultTable is used whenever the persisted record is missing or corrupt.
//
//	A→1 B→2 C→3 X→4 Y→5 Z→6 L1→7 R1→8 L2→10 R2→11 LS→14 RS→13 Home→12 spare→9
var DefaultTable = Table{1, 2, 3, 4, 5, 6, 7, 8, 10, 11, 14, 13, 12, 9}

// Record is the persisted configuration.
type Record struct {
	Version  uint8
	Table    Table
	Checksum uint8
}

// NewRecord stamps the current version on t and computes its checksum.
func NewRecord(t Table) Record {
	r := Record{Version: FormatVersion, Table: t}
	r.Checksum = r.ComputeChecksum()
	return r
}

// DefaultRecord returns a valid record carrying DefaultTable.
func DefaultRecord() Record { return NewRecord(DefaultTable) }

// Bytes returns the record in storage order.
func (r Record) Bytes() [RecordSize]byte {
	var b [RecordSize]byte
	b[0] = r.Version
	copy(b[1:1+NumButtons], r.Table[:])
	b[RecordSize-1] = r.Checksum
	return b
}

// ComputeChecksum returns the CRC-8 over version and table.
func (r Record) ComputeChecksum() uint8 {
	b := r.Bytes()
	return CRC8(b[:RecordSize-1])
}

// Validate reports why r cannot be trusted, or nil when it can.
func (r Record) Validate() error {
	if r.Version != FormatVersion {
		return ErrVersionMismatch
	}
	if r.Checksum != r.ComputeChecksum() {
		return ErrChecksumMismatch
	}
	return nil
}

// CRC8 computes a CRC-8 with polynomial 0x07, initial value 0 and no
// reflection.
func CRC8(data []byte) uint8 {
	var c uint8
	for _, b := range data {
		c ^= b
		for range 8 {
			if c&0x80 != 0 {
				c = c<<1 ^ 0x07
			} else {
				c <<= 1
			}
		}
	}
	return c
}
