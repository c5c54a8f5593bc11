package mapping

// RowCodec packs a Record into one flash row of 16-bit words.
//
// Each record byte occupies the low byte of its own word. Programmed words
// carry DataMask in the high byte, unused words hold Erased.
type RowCodec struct {
	Words    int
	Erased   uint16
	DataMask uint16
}

// HEFCodec matches the 14-bit high-endurance flash of the reference board:
// 32 words per row, erased words read 0x3FFF, data words are 0x3F00|byte.
var HEFCodec = RowCodec{Words: 32, Erased: 0x3FFF, DataMask: 0x3F00}

// ByteCodec suits byte-wide media that erase to 0xFF.
var ByteCodec = RowCodec{Words: RecordSize, Erased: 0x00FF, DataMask: 0x0000}

// Serialize returns the full row image for r.
func (c RowCodec) Serialize(r Record) []uint16 {
	n := max(c.Words, RecordSize)
	row := make([]uint16, n)
	for i := range row {
		row[i] = c.Erased
	}
	b := r.Bytes()
	for i, v := range b {
		row[i] = c.DataMask | uint16(v)
	}
	return row
}

// Deserialize extracts a Record from the low byte of each word. It does not
// validate the record; ok is false only when the row is too short.
func (c RowCodec) Deserialize(row []uint16) (r Record, ok bool) {
	if len(row) < RecordSize {
		return Record{}, false
	}
	r.Version = uint8(row[0])
	for i := range NumButtons {
		r.Table[i] = uint8(row[1+i])
	}
	r.Checksum = uint8(row[RecordSize-1])
	return r, true
}
