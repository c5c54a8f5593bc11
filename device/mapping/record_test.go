package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/device/mapping"
)

func TestCRC8(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint8
	}{
		{name: "empty", data: nil, want: 0x00},
		{name: "check string", data: []byte("123456789"), want: 0xF4},
		{name: "default record", data: append([]byte{0x01}, mapping.DefaultTable[:]...), want: 0x9D},
		{name: "all unassigned", data: make([]byte, 15), want: 0x00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapping.CRC8(tt.data))
		})
	}
}

func TestRecordValidate(t *testing.T) {
	good := mapping.NewRecord(mapping.Table{14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1})
	require.NoError(t, good.Validate())
	assert.Equal(t, uint8(0x9B), good.Checksum)

	tests := []struct {
		name    string
		mutate  func(r *mapping.Record)
		wantErr error
	}{
		{name: "untouched", mutate: func(*mapping.Record) {}},
		{name: "version bumped", mutate: func(r *mapping.Record) { r.Version = 0x02 }, wantErr: mapping.ErrVersionMismatch},
		{name: "erased version", mutate: func(r *mapping.Record) { r.Version = 0xFF }, wantErr: mapping.ErrVersionMismatch},
		{name: "checksum flipped", mutate: func(r *mapping.Record) { r.Checksum ^= 0x01 }, wantErr: mapping.ErrChecksumMismatch},
		{name: "table bit flipped", mutate: func(r *mapping.Record) { r.Table[7] ^= 0x10 }, wantErr: mapping.ErrChecksumMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := good
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordSingleBitFlipsDetected(t *testing.T) {
	r := mapping.DefaultRecord()
	b := r.Bytes()
	for i := 1; i < mapping.RecordSize-1; i++ {
		for bit := range 8 {
			flipped := b
			flipped[i] ^= 1 << bit
			assert.NotEqual(t, r.Checksum, mapping.CRC8(flipped[:mapping.RecordSize-1]), "byte %d bit %d", i, bit)
		}
	}
}

func TestRecordBytesLayout(t *testing.T) {
	r := mapping.DefaultRecord()
	b := r.Bytes()
	assert.Equal(t, mapping.FormatVersion, b[0])
	assert.Equal(t, mapping.DefaultTable[:], b[1:15])
	assert.Equal(t, r.Checksum, b[15])
}
