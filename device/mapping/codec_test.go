package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/device/mapping"
)

func TestRowCodec(t *testing.T) {
	rec := mapping.NewRecord(mapping.Table{14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1})

	tests := []struct {
		name      string
		codec     mapping.RowCodec
		wantWords int
		wantFirst uint16
		wantPad   uint16
	}{
		{name: "hef", codec: mapping.HEFCodec, wantWords: 32, wantFirst: 0x3F01, wantPad: 0x3FFF},
		{name: "byte", codec: mapping.ByteCodec, wantWords: mapping.RecordSize, wantFirst: 0x0001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := tt.codec.Serialize(rec)
			require.Len(t, row, tt.wantWords)
			assert.Equal(t, tt.wantFirst, row[0])
			assert.Equal(t, tt.codec.DataMask|uint16(rec.Checksum), row[mapping.RecordSize-1])
			for i := mapping.RecordSize; i < len(row); i++ {
				assert.Equal(t, tt.wantPad, row[i], "word %d", i)
			}

			got, ok := tt.codec.Deserialize(row)
			require.True(t, ok)
			assert.Equal(t, rec, got)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestRowCodecDeserializeShortRow(t *testing.T) {
	_, ok := mapping.HEFCodec.Deserialize(make([]uint16, mapping.RecordSize-1))
	assert.False(t, ok)
}

func TestRowCodecErasedRowIsInvalid(t *testing.T) {
	row := make([]uint16, 32)
	for i := range row {
		row[i] = 0x3FFF
	}
	rec, ok := mapping.HEFCodec.Deserialize(row)
	require.True(t, ok)
	assert.ErrorIs(t, rec.Validate(), mapping.ErrVersionMismatch)
}
