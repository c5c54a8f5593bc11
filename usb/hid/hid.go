// Package hid encodes HID report descriptors from a small tree of items.
package hid

import "fmt"

// Data is the encoded form of a descriptor or item payload.
type Data []uint8

// ItemType is the type field of a short item header.
type ItemType uint8

const (
	ItemTypeMain   ItemType = 0
	ItemTypeGlobal ItemType = 1
	ItemTypeLocal  ItemType = 2
)

// Item is one node in a report descriptor.
type Item interface {
	encode(e *encoder) error
}

// Report is a complete report descriptor.
type Report struct {
	Items []Item
}

// Bytes encodes the descriptor.
func (r Report) Bytes() (Data, error) {
	e := &encoder{}
	if err := e.items(r.Items); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// MustBytes encodes a descriptor that is known to be well formed.
func (r Report) MustBytes() Data {
	b, err := r.Bytes()
	if err != nil {
		panic(err)
	}
	return b
}

type encoder struct {
	buf Data
}

func (e *encoder) items(items []Item) error {
	for _, it := range items {
		if it == nil {
			return fmt.Errorf("hid: nil item")
		}
		if err := it.encode(e); err != nil {
			return err
		}
	}
	return nil
}

// short appends a short item; data must be 0, 1, 2 or 4 bytes.
func (e *encoder) short(tag uint8, typ ItemType, data Data) error {
	var size uint8
	switch len(data) {
	case 0, 1, 2:
		size = uint8(len(data))
	case 4:
		size = 3
	default:
		return fmt.Errorf("hid: short item data must be 0/1/2/4 bytes, got %d", len(data))
	}
	e.buf = append(e.buf, tag<<4|uint8(typ)<<2|size)
	e.buf = append(e.buf, data...)
	return nil
}

func unsigned(v uint32) Data {
	switch {
	case v <= 0xFF:
		return Data{uint8(v)}
	case v <= 0xFFFF:
		return Data{uint8(v), uint8(v >> 8)}
	}
	return Data{uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24)}
}

func signed(v int32) Data {
	switch {
	case v >= -128 && v <= 127:
		return Data{uint8(v)}
	case v >= -32768 && v <= 32767:
		u := uint16(int16(v))
		return Data{uint8(u), uint8(u >> 8)}
	}
	u := uint32(v)
	return Data{uint8(u), uint8(u >> 8), uint8(u >> 16), uint8(u >> 24)}
}
