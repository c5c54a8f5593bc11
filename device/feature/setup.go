// Package feature carries the mapping configuration protocol over HID
// feature reports on the control endpoint.
package feature

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Standard and HID class request codes.
const (
	RequestGetReport     = 0x01
	RequestGetDescriptor = 0x06
	RequestSetReport     = 0x09
)

// HID report types carried in the high byte of wValue.
const (
	ReportTypeInput   = 0x01
	ReportTypeOutput  = 0x02
	ReportTypeFeature = 0x03
)

// DescriptorTypeReport selects a HID report descriptor in GET_DESCRIPTOR.
const DescriptorTypeReport = 0x22

// bmRequestType fields.
const (
	RequestTypeDirectionMask = 0x80
	RequestTypeTypeMask      = 0x60
	RequestTypeRecipientMask = 0x1F

	RequestDirectionHostToDevice = 0x00
	RequestDirectionDeviceToHost = 0x80

	RequestTypeStandard = 0x00
	RequestTypeClass    = 0x20
	RequestTypeVendor   = 0x40

	RequestRecipientInterface = 0x01
)

// SetupPacketSize is the size of a SETUP packet.
const SetupPacketSize = 8

var ErrSetupTooShort = errors.New("feature: setup packet too short")

// SetupPacket is a USB SETUP packet.
type SetupPacket struct {
	RequestType uint8
	Request     uint8
	Value       uint16
	Index       uint16
	Length      uint16
}

// ParseSetupPacket decodes 8 bytes into out.
func ParseSetupPacket(data []byte, out *SetupPacket) error {
	if len(data) < SetupPacketSize {
		return ErrSetupTooShort
	}
	out.RequestType = data[0]
	out.Request = data[1]
	out.Value = binary.LittleEndian.Uint16(data[2:4])
	out.Index = binary.LittleEndian.Uint16(data[4:6])
	out.Length = binary.LittleEndian.Uint16(data[6:8])
	return nil
}

// MarshalBinary encodes the packet in wire order.
func (s *SetupPacket) MarshalBinary() ([]byte, error) {
	b := make([]byte, SetupPacketSize)
	b[0] = s.RequestType
	b[1] = s.Request
	binary.LittleEndian.PutUint16(b[2:4], s.Value)
	binary.LittleEndian.PutUint16(b[4:6], s.Index)
	binary.LittleEndian.PutUint16(b[6:8], s.Length)
	return b, nil
}

// ClassRequest builds an interface-recipient HID class request.
func ClassRequest(request, reportType, reportID, iface uint8, length uint16) SetupPacket {
	dir := uint8(RequestDirectionHostToDevice)
	if request == RequestGetReport {
		dir = RequestDirectionDeviceToHost
	}
	return SetupPacket{
		RequestType: dir | RequestTypeClass | RequestRecipientInterface,
		Request:     request,
		Value:       uint16(reportType)<<8 | uint16(reportID),
		Index:       uint16(iface),
		Length:      length,
	}
}

// IsClass reports whether this is a class-specific request.
func (s *SetupPacket) IsClass() bool { return s.RequestType&RequestTypeTypeMask == RequestTypeClass }

// IsStandard reports whether this is a standard request.
func (s *SetupPacket) IsStandard() bool {
	return s.RequestType&RequestTypeTypeMask == RequestTypeStandard
}

// IsDeviceToHost reports whether the data stage is IN.
func (s *SetupPacket) IsDeviceToHost() bool {
	return s.RequestType&RequestTypeDirectionMask == RequestDirectionDeviceToHost
}

// ReportID is the low byte of wValue.
func (s *SetupPacket) ReportID() uint8 { return uint8(s.Value) }

// ReportType is the high byte of wValue.
func (s *SetupPacket) ReportType() uint8 { return uint8(s.Value >> 8) }

// DescriptorType is the high byte of wValue in GET_DESCRIPTOR.
func (s *SetupPacket) DescriptorType() uint8 { return uint8(s.Value >> 8) }

// Interface is the low byte of wIndex.
func (s *SetupPacket) Interface() uint8 { return uint8(s.Index) }

func (s *SetupPacket) String() string {
	dir := "OUT"
	if s.IsDeviceToHost() {
		dir = "IN"
	}
	return fmt.Sprintf("SETUP[%s type=0x%02X] req=0x%02X value=0x%04X index=0x%04X len=%d",
		dir, s.RequestType, s.Request, s.Value, s.Index, s.Length)
}
