package hid

// Usage pages used by the gamepad descriptors.
const (
	UsagePageGenericDesktop uint16 = 0x01
	UsagePageButton         uint16 = 0x09
	UsagePageVendor         uint16 = 0xFF00
)

// Generic Desktop usages.
const (
	UsageJoystick  uint16 = 0x04
	UsageGamePad   uint16 = 0x05
	UsageX         uint16 = 0x30
	UsageY         uint16 = 0x31
	UsageZ         uint16 = 0x32
	UsageRz        uint16 = 0x35
	UsageHatSwitch uint16 = 0x39
)

// UsageVendorMapping is the vendor usage of the mapping configuration
// collection.
const UsageVendorMapping uint16 = 0x01

// CollectionKind is the data byte of a Collection item.
type CollectionKind uint8

const (
	CollectionPhysical    CollectionKind = 0x00
	CollectionApplication CollectionKind = 0x01
)

// MainFlags is the data byte of Input, Output and Feature items.
type MainFlags uint8

const (
	MainData  MainFlags = 0x00
	MainConst MainFlags = 0x01
	MainArray MainFlags = 0x00
	MainVar   MainFlags = 0x02
	MainAbs   MainFlags = 0x00
	MainRel   MainFlags = 0x04

	MainNullState MainFlags = 0x40
)
