package gamepad

import "github.com/Alia5/padmap/usb/hid"

// LegacyOutReportSize is the size of the interface 0 OUT report carrying a
// tagged mapping table.
const LegacyOutReportSize = 64

// Descriptor is the interface 0 report descriptor: 14 buttons, a hat switch,
// four axes and the legacy 64-byte OUT report. Interface 0 uses no report IDs.
var Descriptor = hid.Report{Items: []hid.Item{
	hid.UsagePage{Page: hid.UsagePageGenericDesktop},
	hid.Usage{Usage: hid.UsageGamePad},
	hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
		hid.UsagePage{Page: hid.UsagePageButton},
		hid.UsageMinimum{Min: 1},
		hid.UsageMaximum{Max: NumButtons},
		hid.LogicalMinimum{Min: 0},
		hid.LogicalMaximum{Max: 1},
		hid.ReportSize{Bits: 1},
		hid.ReportCount{Count: NumButtons},
		hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainAbs},
		hid.ReportCount{Count: 2},
		hid.Input{Flags: hid.MainConst},

		hid.UsagePage{Page: hid.UsagePageGenericDesktop},
		hid.Usage{Usage: hid.UsageHatSwitch},
		hid.LogicalMaximum{Max: 7},
		hid.ReportSize{Bits: 4},
		hid.ReportCount{Count: 1},
		hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainAbs | hid.MainNullState},
		hid.Input{Flags: hid.MainConst},

		hid.Usage{Usage: hid.UsageX},
		hid.Usage{Usage: hid.UsageY},
		hid.Usage{Usage: hid.UsageZ},
		hid.Usage{Usage: hid.UsageRz},
		hid.LogicalMaximum{Max: 255},
		hid.ReportSize{Bits: 8},
		hid.ReportCount{Count: 4},
		hid.Input{Flags: hid.MainData | hid.MainVar | hid.MainAbs},

		hid.UsagePage{Page: hid.UsagePageVendor},
		hid.Usage{Usage: 0x02},
		hid.ReportCount{Count: LegacyOutReportSize},
		hid.Output{Flags: hid.MainData | hid.MainVar | hid.MainAbs},
	}},
}}
