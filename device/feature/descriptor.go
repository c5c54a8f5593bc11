package feature

import "github.com/Alia5/padmap/usb/hid"

// MappingDescriptor is the interface 1 report descriptor: one vendor-defined
// 64-byte feature report with ID 1. The feature item is Data so hosts treat
// the table as writable.
var MappingDescriptor = hid.Report{Items: []hid.Item{
	hid.UsagePage{Page: hid.UsagePageVendor},
	hid.Usage{Usage: hid.UsageVendorMapping},
	hid.Collection{Kind: hid.CollectionApplication, Items: []hid.Item{
		hid.ReportID{ID: MappingReportID},
		hid.ReportSize{Bits: 8},
		hid.ReportCount{Count: ReportSize},
		hid.Feature{Flags: hid.MainData | hid.MainVar | hid.MainAbs},
	}},
}}
