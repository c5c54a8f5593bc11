package hid

// UsagePage is a Global item (tag 0x0).
type UsagePage struct{ Page uint16 }

func (u UsagePage) encode(e *encoder) error {
	return e.short(0x0, ItemTypeGlobal, unsigned(uint32(u.Page)))
}

// LogicalMinimum is a Global item (tag 0x1).
type LogicalMinimum struct{ Min int32 }

func (l LogicalMinimum) encode(e *encoder) error {
	return e.short(0x1, ItemTypeGlobal, signed(l.Min))
}

// LogicalMaximum is a Global item (tag 0x2).
type LogicalMaximum struct{ Max int32 }

func (l LogicalMaximum) encode(e *encoder) error {
	return e.short(0x2, ItemTypeGlobal, signed(l.Max))
}

// ReportSize sets the field size in bits (Global, tag 0x7).
type ReportSize struct{ Bits uint8 }

func (r ReportSize) encode(e *encoder) error {
	return e.short(0x7, ItemTypeGlobal, Data{r.Bits})
}

// ReportID prefixes the following reports with an ID byte (Global, tag 0x8).
type ReportID struct{ ID uint8 }

func (r ReportID) encode(e *encoder) error {
	return e.short(0x8, ItemTypeGlobal, Data{r.ID})
}

// ReportCount sets the number of fields (Global, tag 0x9).
type ReportCount struct{ Count uint16 }

func (r ReportCount) encode(e *encoder) error {
	return e.short(0x9, ItemTypeGlobal, unsigned(uint32(r.Count)))
}

// Usage is a Local item (tag 0x0).
type Usage struct{ Usage uint16 }

func (u Usage) encode(e *encoder) error {
	return e.short(0x0, ItemTypeLocal, unsigned(uint32(u.Usage)))
}

// UsageMinimum is a Local item (tag 0x1).
type UsageMinimum struct{ Min uint16 }

func (u UsageMinimum) encode(e *encoder) error {
	return e.short(0x1, ItemTypeLocal, unsigned(uint32(u.Min)))
}

// UsageMaximum is a Local item (tag 0x2).
type UsageMaximum struct{ Max uint16 }

func (u UsageMaximum) encode(e *encoder) error {
	return e.short(0x2, ItemTypeLocal, unsigned(uint32(u.Max)))
}

// Collection wraps Items in a collection and closes it.
type Collection struct {
	Kind  CollectionKind
	Items []Item
}

func (c Collection) encode(e *encoder) error {
	if err := e.short(0xA, ItemTypeMain, Data{uint8(c.Kind)}); err != nil {
		return err
	}
	if err := e.items(c.Items); err != nil {
		return err
	}
	return e.short(0xC, ItemTypeMain, nil)
}

// Input is a Main item (tag 0x8).
type Input struct{ Flags MainFlags }

func (i Input) encode(e *encoder) error {
	return e.short(0x8, ItemTypeMain, Data{uint8(i.Flags)})
}

// Output is a Main item (tag 0x9).
type Output struct{ Flags MainFlags }

func (o Output) encode(e *encoder) error {
	return e.short(0x9, ItemTypeMain, Data{uint8(o.Flags)})
}

// Feature is a Main item (tag 0xB).
type Feature struct{ Flags MainFlags }

func (f Feature) encode(e *encoder) error {
	return e.short(0xB, ItemTypeMain, Data{uint8(f.Flags)})
}
