package model

// ItemType distinguishes solo items from team items. It selects which grade
// table applies to an item.
type ItemType string

const (
	ItemSingle ItemType = "single"
	ItemGroup  ItemType = "group"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemSingle, ItemGroup:
		return true
	default:
		return false
	}
}

// PerformanceType tells whether an item is performed on a stage.
type PerformanceType string

const (
	OnStage  PerformanceType = "on_stage"
	OffStage PerformanceType = "off_stage"
)

// Valid reports whether p is a known performance type.
func (p PerformanceType) Valid() bool {
	switch p {
	case OnStage, OffStage:
		return true
	default:
		return false
	}
}

// ResultStatus is the publication state of a result. Status only moves forward:
// not_uploaded -> uploaded -> declared.
type ResultStatus string

const (
	StatusNotUploaded ResultStatus = "not_uploaded"
	StatusUploaded    ResultStatus = "uploaded"
	StatusDeclared    ResultStatus = "declared"
)

// Stage returns the position of s in the publication lifecycle, or -1 when s
// is unknown.
func (s ResultStatus) Stage() int {
	switch s {
	case StatusNotUploaded:
		return 0
	case StatusUploaded:
		return 1
	case StatusDeclared:
		return 2
	default:
		return -1
	}
}

// Valid reports whether s is a known status.
func (s ResultStatus) Valid() bool { return s.Stage() >= 0 }

// CanAdvanceTo reports whether moving from s to next respects the forward-only
// lifecycle. Staying in place is allowed.
func (s ResultStatus) CanAdvanceTo(next ResultStatus) bool {
	return s.Valid() && next.Valid() && next.Stage() >= s.Stage()
}

// Position is a winner's placing. Zero means unplaced.
type Position int

const (
	Unplaced Position = 0
	First    Position = 1
	Second   Position = 2
	Third    Position = 3
)

// Placed reports whether p is one of the prize positions.
func (p Position) Placed() bool { return p >= First && p <= Third }

// Positions lists prize positions from champion down.
var Positions = [...]Position{First, Second, Third}

// GradeScope names one of the two grade tables.
type GradeScope int

const (
	ScopeSingle GradeScope = iota
	ScopeGroup
)

// Scope returns the grade table used by items of type t. Unknown types fall
// back to the single table.
func (t ItemType) Scope() GradeScope {
	switch t {
	case ItemGroup:
		return ScopeGroup
	case ItemSingle:
		return ScopeSingle
	default:
		return ScopeSingle
	}
}
