package ot

import (
	"sort"

	"github.com/npillmayer/recmono/internal/fontload"
)

// Font represents the table directory of an OpenType font, together with typed
// access to the tables a code font post-processor has to touch.
type Font struct {
	F             *fontload.ScalableFont
	Header        *FontHeader
	tables        map[Tag]Table
	parseErrors   []FontError   // Errors accumulated during parsing
	parseWarnings []FontWarning // Warnings accumulated during parsing
}

// FontHeader is the start of the directory of the top-level tables in a font.
// If the font file contains only one font, the table directory will begin at
// byte 0 of the file. For font collections, the beginning of each font's
// table directory is given in the collection header.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Font types as found at the start of a table directory.
const (
	FontTypeTrueType = fontload.TagTrueType
	FontTypeCFF      = fontload.TagCFF
	FontTypeApple    = fontload.TagApple
)

// NewFont creates an empty font of the given type. Tables are added with
// SetTable.
func NewFont(fontType uint32) *Font {
	return &Font{
		Header: &FontHeader{FontType: fontType},
		tables: make(map[Tag]Table),
	}
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Table tag names are case-sensitive, following the names in the OpenType
// specification, e.g. "OS/2", "post" or "STAT".
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// HasTable reports whether the font contains a table for tag.
func (otf *Font) HasTable(tag Tag) bool {
	_, ok := otf.tables[tag]
	return ok
}

// TableTags returns the tags of all tables contained in the font, in
// ascending order.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// SetTable adds a table to the font, replacing an existing table with the
// same tag. The data is interpreted the same way Parse does, i.e. tables
// with typed views must be well-formed.
func (otf *Font) SetTable(tag Tag, data []byte) error {
	ec := &errorCollector{}
	t, err := parseTable(tag, binarySegm(data), 0, uint32(len(data)), ec)
	if err != nil {
		return err
	}
	otf.tables[tag] = t
	otf.Header.TableCount = uint16(len(otf.tables))
	return nil
}

// RemoveTable drops the table for tag from the font. It returns false if the
// font does not contain such a table.
func (otf *Font) RemoveTable(tag Tag) bool {
	if _, ok := otf.tables[tag]; !ok {
		return false
	}
	delete(otf.tables, tag)
	otf.Header.TableCount = uint16(len(otf.tables))
	tracer().Debugf("removed table %s", tag)
	return true
}

// Head returns the head table, or nil.
func (otf *Font) Head() *HeadTable {
	if t := otf.Table(T("head")); t != nil {
		return t.Self().AsHead()
	}
	return nil
}

// OS2 returns the OS/2 table, or nil.
func (otf *Font) OS2() *OS2Table {
	if t := otf.Table(T("OS/2")); t != nil {
		return t.Self().AsOS2()
	}
	return nil
}

// Post returns the post table, or nil.
func (otf *Font) Post() *PostTable {
	if t := otf.Table(T("post")); t != nil {
		return t.Self().AsPost()
	}
	return nil
}

// FVar returns the font variations table, or nil for static fonts.
func (otf *Font) FVar() *FVarTable {
	if t := otf.Table(T("fvar")); t != nil {
		return t.Self().AsFVar()
	}
	return nil
}

// IsVariable reports whether the font defines a design space.
func (otf *Font) IsVariable() bool {
	fvar := otf.FVar()
	return fvar != nil && len(fvar.Axes) > 0
}

// Errors returns all errors encountered during font parsing which did not
// stop parsing.
func (otf *Font) Errors() []FontError {
	if otf.parseErrors == nil {
		return []FontError{}
	}
	return otf.parseErrors
}

// Warnings returns all warnings encountered during font parsing.
func (otf *Font) Warnings() []FontWarning {
	if otf.parseWarnings == nil {
		return []FontWarning{}
	}
	return otf.parseWarnings
}

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType specification as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes.
// If b is shorter or longer, it will be silently extended or cut as appropriate
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the OpenType font tables.
//
// Tables without a typed view are kept as generic tables holding their bytes.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   any
}

// Extent returns offset and byte size of this table within the OpenType font.
// For tables added with SetTable the offset is 0.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. It is a view into the font's data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) any {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if h, ok := safeSelf(tself).(*HeadTable); ok {
		return h
	}
	return nil
}

// AsOS2 returns this table as an OS/2 table, or nil.
func (tself TableSelf) AsOS2() *OS2Table {
	if o, ok := safeSelf(tself).(*OS2Table); ok {
		return o
	}
	return nil
}

// AsPost returns this table as a post table, or nil.
func (tself TableSelf) AsPost() *PostTable {
	if p, ok := safeSelf(tself).(*PostTable); ok {
		return p
	}
	return nil
}

// AsFVar returns this table as a font variations table, or nil.
func (tself TableSelf) AsFVar() *FVarTable {
	if f, ok := safeSelf(tself).(*FVarTable); ok {
		return f
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if m, ok := safeSelf(tself).(*MaxPTable); ok {
		return m
	}
	return nil
}
