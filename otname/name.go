package otname

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/npillmayer/recmono/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize    = 6
	nameRecordSize    = 12
	langTagRecordSize = 4
)

var (
	// ErrNotFound is returned for names the table does not contain.
	ErrNotFound = errors.New("name table: no such name record")
	// ErrUnsupportedEncoding is returned for records we cannot decode or encode.
	ErrUnsupportedEncoding = errors.New("name table: unsupported encoding")
	// ErrMalformed is returned by Decode for tables which are cut short.
	ErrMalformed = errors.New("name table: malformed")
)

// PlatformID identifies the platform of a name record.
type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1
	PlatformIDWindows   PlatformID = 3
)

// EncodingID is the platform specific encoding of a name record.
type EncodingID uint16

const (
	EncodingIDMacRoman      EncodingID = 0
	EncodingIDWindowsSymbol EncodingID = 0
	EncodingIDWindowsBMP    EncodingID = 1
	EncodingIDUnicodeBMP    EncodingID = 3
)

// Key identifies a NameRecord entry in OpenType table 'name'.
// The key follows the OpenType NameRecord fields directly.
type Key struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16
	Name     sfnt.NameID // see https://pkg.go.dev/golang.org/x/image/font/sfnt#NameID
}

func (k Key) String() string {
	return fmt.Sprintf("name %d (%d/%d/%#x)", k.Name, k.Platform, k.Encoding, k.Language)
}

func (k Key) less(other Key) bool {
	if k.Platform != other.Platform {
		return k.Platform < other.Platform
	}
	if k.Encoding != other.Encoding {
		return k.Encoding < other.Encoding
	}
	if k.Language != other.Language {
		return k.Language < other.Language
	}
	return k.Name < other.Name
}

// Locator is a platform/encoding/language triple, i.e. a Key without a
// name ID.
type Locator struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16
}

// Key returns the key for name ID id at l.
func (l Locator) Key(id sfnt.NameID) Key {
	return Key{Platform: l.Platform, Encoding: l.Encoding, Language: l.Language, Name: id}
}

// Label is a short, human readable name for well known locators.
func (l Locator) Label() string {
	switch l {
	case Windows:
		return "Windows"
	case Mac:
		return "Mac"
	}
	return fmt.Sprintf("%d/%d/%#x", l.Platform, l.Encoding, l.Language)
}

// The two locations code fonts keep their names at.
var (
	Windows = Locator{Platform: PlatformIDWindows, Encoding: EncodingIDWindowsBMP, Language: 0x409}
	Mac     = Locator{Platform: PlatformIDMacintosh, Encoding: EncodingIDMacRoman, Language: 0}
)

type record struct {
	key   Key
	value []byte // encoded string
}

// Table is a decoded 'name' table. The zero value is an empty format 0 table.
type Table struct {
	Format   uint16
	records  []record
	langTags [][]byte // format 1 language tag strings, UTF-16BE
}

// FromFont decodes the 'name' table of a font.
func FromFont(otf *ot.Font) (*Table, error) {
	t := otf.Table(ot.T("name"))
	if t == nil {
		return nil, fmt.Errorf("%w: name", ot.ErrMissingTable)
	}
	return Decode(t.Binary())
}

// Store encodes the table and replaces the font's 'name' table with it.
func (t *Table) Store(otf *ot.Font) error {
	return otf.SetTable(ot.T("name"), t.Encode())
}

// Decode decodes the binary form of a 'name' table. Records pointing
// outside of the table are dropped.
func Decode(b []byte) (*Table, error) {
	if len(b) < nameHeaderSize {
		return nil, fmt.Errorf("%w: table too short: %d", ErrMalformed, len(b))
	}
	t := &Table{Format: u16(b[0:2])}
	count := int(u16(b[2:4])) // number of name records
	stringStorageOffset := int(u16(b[4:6]))
	recordsEnd := nameHeaderSize + count*nameRecordSize
	if recordsEnd > len(b) || stringStorageOffset > len(b) {
		return nil, fmt.Errorf("%w: record section out of bounds: count=%d", ErrMalformed, count)
	}
	storage := b[stringStorageOffset:]
	for i := range count {
		recordSlice := b[nameHeaderSize+i*nameRecordSize : nameHeaderSize+(i+1)*nameRecordSize]
		key := Key{
			Platform: PlatformID(u16(recordSlice[0:2])),
			Encoding: EncodingID(u16(recordSlice[2:4])),
			Language: u16(recordSlice[4:6]),
			Name:     sfnt.NameID(u16(recordSlice[6:8])),
		}
		strLen := int(u16(recordSlice[8:10]))
		start := int(u16(recordSlice[10:12]))
		if start+strLen > len(storage) {
			tracer().Debugf("%s points outside of table, dropped", key)
			continue
		}
		value := make([]byte, strLen)
		copy(value, storage[start:start+strLen])
		t.records = append(t.records, record{key: key, value: value})
	}
	if t.Format == 1 {
		if recordsEnd+2 > len(b) {
			return nil, fmt.Errorf("%w: language tag count", ErrMalformed)
		}
		n := int(u16(b[recordsEnd:]))
		if recordsEnd+2+n*langTagRecordSize > len(b) {
			return nil, fmt.Errorf("%w: language tag records", ErrMalformed)
		}
		for i := range n {
			rec := b[recordsEnd+2+i*langTagRecordSize:]
			strLen, start := int(u16(rec[0:2])), int(u16(rec[2:4]))
			if start+strLen > len(storage) {
				return nil, fmt.Errorf("%w: language tag %d out of bounds", ErrMalformed, i)
			}
			t.langTags = append(t.langTags, append([]byte(nil), storage[start:start+strLen]...))
		}
	}
	return t, nil
}

// Encode returns the binary form of the table. Records are sorted by
// platform, encoding, language and name ID, as the OpenType specification
// requires. Identical strings share storage.
func (t *Table) Encode() []byte {
	recs := make([]record, len(t.records))
	copy(recs, t.records)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].key.less(recs[j].key) })

	headerSize := nameHeaderSize + len(recs)*nameRecordSize
	if t.Format == 1 {
		headerSize += 2 + len(t.langTags)*langTagRecordSize
	}
	out := make([]byte, headerSize)
	putU16(out[0:], t.Format)
	putU16(out[2:], uint16(len(recs)))
	putU16(out[4:], uint16(headerSize))

	var storage []byte
	stored := make(map[string]int)
	store := func(s []byte) int {
		if off, ok := stored[string(s)]; ok {
			return off
		}
		off := len(storage)
		stored[string(s)] = off
		storage = append(storage, s...)
		return off
	}
	for i, r := range recs {
		rec := out[nameHeaderSize+i*nameRecordSize:]
		putU16(rec[0:], uint16(r.key.Platform))
		putU16(rec[2:], uint16(r.key.Encoding))
		putU16(rec[4:], r.key.Language)
		putU16(rec[6:], uint16(r.key.Name))
		putU16(rec[8:], uint16(len(r.value)))
		putU16(rec[10:], uint16(store(r.value)))
	}
	if t.Format == 1 {
		base := nameHeaderSize + len(recs)*nameRecordSize
		putU16(out[base:], uint16(len(t.langTags)))
		for i, tag := range t.langTags {
			rec := out[base+2+i*langTagRecordSize:]
			putU16(rec[0:], uint16(len(tag)))
			putU16(rec[2:], uint16(store(tag)))
		}
	}
	return append(out, storage...)
}

// Get returns the decoded string for key.
func (t *Table) Get(key Key) (string, error) {
	i := t.find(key)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	enc, err := encodingFor(key)
	if err != nil {
		return "", err
	}
	s, err := enc.NewDecoder().Bytes(t.records[i].value)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", key, err)
	}
	return string(s), nil
}

// Set stores value for key, adding a record if none exists.
func (t *Table) Set(key Key, value string) error {
	enc, err := encodingFor(key)
	if err != nil {
		return err
	}
	b, err := enc.NewEncoder().Bytes([]byte(value))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if len(b) > 0xFFFF {
		return fmt.Errorf("encoding %s: string too long", key)
	}
	if i := t.find(key); i >= 0 {
		t.records[i].value = b
		return nil
	}
	t.records = append(t.records, record{key: key, value: b})
	return nil
}

// Delete removes the record for key. It returns false if there was none.
func (t *Table) Delete(key Key) bool {
	i := t.find(key)
	if i < 0 {
		return false
	}
	t.records = append(t.records[:i], t.records[i+1:]...)
	return true
}

// Keys returns the keys of all records, sorted.
func (t *Table) Keys() []Key {
	keys := make([]Key, len(t.records))
	for i, r := range t.records {
		keys[i] = r.key
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// Len is the number of name records.
func (t *Table) Len() int {
	return len(t.records)
}

// Change describes one record modified by Update.
type Change struct {
	Key Key
	Old string // empty if the record did not exist
	New string
}

// Update sets name ID id to value at every locator given. Records which
// already hold value are left alone; only actual modifications are
// reported.
func (t *Table) Update(id sfnt.NameID, value string, locs ...Locator) ([]Change, error) {
	var changes []Change
	for _, loc := range locs {
		key := loc.Key(id)
		old, err := t.Get(key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return changes, err
		}
		if err == nil && old == value {
			continue
		}
		if err := t.Set(key, value); err != nil {
			return changes, err
		}
		changes = append(changes, Change{Key: key, Old: old, New: value})
	}
	return changes, nil
}

// NamesRange yields decoded `(key, value)` pairs in table order.
//
// Only supported encodings are yielded, and records which fail to decode
// are skipped.
func (t *Table) NamesRange() iter.Seq2[Key, string] {
	return func(yield func(Key, string) bool) {
		for _, r := range t.records {
			s, err := t.Get(r.key)
			if err != nil || s == "" {
				continue
			}
			if !yield(r.key, s) {
				return
			}
		}
	}
}

func (t *Table) find(key Key) int {
	for i, r := range t.records {
		if r.key == key {
			return i
		}
	}
	return -1
}

func encodingFor(key Key) (encoding.Encoding, error) {
	switch {
	case key.Platform == PlatformIDUnicode,
		key.Platform == PlatformIDWindows && (key.Encoding == EncodingIDWindowsBMP || key.Encoding == 10):
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case key.Platform == PlatformIDMacintosh && key.Encoding == EncodingIDMacRoman:
		return charmap.Macintosh, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, key)
}

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func putU16(b []byte, n uint16) {
	b[0] = byte(n >> 8)
	b[1] = byte(n)
}
