package encoder

import (
	"sort"
	"strconv"
)

// stringTableReservedIndex is the empty string that must occupy index 0 of
// every block's string table: DenseNodes.KeysVals uses the value 0 to mark
// the end of one node's key/value pairs, so index 0 can never be a real key
// or value.
const stringTableReservedIndex = ""

// Strings accumulates the distinct key, value, role, and user strings seen
// while assembling one PrimitiveBlock, before they are frozen into a Table
// with final integer indices.
type Strings struct {
	valid bool
	seen  map[string]struct{}
}

// NewStrings returns an empty string accumulator.
func NewStrings() *Strings {
	return &Strings{
		valid: true,
		seen:  make(map[string]struct{}),
	}
}

// Add records value as present in the block under construction. Adding the
// same value more than once is harmless.
func (s *Strings) Add(value string) {
	if !s.valid {
		panic("encoder: Strings used after CalcTable")
	}

	s.seen[value] = struct{}{}
}

// CalcTable freezes the strings accumulated so far into a sorted, indexed
// Table with the reserved empty string at index 0. The Strings value must
// not be used again afterward.
func (s *Strings) CalcTable() *Table {
	if !s.valid {
		panic("encoder: Strings used after CalcTable")
	}

	s.valid = false

	ordered := make([]string, 1, len(s.seen)+1)
	ordered[0] = stringTableReservedIndex

	for v := range s.seen {
		ordered = append(ordered, v)
	}

	sort.Strings(ordered)

	index := make(map[string]int32, len(ordered))
	for i, v := range ordered {
		index[v] = int32(i)
	}

	return &Table{index: index, ordered: ordered}
}

// Table is the frozen, indexed form of a block's string table: the array
// written out as pb.StringTable.S, plus the reverse index used while
// encoding tag, role, and user references.
type Table struct {
	index   map[string]int32
	ordered []string
}

// IndexOf returns value's position in the table. value must have been
// registered with Strings.Add before CalcTable produced this Table.
func (t *Table) IndexOf(value string) int32 {
	i, ok := t.index[value]
	if !ok {
		panic("encoder: string " + strconv.Quote(value) + " missing from string table")
	}

	return i
}

// AsArray returns the table's strings in index order, as expected by
// pb.StringTable.S.
func (t *Table) AsArray() []string {
	return t.ordered
}
