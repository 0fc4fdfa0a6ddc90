package arena

import "sort"

// Sym is a dense index assigned to an interned string.
type Sym uint32

// StringInterner interns strings (export/import names) under a dense Sym
// index, backed by a length-first ordered index so that membership tests on
// the (typically short) Wasm identifiers common in practice avoid the branch
// misprediction that a default lexicographic BTreeMap incurs.
type StringInterner struct {
	strings []string
	// order holds indices into strings, kept sorted by lenOrderLess so
	// Lookup can binary search it.
	order []int
}

// NewStringInterner constructs an empty interner.
func NewStringInterner() *StringInterner {
	return &StringInterner{}
}

// lenOrderLess implements the "length-first" comparator: shorter strings
// sort before longer ones; equal-length strings compare bytewise.
func lenOrderLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Intern returns the Sym for s, interning it if not already present.
func (si *StringInterner) Intern(s string) Sym {
	i := sort.Search(len(si.order), func(i int) bool {
		return !lenOrderLess(si.strings[si.order[i]], s)
	})
	if i < len(si.order) && si.strings[si.order[i]] == s {
		return Sym(si.order[i])
	}
	idx := len(si.strings)
	si.strings = append(si.strings, s)
	si.order = append(si.order, 0)
	copy(si.order[i+1:], si.order[i:len(si.order)-1])
	si.order[i] = idx
	return Sym(idx)
}

// Lookup returns the Sym already assigned to s, if any, without interning it.
func (si *StringInterner) Lookup(s string) (Sym, bool) {
	i := sort.Search(len(si.order), func(i int) bool {
		return !lenOrderLess(si.strings[si.order[i]], s)
	})
	if i < len(si.order) && si.strings[si.order[i]] == s {
		return Sym(si.order[i]), true
	}
	return 0, false
}

// String returns the string for a previously interned Sym.
func (si *StringInterner) String(sym Sym) string {
	return si.strings[sym]
}

// Len returns the number of distinct interned strings.
func (si *StringInterner) Len() int { return len(si.strings) }
