package frame

import "github.com/cespare/xxhash/v2"

// keyIndex maps encoded key tuples to the row indexes holding them. Keys
// are bucketed by their xxhash and compared in full inside a bucket;
// entries keeps first-occurrence order for deterministic enumeration.
type keyIndex struct {
	entries []*keyEntry
	buckets map[uint64][]*keyEntry
}

type keyEntry struct {
	key  string
	rows []int
}

func newKeyIndex(sizeHint int) *keyIndex {
	return &keyIndex{buckets: make(map[uint64][]*keyEntry, sizeHint)}
}

// add records row under key.
func (ix *keyIndex) add(key string, row int) {
	h := xxhash.Sum64String(key)
	for _, e := range ix.buckets[h] {
		if e.key == key {
			e.rows = append(e.rows, row)
			return
		}
	}
	e := &keyEntry{key: key, rows: []int{row}}
	ix.buckets[h] = append(ix.buckets[h], e)
	ix.entries = append(ix.entries, e)
}

// get returns the entry for key, or nil.
func (ix *keyIndex) get(key string) *keyEntry {
	for _, e := range ix.buckets[xxhash.Sum64String(key)] {
		if e.key == key {
			return e
		}
	}
	return nil
}

// len returns the number of distinct keys.
func (ix *keyIndex) len() int { return len(ix.entries) }

// buildKeyIndex indexes every row of t by the tuple of the given columns.
func buildKeyIndex(t *Table, names []string) *keyIndex {
	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i], _ = t.column(name)
	}

	ix := newKeyIndex(t.rows)
	var buf []byte
	for row := 0; row < t.rows; row++ {
		buf = buf[:0]
		for _, col := range cols {
			buf = appendKey(buf, col.Values[row])
		}
		ix.add(string(buf), row)
	}
	return ix
}
