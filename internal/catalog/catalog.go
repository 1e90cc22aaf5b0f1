// Package catalog discovers and loads the ordered list of sound entries
// shown in the kiosk menu.
//
// A catalog comes from the first of several base locations that yields
// at least one entry. A base is either an HTTP URL, a local directory, or
// a "//path/" shorthand that expands to the auto-discovered LAN server.
package catalog

// Entry is one named sound and its raw WAV bytes. Entries are never
// modified after loading.
type Entry struct {
	Name string
	Data []byte
}

// Catalog is the ordered set of entries loaded from one source.
type Catalog struct {
	Source  string // base location the entries came from, "" when empty
	Entries []Entry
}

// Len returns the number of entries. A nil catalog is empty.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// Entry returns the entry at i and whether i was in range.
func (c *Catalog) Entry(i int) (Entry, bool) {
	if c == nil || i < 0 || i >= len(c.Entries) {
		return Entry{}, false
	}
	return c.Entries[i], true
}

// Names returns entry names in order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		names = append(names, c.Entries[i].Name)
	}
	return names
}
