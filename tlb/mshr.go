package tlb

import (
	"log"
)

// An mshrEntry tracks one outstanding page walk together with the requests
// that coalesced onto it. Requests are released in the order they arrived.
type mshrEntry struct {
	vpn      uint64
	requests []*Request
}

// mshr keeps the outstanding page walks in admission order. Since every walk
// takes the same fixed latency, the front entry is always the next one to
// complete.
type mshr struct {
	capacity int // 0 means unbounded
	entries  []*mshrEntry
}

func newMSHR(capacity int) *mshr {
	m := new(mshr)
	m.capacity = capacity
	return m
}

// Query returns the entry for vpn, or nil when no walk is outstanding for
// that page.
func (m *mshr) Query(vpn uint64) *mshrEntry {
	for _, e := range m.entries {
		if e.vpn == vpn {
			return e
		}
	}
	return nil
}

// Add opens a new walk for vpn. Coalescing must happen before Add, so a
// duplicate page here is a modeling bug.
func (m *mshr) Add(vpn uint64) *mshrEntry {
	if m.Query(vpn) != nil {
		log.Panicf("walk already outstanding for page 0x%x", vpn)
	}
	if m.IsFull() {
		log.Panic("adding walk beyond the outstanding-walk bound")
	}

	entry := &mshrEntry{vpn: vpn}
	m.entries = append(m.entries, entry)
	return entry
}

// PopFront removes and returns the oldest outstanding walk.
func (m *mshr) PopFront() *mshrEntry {
	if len(m.entries) == 0 {
		log.Panic("walk completion fired with no outstanding walk")
	}

	entry := m.entries[0]
	m.entries = m.entries[1:]
	return entry
}

// IsFull returns true when no more walks can be opened.
func (m *mshr) IsFull() bool {
	return m.capacity != 0 && len(m.entries) >= m.capacity
}

func (m *mshr) Len() int {
	return len(m.entries)
}
