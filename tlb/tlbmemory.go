package tlb

import (
	"log"

	"gitlab.com/akita/akita/v3/sim"

	"github.com/ChenFengAndy/ALADDIN/tlb/internal"
)

// tlbMemory is the capability shared by the finite and the infinite
// translation stores. Lookup returns the physical page backing vpn and
// stamps the entry as most-recently-used when setMRU is true. Insert is a
// no-op when vpn is already present.
type tlbMemory interface {
	Lookup(vpn uint64, now sim.VTimeInSec, setMRU bool) (ppn uint64, found bool)
	Insert(vpn, ppn uint64, now sim.VTimeInSec)
}

// setAssocMemory organizes entries as numEntries/assoc sets of assoc ways.
// A page maps to exactly one set and can occupy any way in it.
type setAssocMemory struct {
	numSets   int
	numWays   int
	pageBytes uint64
	sets      []internal.Set
}

func newSetAssocMemory(numEntries, assoc int, pageBytes uint64) *setAssocMemory {
	m := &setAssocMemory{
		numSets:   numEntries / assoc,
		numWays:   assoc,
		pageBytes: pageBytes,
	}
	m.sets = make([]internal.Set, m.numSets)
	for i := range m.sets {
		m.sets[i] = internal.NewSet(m.numWays)
	}
	return m
}

func (m *setAssocMemory) vpnToSetID(vpn uint64) int {
	return int(vpn / m.pageBytes % uint64(m.numSets))
}

func (m *setAssocMemory) Lookup(
	vpn uint64,
	now sim.VTimeInSec,
	setMRU bool,
) (uint64, bool) {
	set := m.sets[m.vpnToSetID(vpn)]

	wayID, entry, found := set.Lookup(vpn)
	if !found {
		return 0, false
	}

	if setMRU {
		set.Visit(wayID, now)
	}

	return entry.PPN, true
}

func (m *setAssocMemory) Insert(vpn, ppn uint64, now sim.VTimeInSec) {
	if _, found := m.Lookup(vpn, now, false); found {
		return
	}

	set := m.sets[m.vpnToSetID(vpn)]
	wayID, ok := set.Evict()
	if !ok {
		log.Panicf("no way to install page 0x%x into", vpn)
	}

	set.Update(wayID, internal.Entry{VPN: vpn, PPN: ppn, Valid: true})
	set.Visit(wayID, now)
}

// infiniteMemory holds every distinct page forever. It backs the oracle TLB
// configuration where capacity never forces an eviction.
type infiniteMemory struct {
	pages map[uint64]uint64
}

func newInfiniteMemory() *infiniteMemory {
	return &infiniteMemory{pages: make(map[uint64]uint64)}
}

func (m *infiniteMemory) Lookup(
	vpn uint64,
	now sim.VTimeInSec,
	setMRU bool,
) (uint64, bool) {
	ppn, found := m.pages[vpn]
	return ppn, found
}

func (m *infiniteMemory) Insert(vpn, ppn uint64, now sim.VTimeInSec) {
	if _, found := m.pages[vpn]; found {
		return
	}
	m.pages[vpn] = ppn
}
