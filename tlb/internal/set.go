// Package internal provides the set structure that backs the TLB storage.
package internal

import (
	"log"

	"github.com/google/btree"
	"gitlab.com/akita/akita/v3/sim"
)

// An Entry is one virtual-to-physical page mapping held by a way.
type Entry struct {
	VPN   uint64
	PPN   uint64
	Valid bool
}

// A Set holds a fixed number of ways. Pages that map to the set can be
// installed into any of its ways.
type Set interface {
	Lookup(vpn uint64) (wayID int, entry Entry, found bool)
	Update(wayID int, entry Entry)
	Evict() (wayID int, ok bool)
	Visit(wayID int, now sim.VTimeInSec)
}

// NewSet creates a new TLB set with numWays ways.
func NewSet(numWays int) Set {
	s := &setImpl{}
	s.blocks = make([]*block, numWays)
	s.visitTree = btree.New(2)
	s.vpnWayIDMap = make(map[uint64]int)
	for i := range s.blocks {
		b := &block{wayID: i}
		s.blocks[i] = b
		s.visitTree.ReplaceOrInsert(b)
	}
	return s
}

type block struct {
	entry     Entry
	wayID     int
	lastVisit sim.VTimeInSec
	hits      uint64
}

// Less orders blocks by recency. Free ways keep a zero stamp, so they drain
// out of the tree before any occupied way. Equal stamps fall back to the way
// index, which makes eviction deterministic.
func (b *block) Less(another btree.Item) bool {
	a := another.(*block)
	if b.lastVisit != a.lastVisit {
		return b.lastVisit < a.lastVisit
	}
	return b.wayID < a.wayID
}

type setImpl struct {
	blocks      []*block
	vpnWayIDMap map[uint64]int
	visitTree   *btree.BTree
}

func (s *setImpl) Lookup(vpn uint64) (int, Entry, bool) {
	wayID, ok := s.vpnWayIDMap[vpn]
	if !ok {
		return 0, Entry{}, false
	}

	block := s.blocks[wayID]
	if block.lastVisit == 0 {
		log.Panicf("occupied entry for page 0x%x carries no recency stamp", vpn)
	}
	block.hits++

	return block.wayID, block.entry, true
}

func (s *setImpl) Update(wayID int, entry Entry) {
	block := s.blocks[wayID]
	if block.entry.Valid {
		delete(s.vpnWayIDMap, block.entry.VPN)
	}

	block.entry = entry
	block.hits = 0
	s.vpnWayIDMap[entry.VPN] = wayID
}

func (s *setImpl) Evict() (wayID int, ok bool) {
	if s.visitTree.Len() == 0 {
		return 0, false
	}

	block := s.visitTree.DeleteMin().(*block)
	if block.entry.Valid {
		delete(s.vpnWayIDMap, block.entry.VPN)
		block.entry = Entry{}
	}

	return block.wayID, true
}

func (s *setImpl) Visit(wayID int, now sim.VTimeInSec) {
	block := s.blocks[wayID]
	s.visitTree.Delete(block)
	block.lastVisit = now
	s.visitTree.ReplaceOrInsert(block)
}
