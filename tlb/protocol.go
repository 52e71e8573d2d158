package tlb

import (
	"log"

	"github.com/rs/xid"
	"gitlab.com/akita/mem/v3/vm"
)

// A Request asks the TLB to translate the virtual address VAddr. Payload is
// owned by the datapath and travels through the TLB untouched.
type Request struct {
	ID      string
	VAddr   uint64
	Write   bool
	Payload interface{}
}

// NewRequest creates a translation request for vAddr.
func NewRequest(vAddr uint64) *Request {
	return &Request{
		ID:    xid.New().String(),
		VAddr: vAddr,
	}
}

// Datapath is the component that owns the TLB. The TLB notifies it through
// FinishTranslation exactly once per accepted request.
type Datapath interface {
	FinishTranslation(req *Request, wasMiss bool)
}

// A TranslationProvider resolves the physical page that backs a virtual page
// when a walk completes.
type TranslationProvider interface {
	Translate(vpn uint64) (ppn uint64)
}

// identityTranslation maps every virtual page to itself, the usual
// simplification when physical placement does not matter to the model.
type identityTranslation struct{}

func (identityTranslation) Translate(vpn uint64) uint64 {
	return vpn
}

// PageTableTranslation resolves pages from a page table. Every page the
// simulation touches must be registered in the table beforehand.
type PageTableTranslation struct {
	PID   vm.PID
	Table vm.PageTable
}

func (t PageTableTranslation) Translate(vpn uint64) uint64 {
	page, found := t.Table.Find(t.PID, vpn)
	if !found {
		log.Panicf("no page table entry for page 0x%x", vpn)
	}
	return page.PAddr
}
