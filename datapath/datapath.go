// Package datapath provides a trace-driven issuer that exercises the TLB the
// way the owning accelerator datapath does: it submits translation requests
// under the per-cycle bandwidth contract and resubmits the ones the TLB
// refuses.
package datapath

import (
	"log"

	"gitlab.com/akita/akita/v3/sim"

	"github.com/ChenFengAndy/ALADDIN/tlb"
)

// A Report summarizes one replay.
type Report struct {
	NumTranslations int     `json:"num_translations"`
	NumMisses       int     `json:"num_misses"`
	AvgLatency      float64 `json:"avg_latency"` // seconds
}

// Comp replays a virtual address trace against the TLB.
type Comp struct {
	*sim.TickingComponent

	tlb           *tlb.Comp
	issuePerCycle int

	toIssue    []*tlb.Request
	issueTimes map[string]sim.VTimeInSec

	numFinished  int
	numMisses    int
	totalLatency sim.VTimeInSec
}

// A Builder can build trace datapaths.
type Builder struct {
	engine        sim.Engine
	freq          sim.Freq
	tlb           *tlb.Comp
	issuePerCycle int
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:          1 * sim.GHz,
		issuePerCycle: 2,
	}
}

// WithEngine sets the engine the datapath ticks on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the datapath frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithTLB sets the TLB the datapath translates through.
func (b Builder) WithTLB(t *tlb.Comp) Builder {
	b.tlb = t
	return b
}

// WithIssuePerCycle sets how many translations the datapath tries to issue
// each cycle.
func (b Builder) WithIssuePerCycle(n int) Builder {
	b.issuePerCycle = n
	return b
}

// Build creates the datapath.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		log.Panic("datapath requires an engine")
	}
	if b.tlb == nil {
		log.Panic("datapath requires a TLB")
	}

	c := &Comp{
		tlb:           b.tlb,
		issuePerCycle: b.issuePerCycle,
		issueTimes:    make(map[string]sim.VTimeInSec),
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}

// Load queues one translation request per address and starts ticking.
func (c *Comp) Load(addrs []uint64) {
	for _, addr := range addrs {
		c.toIssue = append(c.toIssue, tlb.NewRequest(addr))
	}
	c.TickLater(c.Engine.CurrentTime())
}

// Tick issues up to issuePerCycle translations. Issuing stops early when the
// TLB signals back-pressure; the remaining requests stay queued for a later
// cycle.
func (c *Comp) Tick(now sim.VTimeInSec) bool {
	c.tlb.ResetRequestCounter()

	madeProgress := false
	for i := 0; i < c.issuePerCycle && len(c.toIssue) > 0; i++ {
		if !c.tlb.CanRequestTranslation() {
			break
		}

		req := c.toIssue[0]
		if !c.tlb.Translate(now, req) {
			break
		}

		c.toIssue = c.toIssue[1:]
		c.issueTimes[req.ID] = now
		madeProgress = true
	}

	return madeProgress
}

// FinishTranslation records the completion and, when requests are still
// queued, wakes the issue loop up again.
func (c *Comp) FinishTranslation(req *tlb.Request, wasMiss bool) {
	issueTime, found := c.issueTimes[req.ID]
	if !found {
		log.Panicf("finishing translation %s that was never issued", req.ID)
	}
	delete(c.issueTimes, req.ID)

	now := c.Engine.CurrentTime()
	c.totalLatency += now - issueTime
	c.numFinished++
	if wasMiss {
		c.numMisses++
	}

	if len(c.toIssue) > 0 {
		c.TickLater(now)
	}
}

// Done tells whether every loaded request has completed.
func (c *Comp) Done() bool {
	return len(c.toIssue) == 0 && len(c.issueTimes) == 0
}

// Report summarizes the replay so far.
func (c *Comp) Report() Report {
	r := Report{
		NumTranslations: c.numFinished,
		NumMisses:       c.numMisses,
	}
	if c.numFinished > 0 {
		r.AvgLatency = float64(c.totalLatency) / float64(c.numFinished)
	}
	return r
}
