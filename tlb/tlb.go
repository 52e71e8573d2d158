package tlb

import (
	"log"
	"reflect"

	"gitlab.com/akita/akita/v3/sim"

	"github.com/ChenFengAndy/ALADDIN/power"
)

// Stats holds the TLB access counters. They are pure observers and never
// influence the timing behavior.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Reads   uint64 `json:"reads"`
	Updates uint64 `json:"updates"`
}

// HitRate derives the fraction of classified accesses that hit.
func (s Stats) HitRate() float64 {
	accesses := s.Hits + s.Misses
	if accesses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(accesses)
}

// Comp models the timing behavior of the TLB attached to an accelerator
// datapath. The datapath submits requests through Translate and receives
// completions through its FinishTranslation callback, scheduled on the
// discrete-event engine after the configured hit or walk latency.
type Comp struct {
	*sim.ComponentBase

	engine   sim.Engine
	freq     sim.Freq
	datapath Datapath
	provider TranslationProvider

	hitLatency          int
	missLatency         int
	pageBytes           uint64
	isPerfect           bool
	numOutstandingWalks int
	bandwidth           int

	memory   tlbMemory
	hitQueue []*Request
	walks    *mshr

	requestsThisCycle int

	stats Stats

	powerEstimate    power.Estimate
	hasPowerEstimate bool
}

// A hitCompleteEvent releases the front of the hit queue after the fixed hit
// latency.
type hitCompleteEvent struct {
	*sim.EventBase
}

// A walkCompleteEvent finishes the oldest outstanding page walk.
type walkCompleteEvent struct {
	*sim.EventBase
}

// SetDatapath registers the component that receives completion callbacks.
func (c *Comp) SetDatapath(d Datapath) {
	c.datapath = d
}

// Handle processes the completion events the TLB scheduled for itself.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *hitCompleteEvent:
		c.handleHitComplete(e)
	case *walkCompleteEvent:
		c.handleWalkComplete(e)
	default:
		log.Panicf("cannot handle event of %s", reflect.TypeOf(e))
	}
	return nil
}

func (c *Comp) handleHitComplete(e *hitCompleteEvent) {
	if len(c.hitQueue) == 0 {
		log.Panic("hit completion fired with an empty hit queue")
	}

	req := c.hitQueue[0]
	c.hitQueue = c.hitQueue[1:]
	c.datapath.FinishTranslation(req, false)
}

func (c *Comp) handleWalkComplete(e *walkCompleteEvent) {
	entry := c.walks.PopFront()
	if len(entry.requests) == 0 {
		log.Panicf("walk for page 0x%x completed with no waiting requests",
			entry.vpn)
	}

	ppn := c.provider.Translate(entry.vpn)
	c.memory.Insert(entry.vpn, ppn, e.Time())
	c.stats.Updates++

	for _, req := range entry.requests {
		c.datapath.FinishTranslation(req, true)
	}
}

// Translate submits a translation request at time now. It returns false when
// the request would need a new page walk but the per-cycle bandwidth or the
// outstanding-walk capacity is exhausted; the caller is expected to resubmit
// later. Accepted requests complete exactly once through the datapath
// callback.
func (c *Comp) Translate(now sim.VTimeInSec, req *Request) bool {
	vpn := c.vAddrToVPN(req.VAddr)

	c.stats.Reads++

	found := c.isPerfect
	if !found {
		_, found = c.memory.Lookup(vpn, now, true)
	}
	if found {
		c.stats.Hits++
		c.requestsThisCycle++
		c.hitQueue = append(c.hitQueue, req)
		evt := &hitCompleteEvent{
			sim.NewEventBase(c.freq.NCyclesLater(c.hitLatency, now), c),
		}
		c.engine.Schedule(evt)
		return true
	}

	if entry := c.walks.Query(vpn); entry != nil {
		c.stats.Misses++
		c.requestsThisCycle++
		entry.requests = append(entry.requests, req)
		return true
	}

	if !c.CanRequestTranslation() {
		return false
	}

	c.stats.Misses++
	c.requestsThisCycle++
	entry := c.walks.Add(vpn)
	entry.requests = append(entry.requests, req)
	evt := &walkCompleteEvent{
		sim.NewEventBase(c.freq.NCyclesLater(c.missLatency, now), c),
	}
	c.engine.Schedule(evt)

	return true
}

// CanRequestTranslation tells whether the TLB has spare request bandwidth
// this cycle and spare outstanding-walk capacity. It is cooperative flow
// control only; the answer can change before the next Translate call in the
// same time step.
func (c *Comp) CanRequestTranslation() bool {
	if c.requestsThisCycle >= c.bandwidth {
		return false
	}
	if c.numOutstandingWalks != 0 && c.walks.Len() >= c.numOutstandingWalks {
		return false
	}
	return true
}

// ResetRequestCounter starts a new bandwidth accounting cycle. The owning
// datapath calls it once at the beginning of each of its cycles.
func (c *Comp) ResetRequestCounter() {
	c.requestsThisCycle = 0
}

func (c *Comp) vAddrToVPN(vAddr uint64) uint64 {
	return vAddr - vAddr%c.pageBytes
}

// Stats returns a copy of the access counters.
func (c *Comp) Stats() Stats {
	return c.stats
}

// HasPowerModel tells whether a power estimate was configured at build time.
func (c *Comp) HasPowerModel() bool {
	return c.hasPowerEstimate
}

// PowerEstimate returns the cached per-operation estimate.
func (c *Comp) PowerEstimate() power.Estimate {
	if !c.hasPowerEstimate {
		log.Panic("no power model configured for the TLB")
	}
	return c.powerEstimate
}

// AveragePower computes the average power drawn over an execution of the
// given number of cycles with the given cycle time in nanoseconds, from the
// accumulated read and update counts.
func (c *Comp) AveragePower(
	cycles uint64,
	cycleTimeNS float64,
) (total, dynamic, leakage float64) {
	estimate := c.PowerEstimate()

	dynamic = (float64(c.stats.Reads)*estimate.ReadEnergy +
		float64(c.stats.Updates)*estimate.WriteEnergy) /
		(float64(cycles) * cycleTimeNS)
	leakage = estimate.LeakagePower
	total = dynamic + leakage

	return total, dynamic, leakage
}
