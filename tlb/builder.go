package tlb

import (
	"log"

	"gitlab.com/akita/akita/v3/sim"

	"github.com/ChenFengAndy/ALADDIN/power"
)

// A Builder can build TLBs.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	datapath Datapath
	provider TranslationProvider

	numEntries          int
	assoc               int
	hitLatency          int
	missLatency         int
	pageBytes           uint64
	perfect             bool
	numOutstandingWalks int
	bandwidth           int

	powerConfig string
	estimator   power.Estimator
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:                1 * sim.GHz,
		provider:            identityTranslation{},
		numEntries:          32,
		assoc:               4,
		hitLatency:          1,
		missLatency:         20,
		pageBytes:           4096,
		numOutstandingWalks: 4,
		bandwidth:           2,
		estimator:           power.TableEstimator{},
	}
}

// WithEngine sets the engine the TLB schedules its completion events on.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency latencies are counted at.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithDatapath sets the component that receives completion callbacks. It can
// also be registered after Build through SetDatapath.
func (b Builder) WithDatapath(d Datapath) Builder {
	b.datapath = d
	return b
}

// WithTranslationProvider sets how physical pages are resolved when a walk
// completes. The default maps every page to itself.
func (b Builder) WithTranslationProvider(p TranslationProvider) Builder {
	b.provider = p
	return b
}

// WithNumEntries sets the total TLB capacity. Use 0 for an infinite TLB that
// never evicts.
func (b Builder) WithNumEntries(n int) Builder {
	b.numEntries = n
	return b
}

// WithAssoc sets the number of ways per set.
func (b Builder) WithAssoc(n int) Builder {
	b.assoc = n
	return b
}

// WithHitLatency sets the number of cycles a hit takes to complete.
func (b Builder) WithHitLatency(n int) Builder {
	b.hitLatency = n
	return b
}

// WithMissLatency sets the number of cycles a page walk takes.
func (b Builder) WithMissLatency(n int) Builder {
	b.missLatency = n
	return b
}

// WithPageBytes sets the page size in bytes.
func (b Builder) WithPageBytes(n uint64) Builder {
	b.pageBytes = n
	return b
}

// WithPerfect makes every access hit, modeling an oracle TLB.
func (b Builder) WithPerfect() Builder {
	b.perfect = true
	return b
}

// WithNumOutstandingWalks bounds the number of concurrent page walks. Use 0
// for unbounded.
func (b Builder) WithNumOutstandingWalks(n int) Builder {
	b.numOutstandingWalks = n
	return b
}

// WithBandwidth sets the number of translation requests accepted per cycle.
func (b Builder) WithBandwidth(n int) Builder {
	b.bandwidth = n
	return b
}

// WithPowerConfig sets the descriptor handed to the power estimator. The
// estimate is computed once at build time.
func (b Builder) WithPowerConfig(config string) Builder {
	b.powerConfig = config
	return b
}

// WithEstimator overrides the power estimator implementation.
func (b Builder) WithEstimator(e power.Estimator) Builder {
	b.estimator = e
	return b
}

// Build creates a TLB. Malformed geometry or a broken power descriptor
// panics here, before any simulated request is processed.
func (b Builder) Build(name string) *Comp {
	b.mustBeValid()

	c := &Comp{
		engine:              b.engine,
		freq:                b.freq,
		datapath:            b.datapath,
		provider:            b.provider,
		hitLatency:          b.hitLatency,
		missLatency:         b.missLatency,
		pageBytes:           b.pageBytes,
		isPerfect:           b.perfect,
		numOutstandingWalks: b.numOutstandingWalks,
		bandwidth:           b.bandwidth,
	}
	c.ComponentBase = sim.NewComponentBase(name)

	if b.numEntries > 0 {
		c.memory = newSetAssocMemory(b.numEntries, b.assoc, b.pageBytes)
	} else {
		c.memory = newInfiniteMemory()
	}

	c.walks = newMSHR(b.numOutstandingWalks)

	if b.powerConfig != "" {
		estimate, err := b.estimator.Estimate(b.powerConfig)
		if err != nil {
			log.Panicf("cannot build power model: %s", err)
		}
		c.powerEstimate = estimate
		c.hasPowerEstimate = true
	}

	return c
}

func (b Builder) mustBeValid() {
	if b.engine == nil {
		log.Panic("TLB requires an engine")
	}
	if b.pageBytes == 0 || b.pageBytes&(b.pageBytes-1) != 0 {
		log.Panic("page size must be a power of 2")
	}
	if b.numEntries > 0 {
		if b.assoc <= 0 {
			log.Panic("associativity must be positive")
		}
		if b.numEntries%b.assoc != 0 {
			log.Panic("number of entries must be a multiple of the associativity")
		}
	}
	if b.hitLatency <= 0 || b.missLatency <= 0 {
		log.Panic("latencies must be positive")
	}
	if b.bandwidth <= 0 {
		log.Panic("bandwidth must be positive")
	}
	if b.numOutstandingWalks < 0 {
		log.Panic("outstanding-walk bound cannot be negative")
	}
}
