package datapath_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gitlab.com/akita/akita/v3/sim"

	"github.com/ChenFengAndy/ALADDIN/datapath"
	"github.com/ChenFengAndy/ALADDIN/tlb"
)

var _ = Describe("Datapath", func() {
	var engine sim.Engine

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
	})

	buildPair := func(
		tlbBuilder tlb.Builder,
		issuePerCycle int,
	) (*tlb.Comp, *datapath.Comp) {
		t := tlbBuilder.WithEngine(engine).Build("TLB")
		dp := datapath.MakeBuilder().
			WithEngine(engine).
			WithTLB(t).
			WithIssuePerCycle(issuePerCycle).
			Build("Datapath")
		t.SetDatapath(dp)
		return t, dp
	}

	It("should finish every loaded translation under back-pressure", func() {
		t, dp := buildPair(tlb.MakeBuilder().
			WithNumOutstandingWalks(1).
			WithBandwidth(4), 4)

		dp.Load([]uint64{0x1000, 0x1040, 0x2000, 0x2040, 0x3000, 0x3040})

		Expect(engine.Run()).To(Succeed())

		Expect(dp.Done()).To(BeTrue())
		report := dp.Report()
		Expect(report.NumTranslations).To(Equal(6))
		Expect(report.NumMisses).To(Equal(6))
		Expect(t.Stats().Updates).To(Equal(uint64(3)))
	})

	It("should drain a trace one request per cycle at bandwidth 1", func() {
		_, dp := buildPair(tlb.MakeBuilder().WithBandwidth(1), 4)

		addrs := make([]uint64, 6)
		for i := range addrs {
			addrs[i] = uint64(i+1) * 0x10000
		}
		dp.Load(addrs)

		Expect(engine.Run()).To(Succeed())

		Expect(dp.Done()).To(BeTrue())
		Expect(dp.Report().NumTranslations).To(Equal(6))
	})

	It("should measure the walk latency of a lone miss", func() {
		_, dp := buildPair(tlb.MakeBuilder().WithMissLatency(20), 2)

		dp.Load([]uint64{0x1000})

		Expect(engine.Run()).To(Succeed())

		report := dp.Report()
		Expect(report.NumTranslations).To(Equal(1))
		Expect(report.NumMisses).To(Equal(1))
		Expect(report.AvgLatency).To(BeNumerically("~", 2e-8, 1e-10))
	})

	It("should coalesce repeated accesses to hot pages", func() {
		t, dp := buildPair(tlb.MakeBuilder(), 2)

		addrs := []uint64{0x1000, 0x9000, 0x1040, 0x9040, 0x1080, 0x9080}
		dp.Load(addrs)

		Expect(engine.Run()).To(Succeed())

		Expect(dp.Done()).To(BeTrue())
		stats := t.Stats()
		Expect(stats.Updates).To(Equal(uint64(2)))
		Expect(stats.Hits + stats.Misses).To(BeNumerically(">=", uint64(6)))
	})

	It("should report an empty replay as done", func() {
		_, dp := buildPair(tlb.MakeBuilder(), 2)

		Expect(dp.Done()).To(BeTrue())
		Expect(dp.Report()).To(Equal(datapath.Report{}))
	})

	It("should panic when finishing a translation it never issued", func() {
		_, dp := buildPair(tlb.MakeBuilder(), 2)

		Expect(func() {
			dp.FinishTranslation(tlb.NewRequest(0x1000), false)
		}).To(Panic())
	})

	It("should require an engine and a TLB", func() {
		Expect(func() { datapath.MakeBuilder().Build("Datapath") }).To(Panic())
		Expect(func() {
			datapath.MakeBuilder().WithEngine(engine).Build("Datapath")
		}).To(Panic())
	})
})
