// tlbsim replays a virtual address trace against the TLB timing model and
// reports hit rate, latency, and power numbers.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/fatih/color"
	"github.com/tebeka/atexit"
	"gitlab.com/akita/akita/v3/sim"

	"github.com/ChenFengAndy/ALADDIN/datapath"
	"github.com/ChenFengAndy/ALADDIN/monitoring"
	"github.com/ChenFengAndy/ALADDIN/profiler"
	"github.com/ChenFengAndy/ALADDIN/tlb"
)

var numEntries = flag.Int("num-entries", 32,
	"total number of TLB entries, 0 for an infinite TLB")
var assoc = flag.Int("assoc", 4,
	"number of ways per set")
var hitLatency = flag.Int("hit-latency", 1,
	"cycles a hit takes to complete")
var missLatency = flag.Int("miss-latency", 20,
	"cycles a page walk takes")
var pageSize = flag.Uint64("page-size", 4096,
	"page size in bytes")
var numWalks = flag.Int("num-walks", 4,
	"maximum outstanding page walks, 0 for unbounded")
var bandwidth = flag.Int("bandwidth", 2,
	"translation requests accepted per cycle")
var perfect = flag.Bool("perfect", false,
	"model a zero-miss oracle TLB")
var issuePerCycle = flag.Int("issue-per-cycle", 2,
	"translations the datapath issues per cycle")
var traceFile = flag.String("trace", "",
	"address trace to replay, one address per line, .gz accepted")
var syntheticAccesses = flag.Int("synthetic-accesses", 4096,
	"accesses to generate when no trace is given")
var syntheticPages = flag.Int("synthetic-pages", 64,
	"page pool to draw synthetic accesses from")
var powerConfig = flag.String("power-config", "",
	"power/area descriptor passed to the estimator")
var monitorPort = flag.Int("monitor-port", 0,
	"serve live state over HTTP on this port")
var reportFileName = flag.String("report", "tlbsim_result.json",
	"file the result summary is written to")

type result struct {
	Stats        tlb.Stats       `json:"tlb"`
	HitRate      float64         `json:"hit_rate"`
	Replay       datapath.Report `json:"replay"`
	SimTime      float64         `json:"sim_time"`
	WallTime     float64         `json:"wall_time"`
	AvgPower     float64         `json:"avg_power,omitempty"`
	DynamicPower float64         `json:"dynamic_power,omitempty"`
	LeakagePower float64         `json:"leakage_power,omitempty"`
}

func main() {
	flag.Parse()

	wallTime := profiler.NewWallTime()
	wallTime.Start("run")

	engine := sim.NewSerialEngine()
	freq := 1 * sim.GHz

	tlbComp := buildTLB(engine, freq)

	dp := datapath.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithTLB(tlbComp).
		WithIssuePerCycle(*issuePerCycle).
		Build("Datapath")
	tlbComp.SetDatapath(dp)

	if *monitorPort != 0 {
		monitoring.NewMonitor(engine, freq, tlbComp).
			WithPortNumber(*monitorPort).
			StartServer()
	}

	dp.Load(loadTrace())

	if err := engine.Run(); err != nil {
		log.Fatal(err)
	}

	report(engine, freq, tlbComp, dp, wallTime.Stop("run"))
	atexit.Exit(0)
}

func buildTLB(engine sim.Engine, freq sim.Freq) *tlb.Comp {
	builder := tlb.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithNumEntries(*numEntries).
		WithAssoc(*assoc).
		WithHitLatency(*hitLatency).
		WithMissLatency(*missLatency).
		WithPageBytes(*pageSize).
		WithNumOutstandingWalks(*numWalks).
		WithBandwidth(*bandwidth)
	if *perfect {
		builder = builder.WithPerfect()
	}
	if *powerConfig != "" {
		builder = builder.WithPowerConfig(*powerConfig)
	}
	return builder.Build("TLB")
}

func loadTrace() []uint64 {
	if *traceFile != "" {
		addrs, err := datapath.LoadTrace(*traceFile)
		if err != nil {
			log.Fatal(err)
		}
		return addrs
	}

	addrs := make([]uint64, *syntheticAccesses)
	for i := range addrs {
		page := uint64(rand.Intn(*syntheticPages))
		addrs[i] = page**pageSize + uint64(rand.Intn(int(*pageSize)))
	}
	return addrs
}

func report(
	engine sim.Engine,
	freq sim.Freq,
	tlbComp *tlb.Comp,
	dp *datapath.Comp,
	wallTime float64,
) {
	if !dp.Done() {
		log.Fatal("simulation finished with unfinished translations")
	}

	res := result{
		Stats:    tlbComp.Stats(),
		HitRate:  tlbComp.Stats().HitRate(),
		Replay:   dp.Report(),
		SimTime:  float64(engine.CurrentTime()),
		WallTime: wallTime,
	}

	if tlbComp.HasPowerModel() {
		cycles := uint64(float64(engine.CurrentTime()) * float64(freq))
		cycleTimeNS := float64(freq.Period()) * 1e9
		res.AvgPower, res.DynamicPower, res.LeakagePower =
			tlbComp.AveragePower(cycles, cycleTimeNS)
	}

	color.Cyan("Replayed %d translations in %.6f simulated seconds (%.2f s wall)",
		res.Replay.NumTranslations, res.SimTime, res.WallTime)
	color.Green("Hit rate %.4f (%d hits, %d misses, %d walks)",
		res.HitRate, res.Stats.Hits, res.Stats.Misses, res.Stats.Updates)
	if tlbComp.HasPowerModel() {
		color.Yellow("Average power %.4f mW (%.4f dynamic, %.4f leakage)",
			res.AvgPower, res.DynamicPower, res.LeakagePower)
	}

	data, err := json.MarshalIndent(res, "", " ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*reportFileName, data, 0644); err != nil {
		log.Fatal(err)
	}
}
