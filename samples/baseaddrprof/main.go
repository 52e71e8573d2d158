// baseaddrprof runs the one-shot base-address classification over the
// dynamic trace artifacts of a benchmark.
package main

import (
	"flag"
	"log"

	"github.com/fatih/color"

	"github.com/ChenFengAndy/ALADDIN/profiler"
)

var bench = flag.String("bench", "",
	"benchmark prefix; expects <bench>_graph, <bench>_microop.gz, "+
		"<bench>_par1value.gz")
var baseAddrFile = flag.String("base-addr-file", "",
	"comma-separated base address table")
var loadRelOp = flag.Int("loadrel-op", profiler.DefaultClassification().LoadRel,
	"microop code of relative loads")
var storeRelOp = flag.Int("storerel-op", profiler.DefaultClassification().StoreRel,
	"microop code of relative stores")
var getAddressOp = flag.Int("getaddress-op", profiler.DefaultClassification().GetAddress,
	"microop code of address computations")
var storeOp = flag.Int("store-op", profiler.DefaultClassification().Store,
	"microop code relative ops demote to")

func main() {
	flag.Parse()

	if *bench == "" || *baseAddrFile == "" {
		log.Fatal("both -bench and -base-addr-file are required")
	}

	class := profiler.Classification{
		LoadRel:    *loadRelOp,
		StoreRel:   *storeRelOp,
		GetAddress: *getAddressOp,
		Store:      *storeOp,
	}

	profile, err := profiler.ProfileBaseAddress(*bench, *baseAddrFile, class)
	if err != nil {
		log.Fatal(err)
	}

	numMemOps := 0
	for _, base := range profile.BaseAddrs {
		if base != 0 {
			numMemOps++
		}
	}
	color.Green("Classified %d of %d nodes as memory operations",
		numMemOps, len(profile.MicroOps))
}
