// Package profiler holds offline analyses that run over the dynamic trace
// artifacts of a benchmark, plus small helpers for measuring the simulator
// itself.
package profiler

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Classification configures which microop codes take part in base-address
// classification. The trace generator's encoding is benchmark-toolchain
// dependent, so the codes are parameters rather than constants.
type Classification struct {
	LoadRel    int // load relative to a base address
	StoreRel   int // store relative to a base address
	GetAddress int // address computation, not a real memory access
	Store      int // plain store; relative ops demote to this
}

// DefaultClassification matches the encoding of the stock dynamic trace
// generator.
func DefaultClassification() Classification {
	return Classification{
		LoadRel:    26,
		StoreRel:   27,
		GetAddress: 24,
		Store:      25,
	}
}

// A BaseAddrProfile is the result of one base-address classification pass.
type BaseAddrProfile struct {
	// MicroOps are the per-node microops after reclassification.
	MicroOps []int
	// BaseAddrs maps each dynamic node to the base address of the array it
	// touches. Nodes that are not memory operations map to zero.
	BaseAddrs []uint64
}

// ProfileBaseAddress classifies the memory operations of a dataflow graph.
//
// It reads <bench>_graph (a DOT graph whose node IDs are dynamic node
// indices), <bench>_microop.gz and <bench>_par1value.gz (one value per
// node), and a comma-separated base-address table whose fifth column is the
// address. Walking the graph in topological order, a relative load or store
// whose producer is an address computation is demoted to a plain store and
// excluded from memory profiling; every other one is attributed to the
// enclosing base address. The reclassified microops and the per-node bases
// are written back next to the inputs.
func ProfileBaseAddress(
	bench string,
	baseAddrFile string,
	class Classification,
) (*BaseAddrProfile, error) {
	g, nodeIdx, err := readGraph(bench + "_graph")
	if err != nil {
		return nil, err
	}
	numNodes := len(nodeIdx)

	bases, err := readBaseAddrTable(baseAddrFile)
	if err != nil {
		return nil, err
	}

	par1Values, err := readGzipUints(bench+"_par1value.gz", numNodes)
	if err != nil {
		return nil, err
	}

	microOps, err := readGzipInts(bench+"_microop.gz", numNodes)
	if err != nil {
		return nil, err
	}

	sorted, err := topo.Sort(g)
	if err != nil {
		return nil, fmt.Errorf("dataflow graph is not acyclic: %w", err)
	}

	profile := &BaseAddrProfile{
		MicroOps:  microOps,
		BaseAddrs: make([]uint64, numNodes),
	}

	for _, n := range sorted {
		idx := nodeIdx[n.ID()]
		op := profile.MicroOps[idx]
		if op != class.LoadRel && op != class.StoreRel {
			continue
		}

		addrComputation := false
		hasParent := false
		parents := g.To(n.ID())
		for parents.Next() {
			hasParent = true
			if profile.MicroOps[nodeIdx[parents.Node().ID()]] == class.GetAddress {
				addrComputation = true
				break
			}
		}

		switch {
		case addrComputation:
			profile.MicroOps[idx] = class.Store
		case hasParent:
			base, err := placeInBase(bases, par1Values[idx])
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", idx, err)
			}
			profile.BaseAddrs[idx] = base
		default:
			profile.BaseAddrs[idx] = par1Values[idx]
		}
	}

	err = writeGzipUints(bench+"_membase.gz", profile.BaseAddrs)
	if err != nil {
		return nil, err
	}
	err = writeGzipInts(bench+"_microop.gz", profile.MicroOps)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// placeInBase returns the largest base address not greater than addr.
func placeInBase(bases []uint64, addr uint64) (uint64, error) {
	if len(bases) == 0 {
		return 0, fmt.Errorf("base address table is empty")
	}
	if addr < bases[0] {
		return 0, fmt.Errorf("address 0x%x lies below the first base 0x%x",
			addr, bases[0])
	}

	i := sort.Search(len(bases), func(i int) bool {
		return bases[i] > addr
	})
	return bases[i-1], nil
}

// dotGraph gives simple.DirectedGraph nodes that remember their DOT IDs.
type dotGraph struct {
	*simple.DirectedGraph
}

func newDotGraph() *dotGraph {
	return &dotGraph{simple.NewDirectedGraph()}
}

func (g *dotGraph) NewNode() graph.Node {
	return &dotNode{Node: g.DirectedGraph.NewNode()}
}

type dotNode struct {
	graph.Node
	dotID string
}

func (n *dotNode) SetDOTID(id string) {
	n.dotID = id
}

// readGraph decodes the DOT graph and maps gonum node IDs back to the
// dynamic node indices the trace files are ordered by.
func readGraph(path string) (*dotGraph, map[int64]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read graph: %w", err)
	}

	g := newDotGraph()
	if err := dot.Unmarshal(data, g); err != nil {
		return nil, nil, fmt.Errorf("malformed graph %s: %w", path, err)
	}

	nodeIdx := make(map[int64]int)
	nodes := g.Nodes()
	for nodes.Next() {
		n := nodes.Node().(*dotNode)
		idx, err := strconv.Atoi(n.dotID)
		if err != nil {
			return nil, nil, fmt.Errorf(
				"node id %q in %s is not a dynamic node index", n.dotID, path)
		}
		nodeIdx[n.ID()] = idx
	}

	return g, nodeIdx, nil
}

// readBaseAddrTable parses "name,varid,type,size,addr" lines and returns the
// addresses in ascending order.
func readBaseAddrTable(path string) ([]uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read base address table: %w", err)
	}
	defer file.Close()

	var bases []uint64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed base address line %q", line)
		}

		addr, err := strconv.ParseUint(strings.TrimSpace(fields[4]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed base address line %q: %w", line, err)
		}
		bases = append(bases, addr)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(bases, func(i, j int) bool { return bases[i] < bases[j] })
	return bases, nil
}
