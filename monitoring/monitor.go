// Package monitoring exposes live simulation state over HTTP so that long
// runs can be inspected without stopping them.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"gitlab.com/akita/akita/v3/sim"

	"github.com/ChenFengAndy/ALADDIN/tlb"
)

// A Monitor serves the current simulation time, the TLB counters, and the
// power estimate of one running simulation.
type Monitor struct {
	engine sim.Engine
	freq   sim.Freq
	tlb    *tlb.Comp

	portNumber int
}

// NewMonitor creates a monitor for the given engine and TLB.
func NewMonitor(engine sim.Engine, freq sim.Freq, t *tlb.Comp) *Monitor {
	return &Monitor{
		engine: engine,
		freq:   freq,
		tlb:    t,
	}
}

// WithPortNumber requests a specific port instead of a random free one.
func (m *Monitor) WithPortNumber(port int) *Monitor {
	m.portNumber = port
	return m
}

// StartServer starts serving in the background and reports the address on
// stderr.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/stats", m.stats)
	r.HandleFunc("/api/power", m.power)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(os.Stderr,
		"Monitoring simulation with http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		dieOnErr(http.Serve(listener, r))
	}()
}

func (m *Monitor) now(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.engine.CurrentTime())
}

func (m *Monitor) stats(w http.ResponseWriter, r *http.Request) {
	err := json.NewEncoder(w).Encode(m.tlb.Stats())
	dieOnErr(err)
}

func (m *Monitor) power(w http.ResponseWriter, r *http.Request) {
	if !m.tlb.HasPowerModel() {
		http.Error(w, "no power model configured", http.StatusNotFound)
		return
	}

	now := m.engine.CurrentTime()
	cycles := uint64(float64(now) * float64(m.freq))
	if cycles == 0 {
		http.Error(w, "simulation has not started", http.StatusConflict)
		return
	}

	cycleTimeNS := float64(m.freq.Period()) * 1e9
	total, dynamic, leakage := m.tlb.AveragePower(cycles, cycleTimeNS)

	err := json.NewEncoder(w).Encode(map[string]float64{
		"total_power":   total,
		"dynamic_power": dynamic,
		"leakage_power": leakage,
		"area":          m.tlb.PowerEstimate().Area,
	})
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
