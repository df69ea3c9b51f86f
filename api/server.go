package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/matt-g-everett/motive/engine"
	"github.com/matt-g-everett/motive/style"
)

// Api serves a small HTTP surface for inspecting the running engine.
type Api struct {
	addr string
	eng  *engine.Engine
	reg  *style.Registry
	proc *process.Process
}

// NewApi creates the API over the given engine and registry.
func NewApi(addr string, eng *engine.Engine, reg *style.Registry) *Api {
	a := new(Api)
	a.addr = addr
	a.eng = eng
	a.reg = reg
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		a.proc = p
	}
	return a
}

type statsResponse struct {
	Engine   engine.Stats `json:"engine"`
	Elements int          `json:"elements"`
	CPU      float64      `json:"cpuPercent"`
	RSS      uint64       `json:"rssBytes"`
}

func (a *Api) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Engine:   a.eng.Stats(),
		Elements: a.reg.Len(),
	}
	if a.proc != nil {
		if cpu, err := a.proc.CPUPercent(); err == nil {
			resp.CPU = cpu
		}
		if mem, err := a.proc.MemoryInfo(); err == nil {
			resp.RSS = mem.RSS
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("api: cannot write stats: %v", err)
	}
}

// Serve blocks serving the API.
func (a *Api) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", a.handleStats)

	log.Printf("Listening on %s...", a.addr)
	return http.ListenAndServe(a.addr, mux)
}
