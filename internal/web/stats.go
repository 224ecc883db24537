package web

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// statsResponse is the /stats payload.
type statsResponse struct {
	Uptime        string  `json:"uptime"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	GoRoutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	NumCPU        int     `json:"num_cpu"`

	// Host figures; zero when the platform query fails.
	HostUptimeSeconds uint64  `json:"host_uptime_seconds"`
	HostMemUsedPct    float64 `json:"host_mem_used_pct"`
}

// handleStats reports process and host statistics.
func handleStats(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		uptime := time.Since(startTime)
		resp := statsResponse{
			Uptime:        uptime.Round(time.Second).String(),
			UptimeSeconds: int64(uptime.Seconds()),
			GoRoutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
			NumCPU:        runtime.NumCPU(),
		}

		if up, err := host.Uptime(); err == nil {
			resp.HostUptimeSeconds = up
		}
		if vm, err := mem.VirtualMemory(); err == nil {
			resp.HostMemUsedPct = vm.UsedPercent
		}

		c.JSON(http.StatusOK, resp)
	}
}
