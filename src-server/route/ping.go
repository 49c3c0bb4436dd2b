package route

import (
	"net/http"
	"runtime"
	"time"

	"remind/src-server/utils"

	"github.com/dustin/go-humanize"
)

func Ping(muxer *http.ServeMux, as *utils.AppState) {
	type PingRespBody struct {
		Uptime    string `json:"uptime"`
		GoVersion string `json:"goVersion"`
		Memory    string `json:"memory"`
		Events    int    `json:"events"`
	}

	muxer.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		writeJSON(w, http.StatusOK, PingRespBody{
			Uptime:    as.GetUptime().Truncate(time.Second).String(),
			GoVersion: runtime.Version(),
			Memory:    humanize.IBytes(m.Sys),
			Events:    len(as.Store.All()),
		})
	})
}
