package net

import (
	"encoding/json"
	"errors"
	"log"
	nethttp "net/http"
	"time"

	server "cannonade/server"
	"cannonade/server/internal/net/proto"
	"cannonade/server/internal/net/ws"
)

type HTTPHandlerConfig struct {
	ClientDir string
	Logger    *log.Logger
}

// NewHTTPHandler wires the poll-based game endpoints, the ops surfaces, and
// static asset serving onto one mux. Game clients only ever pull state; the
// websocket at /watch is a read-only spectator feed.
func NewHTTPHandler(registry *server.Registry, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status     string                   `json:"status"`
			ServerTime int64                    `json:"serverTime"`
			TickRate   int                      `json:"tickRate"`
			Tick       uint64                   `json:"tick"`
			Rooms      int                      `json:"rooms"`
			Liveness   int64                    `json:"livenessMillis"`
			Telemetry  server.TelemetrySnapshot `json:"telemetry"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			TickRate:   server.TickRate(),
			Tick:       registry.Tick(),
			Rooms:      registry.RoomCount(),
			Liveness:   server.LivenessWindow().Milliseconds(),
			Telemetry:  registry.TelemetrySnapshot(),
		}
		writeJSON(w, logger, payload)
	})

	mux.HandleFunc("/join", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, logger, registry.Join(time.Now()))
	})

	mux.HandleFunc("/state", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		roomID := r.URL.Query().Get("roomId")
		playerID := r.URL.Query().Get("playerId")

		snapshot, err := registry.Snapshot(roomID, playerID, time.Now())
		if err != nil {
			httpError(w, "unknown room or player", nethttp.StatusNotFound)
			return
		}
		writeJSON(w, logger, snapshot)
	})

	mux.HandleFunc("/fire", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		var req proto.FireRequest
		if r.Body != nil {
			defer r.Body.Close()
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpError(w, "invalid payload", nethttp.StatusBadRequest)
				return
			}
		}

		result, err := registry.Fire(req.RoomID, req.PlayerID,
			proto.Number(req.Power), proto.Number(req.Angle), time.Now())
		if err != nil {
			if errors.Is(err, server.ErrMatchFinished) {
				httpError(w, "match finished", nethttp.StatusBadRequest)
				return
			}
			httpError(w, "unknown room or player", nethttp.StatusBadRequest)
			return
		}

		resp := proto.FireResponse{OK: result.OK}
		if !result.OK {
			resp.CooldownUntil = result.CooldownUntil.UnixMilli()
		}
		writeJSON(w, logger, resp)
	})

	mux.HandleFunc("/restart", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		var req proto.RestartRequest
		if r.Body != nil {
			defer r.Body.Close()
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpError(w, "invalid payload", nethttp.StatusBadRequest)
				return
			}
		}

		if err := registry.Restart(req.RoomID, time.Now()); err != nil {
			httpError(w, "unknown room", nethttp.StatusNotFound)
			return
		}
		writeJSON(w, logger, proto.RestartResponse{OK: true})
	})

	watch := ws.NewHandler(registry, ws.HandlerConfig{Logger: logger})
	mux.HandleFunc("/watch", watch.Handle)

	if cfg.ClientDir != "" {
		mux.Handle("/", nethttp.FileServer(nethttp.Dir(cfg.ClientDir)))
	} else {
		mux.HandleFunc("/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			nethttp.NotFound(w, r)
		})
	}

	return mux
}

func writeJSON(w nethttp.ResponseWriter, logger *log.Logger, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("failed to encode response: %v", err)
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, message string, status int) {
	nethttp.Error(w, message, status)
}
