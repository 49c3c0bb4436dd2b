package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"remind/src-server/model"
	"remind/src-server/store"
	"remind/src-server/utils"

	"github.com/dustin/go-humanize"
)

type OneEventRespBody struct {
	model.Event
	Remaining     *model.TimeRemaining `json:"remaining"`
	RemainingText string               `json:"remainingText"`
	Relative      string               `json:"relative,omitempty"`
	Band          model.Band           `json:"band,omitempty"`
}

func toEventRespBody(as *utils.AppState, e model.Event, now time.Time) OneEventRespBody {
	remaining := as.Store.TimeUntil(e, now)
	respBody := OneEventRespBody{
		Event:         e,
		Remaining:     remaining,
		RemainingText: remaining.Text(),
	}
	if instant, ok := e.Instant(as.Store.Location()); ok {
		respBody.Relative = humanize.RelTime(instant, now, "ago", "from now")
	}
	if remaining != nil {
		respBody.Band = remaining.Band()
	}
	return respBody
}

func toEventsRespBody(as *utils.AppState, events []model.Event, now time.Time) []OneEventRespBody {
	respBody := make([]OneEventRespBody, 0, len(events))
	for _, e := range events {
		respBody = append(respBody, toEventRespBody(as, e, now))
	}
	return respBody
}

// writeStoreError maps store errors onto status codes. Persist failures are
// 500 even though the in-memory change already happened.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidEvent):
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
	case errors.Is(err, store.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Event not found"))
	default:
		slog.Error("store operation failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Can't save events"))
	}
}

func Events(muxer *http.ServeMux, as *utils.AppState) {
	// every event, insertion order
	muxer.HandleFunc("GET /events", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			now := as.Now()
			writeJSON(w, http.StatusOK, toEventsRespBody(as, as.Store.All(), now))
		}))

	muxer.HandleFunc("GET /events/upcoming", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			now := as.Now()
			writeJSON(w, http.StatusOK, toEventsRespBody(as, as.Store.Upcoming(now), now))
		}))

	muxer.HandleFunc("GET /events/within-24h", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			now := as.Now()
			writeJSON(w, http.StatusOK, toEventsRespBody(as, as.Store.Within24Hours(now), now))
		}))

	type NextRespBody struct {
		Event *OneEventRespBody `json:"event"`
	}

	// countdown to the earliest upcoming event
	muxer.HandleFunc("GET /events/next", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			now := as.Now()
			respBody := NextRespBody{}
			if next, ok := as.Store.Next(now); ok {
				event := toEventRespBody(as, next, now)
				respBody.Event = &event
			}
			writeJSON(w, http.StatusOK, respBody)
		}))

	muxer.HandleFunc("POST /events", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody model.NewEvent
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			event, err := as.Store.Add(r.Context(), reqBody)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			slog.Info("event added", "id", event.ID, "name", event.Name, "date", event.Date, "time", event.Time)
			writeJSON(w, http.StatusCreated, toEventRespBody(as, event, as.Now()))
		}))

	type NaturalReqBody struct {
		Text        string `json:"text"`
		Description string `json:"description"`
	}

	// e.g. {"text": "dentist tomorrow at 3pm"}
	muxer.HandleFunc("POST /events/natural", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody NaturalReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			newEvent, err := as.Natural.ParseEvent(reqBody.Text, as.Now())
			if err != nil {
				slog.Debug("can't parse natural event", "text", reqBody.Text, "error", err)
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Can't find a date or time in the text"))
				return
			}
			newEvent.Description = reqBody.Description
			event, err := as.Store.Add(r.Context(), newEvent)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			slog.Info("event added", "id", event.ID, "name", event.Name, "date", event.Date, "time", event.Time)
			writeJSON(w, http.StatusCreated, toEventRespBody(as, event, as.Now()))
		}))

	muxer.HandleFunc("DELETE /events/{id}", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			if err := as.Store.Delete(r.Context(), r.PathValue("id")); err != nil {
				writeStoreError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}))

	type CompletedReqBody struct {
		Completed *bool `json:"completed"`
	}

	muxer.HandleFunc("PATCH /events/{id}/completed", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody CompletedReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil || reqBody.Completed == nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Please provide completed as true or false"))
				return
			}
			event, err := as.Store.SetCompleted(r.Context(), r.PathValue("id"), *reqBody.Completed)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toEventRespBody(as, event, as.Now()))
		}))
}
