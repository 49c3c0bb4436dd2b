package route

import (
	"io"
	"log/slog"
	"net/http"

	"remind/src-server/utils"

	ical "github.com/arran4/golang-ical"
)

const icalProductID = "-//remind//event reminder//EN"

// Ical exports the upcoming events, each with a display alarm five minutes
// ahead.
func Ical(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /events.ics", AuthMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			now := as.Now()
			loc := as.Store.Location()

			calendar := ical.NewCalendar()
			calendar.SetMethod(ical.MethodPublish)
			calendar.SetProductId(icalProductID)
			for _, e := range as.Store.Upcoming(now) {
				instant, ok := e.Instant(loc)
				if !ok {
					continue
				}
				vevent := calendar.AddEvent(e.ID)
				vevent.SetCreatedTime(e.CreatedAt)
				vevent.SetDtStampTime(now)
				vevent.SetStartAt(instant)
				vevent.SetSummary(e.Name)
				if e.Description != "" {
					vevent.SetDescription(e.Description)
				}
				alarm := vevent.AddAlarm()
				alarm.SetAction(ical.ActionDisplay)
				alarm.SetTrigger("-PT5M")
			}

			w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			if _, err := io.WriteString(w, calendar.Serialize()); err != nil {
				slog.Warn("can't write to response", "where", "route/ical.go", "err", err)
			}
		}))
}
