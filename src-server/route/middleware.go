package route

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"remind/src-server/jwt"
	"remind/src-server/utils"
)

type SessionCtxKeyType string

const SessionCtxKey SessionCtxKeyType = "session"

var errNoSession = errors.New("session cookie not found")

func sessionFromRequest(as *utils.AppState, r *http.Request) (*jwt.Payload, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return nil, errNoSession
	}
	return jwt.Decode(strings.TrimSpace(cookie.Value), as.Config.GetJWTSecret(), as.Now())
}

func AuthMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := sessionFromRequest(as, r)
		switch {
		case errors.Is(err, errNoSession):
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Session cookie not found"))
			return
		case errors.Is(err, jwt.ErrExpired):
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Session expired"))
			return
		case err != nil:
			slog.Debug("rejected session", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid session"))
			return
		}

		ctx := context.WithValue(r.Context(), SessionCtxKey, payload)
		next(w, r.WithContext(ctx))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("can't write response", "error", err)
	}
}
