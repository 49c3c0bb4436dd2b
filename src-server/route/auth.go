package route

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"remind/src-server/jwt"
	"remind/src-server/utils"
)

const AuthCookieName = "authorization"

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	// logout
	muxer.HandleFunc("DELETE /auth", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     AuthCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusOK)
	})

	type AuthReqBody struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// login
	muxer.HandleFunc("POST /auth", func(w http.ResponseWriter, r *http.Request) {
		var reqBody AuthReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		usernameOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(reqBody.Username)), []byte(as.Config.GetAuthUsername())) == 1
		passwordOK := subtle.ConstantTimeCompare([]byte(reqBody.Password), []byte(as.Config.GetAuthPassword())) == 1
		if !usernameOK || !passwordOK {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Wrong username or password"))
			return
		}

		now := as.Now()
		token, err := jwt.Encode(jwt.New(as.Config.GetAuthUsername(), now, as.Config.GetJWTExpire()), as.Config.GetJWTSecret())
		if err != nil {
			slog.Error("can't encode session token", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create session"))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     AuthCookieName,
			Value:    token,
			Path:     "/",
			Expires:  now.Add(as.Config.GetJWTExpire()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusOK)
	})

	type AuthRespBody struct {
		IsAuthenticated bool   `json:"isAuthenticated"`
		Name            string `json:"name,omitempty"`
	}

	// session status
	muxer.HandleFunc("GET /auth", func(w http.ResponseWriter, r *http.Request) {
		respBody := AuthRespBody{}
		if payload, err := sessionFromRequest(as, r); err == nil {
			respBody.IsAuthenticated = true
			respBody.Name = payload.UserName
		}
		writeJSON(w, http.StatusOK, respBody)
	})
}
