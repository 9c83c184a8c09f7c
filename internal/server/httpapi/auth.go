package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"github.com/gorilla/mux"
)

func authBody(u *models.User, p *services.TokenPair) authResponse {
	return authResponse{ID: u.ID, Name: u.Name, Email: u.Email, StudyStreak: u.StudyStreak, Token: p.AccessToken, RefreshToken: p.RefreshToken}
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, pair, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authBody(u, pair))
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, pair, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authBody(u, pair))
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	pair, err := h.Users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": pair.AccessToken, "refreshToken": pair.RefreshToken})
}

func (h *handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.Resets.RequestReset(r.Context(), req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req struct {
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Resets.CompleteReset(r.Context(), vars["id"], vars["token"], req.Password); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated successfully")
}
