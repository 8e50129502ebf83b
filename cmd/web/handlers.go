package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/sabo-arena/internal/bracket"
	"github.com/AdamBeresnev/sabo-arena/internal/httputil"
	"github.com/AdamBeresnev/sabo-arena/internal/middleware"
	"github.com/AdamBeresnev/sabo-arena/internal/service"
	"github.com/AdamBeresnev/sabo-arena/internal/store"
	"github.com/AdamBeresnev/sabo-arena/views"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
)

type application struct {
	sessionManager *scs.SessionManager
	userStore      *store.UserStore
	users          *service.UserService
	tournaments    *service.TournamentService
	matches        *service.MatchService
}

var badRequestErrors = []error{
	service.ErrMatchNotReady,
	service.ErrWinnerNotInMatch,
	service.ErrInvalidScore,
	service.ErrTournamentNotActive,
	service.ErrInvalidParticipantName,
	service.ErrMissingTournamentName,
	bracket.ErrInvalidParticipantCount,
	bracket.ErrInsufficientParticipants,
}

func writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		httputil.NotFound(w, "Not found", err)
		return
	case errors.Is(err, service.ErrStaleBracket):
		httputil.Conflict(w, "The bracket changed while saving, reload and try again", err)
		return
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
	}
	httputil.InternalServerError(w, msg, err)
}

func tournamentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.NotFound(w, "Tournament not found", err)
		return uuid.Nil, false
	}
	return id, true
}

// ownedTournament loads the tournament and checks the signed in organizer owns it.
func (app *application) ownedTournament(w http.ResponseWriter, r *http.Request) (*service.TournamentData, bool) {
	id, ok := tournamentID(w, r)
	if !ok {
		return nil, false
	}
	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Failed to get tournament", err)
		return nil, false
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if data.Tournament.OwnerID != userID {
		httputil.NotFound(w, "Tournament not found", nil)
		return nil, false
	}
	return data, true
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (app *application) index(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	tournaments, err := app.tournaments.GetTournamentsForUser(r.Context(), userID)
	if err != nil {
		httputil.InternalServerError(w, "Failed to get tournaments", err)
		return
	}
	views.Render(w, r, views.Index(tournaments))
}

func (app *application) createTournamentPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, views.CreateTournamentPage())
}

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := app.tournaments.CreateTournament(r.Context(), service.CreateTournamentInput{
		OwnerID:      userID,
		Name:         r.Form.Get("name"),
		Format:       r.Form.Get("format"),
		GameType:     r.Form.Get("game_type"),
		Participants: strings.Split(strings.ReplaceAll(r.Form.Get("participants"), "\r\n", "\n"), "\n"),
	})
	if err != nil {
		writeServiceError(w, "Failed to create tournament", err)
		return
	}

	redirect(w, r, fmt.Sprintf("/tournaments/%s", id))
}

func (app *application) tournamentPage(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}
	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Failed to get tournament", err)
		return
	}
	views.Render(w, r, views.TournamentView(data))
}

func (app *application) tournamentJSON(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}
	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Failed to get tournament", err)
		return
	}
	httputil.JSON(w, http.StatusOK, data)
}

func (app *application) resolveTournament(w http.ResponseWriter, r *http.Request) {
	data, ok := app.ownedTournament(w, r)
	if !ok {
		return
	}
	if _, err := app.matches.ResolveTournament(r.Context(), data.Tournament.ID); err != nil {
		writeServiceError(w, "Failed to resolve bracket", err)
		return
	}
	redirect(w, r, fmt.Sprintf("/tournaments/%s", data.Tournament.ID))
}

func (app *application) recordResult(w http.ResponseWriter, r *http.Request) {
	data, ok := app.ownedTournament(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}

	input := service.ResultInput{TournamentID: data.Tournament.ID}
	var err error
	if input.Round, err = strconv.Atoi(chi.URLParam(r, "round")); err != nil {
		httputil.BadRequest(w, "Invalid round", err)
		return
	}
	if input.Match, err = strconv.Atoi(chi.URLParam(r, "match")); err != nil {
		httputil.BadRequest(w, "Invalid match", err)
		return
	}
	if input.WinnerID, err = uuid.Parse(r.Form.Get("winner_id")); err != nil {
		httputil.BadRequest(w, "Invalid winner ID", err)
		return
	}
	if input.Score1, err = strconv.Atoi(r.Form.Get("score1")); err != nil {
		httputil.BadRequest(w, "Invalid score", err)
		return
	}
	if input.Score2, err = strconv.Atoi(r.Form.Get("score2")); err != nil {
		httputil.BadRequest(w, "Invalid score", err)
		return
	}

	result, err := app.matches.RecordResult(r.Context(), input)
	if err != nil {
		writeServiceError(w, "Failed to record result", err)
		return
	}

	if r.Header.Get("Accept") == "application/json" {
		httputil.JSON(w, http.StatusOK, result)
		return
	}
	redirect(w, r, fmt.Sprintf("/tournaments/%s", data.Tournament.ID))
}

func (app *application) loginPage(w http.ResponseWriter, r *http.Request) {
	providers := make([]string, 0, len(goth.GetProviders()))
	for name := range goth.GetProviders() {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	views.Render(w, r, views.LoginPage(providers))
}

func (app *application) authCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		httputil.BadRequest(w, "Authentication failure", err)
		return
	}

	user, err := app.users.FindOrCreateUserByProvider(r.Context(), gothUser)
	if err != nil {
		httputil.InternalServerError(w, "Failed to find or create user", err)
		return
	}

	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to renew session", err)
		return
	}
	app.sessionManager.Put(r.Context(), middleware.SessionUserKey, user.ID.String())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (app *application) guestLogin(w http.ResponseWriter, r *http.Request) {
	user, err := app.users.EnsureGuestUser(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to login as guest", err)
		return
	}

	app.sessionManager.Put(r.Context(), middleware.SessionUserKey, user.ID.String())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to log out", err)
		return
	}
	redirect(w, r, "/login")
}
