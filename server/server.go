// Package server exposes the tournament actions over HTTP and pushes
// every new snapshot to websocket subscribers.
package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ezBadminton/tourneymgr/app"
	"github.com/ezBadminton/tourneymgr/core"
	"github.com/ezBadminton/tourneymgr/history"
	"github.com/ezBadminton/tourneymgr/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

// The snapshot sent to clients
type StateView struct {
	SchemaVersion       int                   `json:"schemaVersion"`
	CurrentTournamentId string                `json:"currentTournamentId,omitempty"`
	Tournaments         []core.TournamentView `json:"tournaments"`
	ParticipantHistory  history.History       `json:"participantHistory"`
}

func NewStateView(state storage.State) StateView {
	views := make([]core.TournamentView, len(state.Tournaments))
	for i, t := range state.Tournaments {
		views[i] = core.TournamentView{Tournament: t}
	}
	return StateView{
		SchemaVersion:       state.SchemaVersion,
		CurrentTournamentId: state.CurrentTournamentId,
		Tournaments:         views,
		ParticipantHistory:  state.ParticipantHistory,
	}
}

type Server struct {
	manager  *app.Manager
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// Creates the server and subscribes the hub to the manager's
// snapshots. The returned function ends the subscription.
func New(manager *app.Manager, hub *Hub, logger *slog.Logger) (*Server, func()) {
	s := &Server{
		manager: manager,
		hub:     hub,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	unsubscribe := manager.Subscribe(func(state storage.State) {
		hub.Broadcast(Message{Type: MessageStateUpdated, Payload: NewStateView(state)})
	})
	return s, unsubscribe
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/ws", s.serveWs)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Delete("/state", s.clearAll)
		r.Get("/history", s.getHistory)
		r.Get("/export", s.exportState)
		r.Post("/import", s.importState)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", s.listTournaments)
			r.Post("/", s.createTournament)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getTournament)
				r.Delete("/", s.deleteTournament)
				r.Post("/select", s.selectTournament)
				r.Post("/fixtures", s.generateFixtures)
				r.Post("/reset", s.resetTournament)
				r.Post("/simulate", s.simulateAll)
				r.Post("/ratings", s.applyRatings)
				r.Post("/rounds/{round}/simulate", s.simulateRound)
				r.Post("/matches/{matchId}/simulate", s.simulateMatch)
				r.Put("/matches/{matchId}/result", s.setMatchResult)
				r.Put("/participants/{participantId}/rating", s.updateParticipantRating)
				r.Post("/participants/{participantId}/withdraw", s.withdrawParticipant)
				r.Post("/participants/{participantId}/reenter", s.reenterParticipant)
			})
		})
	})

	return r
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewStateView(s.manager.State()))
}

func (s *Server) clearAll(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.ClearAll(); err != nil {
		s.actionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.manager.State().ParticipantHistory)
}

func (s *Server) exportState(w http.ResponseWriter, r *http.Request) {
	file := s.manager.Export()
	name := fmt.Sprintf("tourney-%s.json", file.ExportedAt.Format("20060102-150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	s.writeJSON(w, http.StatusOK, file)
}

func (s *Server) importState(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	result := s.manager.Import(data)
	if !result.Ok {
		s.writeJSON(w, http.StatusBadRequest, result)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) listTournaments(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewStateView(s.manager.State()).Tournaments)
}

func (s *Server) createTournament(w http.ResponseWriter, r *http.Request) {
	var input app.NewTournament
	if err := readJSON(w, r, &input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.manager.CreateTournament(input)
	if err != nil {
		s.actionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, core.TournamentView{Tournament: t})
}

func (s *Server) getTournament(w http.ResponseWriter, r *http.Request) {
	s.respondTournament(w, r)
}

func (s *Server) deleteTournament(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.manager.Tournament(id); !ok {
		s.errorResponse(w, http.StatusNotFound, "tournament not found")
		return
	}
	if err := s.manager.DeleteTournament(id); err != nil {
		s.actionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) selectTournament(w http.ResponseWriter, r *http.Request) {
	s.tournamentAction(w, r, s.manager.SelectTournament)
}

func (s *Server) generateFixtures(w http.ResponseWriter, r *http.Request) {
	s.tournamentAction(w, r, s.manager.GenerateFixtures)
}

func (s *Server) resetTournament(w http.ResponseWriter, r *http.Request) {
	s.tournamentAction(w, r, s.manager.ResetTournament)
}

func (s *Server) simulateAll(w http.ResponseWriter, r *http.Request) {
	s.tournamentAction(w, r, s.manager.SimulateAll)
}

func (s *Server) applyRatings(w http.ResponseWriter, r *http.Request) {
	s.tournamentAction(w, r, s.manager.ApplyRatings)
}

func (s *Server) simulateRound(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil || round < 1 {
		s.errorResponse(w, http.StatusBadRequest, "invalid round")
		return
	}
	s.tournamentAction(w, r, func(id string) error {
		return s.manager.SimulateRound(id, round)
	})
}

func (s *Server) simulateMatch(w http.ResponseWriter, r *http.Request) {
	matchId := chi.URLParam(r, "matchId")
	s.tournamentAction(w, r, func(id string) error {
		return s.manager.SimulateMatch(id, matchId)
	})
}

type matchResultInput struct {
	WinnerId string `json:"winnerId"`
}

func (s *Server) setMatchResult(w http.ResponseWriter, r *http.Request) {
	var input matchResultInput
	if err := readJSON(w, r, &input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	matchId := chi.URLParam(r, "matchId")
	s.tournamentAction(w, r, func(id string) error {
		return s.manager.SetMatchResult(id, matchId, input.WinnerId)
	})
}

type ratingInput struct {
	Rating float64 `json:"rating"`
}

func (s *Server) updateParticipantRating(w http.ResponseWriter, r *http.Request) {
	var input ratingInput
	if err := readJSON(w, r, &input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	participantId := chi.URLParam(r, "participantId")
	s.tournamentAction(w, r, func(id string) error {
		return s.manager.UpdateParticipantRating(id, participantId, input.Rating)
	})
}

func (s *Server) withdrawParticipant(w http.ResponseWriter, r *http.Request) {
	participantId := chi.URLParam(r, "participantId")
	s.tournamentAction(w, r, func(id string) error {
		return s.manager.WithdrawParticipant(id, participantId)
	})
}

func (s *Server) reenterParticipant(w http.ResponseWriter, r *http.Request) {
	participantId := chi.URLParam(r, "participantId")
	s.tournamentAction(w, r, func(id string) error {
		return s.manager.ReenterParticipant(id, participantId)
	})
}

// Runs an action on the tournament of the request and responds with
// the tournament afterwards. Rejected edits are not errors and
// respond with the unchanged tournament.
func (s *Server) tournamentAction(w http.ResponseWriter, r *http.Request, action func(id string) error) {
	id := chi.URLParam(r, "id")
	if _, ok := s.manager.Tournament(id); !ok {
		s.errorResponse(w, http.StatusNotFound, "tournament not found")
		return
	}
	if err := action(id); err != nil {
		s.actionError(w, err)
		return
	}
	s.respondTournament(w, r)
}

func (s *Server) respondTournament(w http.ResponseWriter, r *http.Request) {
	t, ok := s.manager.Tournament(chi.URLParam(r, "id"))
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "tournament not found")
		return
	}
	s.writeJSON(w, http.StatusOK, core.TournamentView{Tournament: t})
}

func (s *Server) actionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidFormat):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrUnknownParticipant):
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, app.ErrClosed):
		s.errorResponse(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("unexpected action error", slog.Any("error", err))
		s.errorResponse(w, http.StatusInternalServerError, "the action failed")
	}
}

// Upgrades the connection and streams every new snapshot to it,
// starting with the current one
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade websocket connection", slog.Any("error", err))
		return
	}

	client := &Client{hub: s.hub, conn: conn, send: make(chan []byte, sendBuffer)}
	if !s.hub.join(client) {
		conn.Close()
		return
	}
	s.hub.sendTo(client, Message{Type: MessageStateUpdated, Payload: NewStateView(s.manager.State())})

	go client.writePump()
	go client.readPump()
}
