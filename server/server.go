package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"tictactoe/engine"
	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/store"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const defaultListLimit = 20

type Option func(s *Server)

// WithGoroutines sets the root fan-out used by /findmove.
func WithGoroutines(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.goroutines = n
		}
	}
}

// WithStore enables /games and /stats.
func WithStore(st *store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// Server exposes the search over HTTP, plus a single human versus AI game.
type Server struct {
	local      *engine.Local
	store      *store.Store
	goroutines int
	router     chi.Router
}

func New(local *engine.Local, options ...Option) *Server {
	s := &Server{
		local:      local,
		goroutines: 1,
	}
	for _, option := range options {
		option(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/findmove", s.handleFindMove)
	r.Post("/evaluate", s.handleEvaluate)

	r.Get("/game", s.handleGame)
	r.Post("/game/move", s.handleMove)
	r.Post("/game/reset", s.handleReset)

	r.Get("/games", s.handleGames)
	r.Get("/stats", s.handleStats)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type findMoveRequest struct {
	Board  game.Board  `json:"board"`
	Player game.Marker `json:"player"`
}

type findMoveResponse struct {
	Index int `json:"index"`
	Score int `json:"score"`
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var payload findMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}
	if !payload.Player.IsPlayer() {
		writeError(w, http.StatusBadRequest, "player must be X or O")
		return
	}

	minimax := searcher.NewMinimax(payload.Player, searcher.WithGoroutines(s.goroutines))
	move, err := minimax.BestMove(payload.Board, payload.Player)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, findMoveResponse{Index: move.Index, Score: move.Score})
}

type evaluateRequest struct {
	Board game.Board `json:"board"`
}

type evaluateResponse struct {
	Status   game.Status `json:"status"`
	Winner   game.Marker `json:"winner"`
	Full     bool        `json:"full"`
	Terminal bool        `json:"terminal"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var payload evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}
	b := payload.Board
	writeJSON(w, http.StatusOK, evaluateResponse{
		Status:   b.Status(),
		Winner:   b.Winner(),
		Full:     game.IsFull(b),
		Terminal: game.IsTerminal(b),
	})
}

type gameResponse struct {
	Board  game.Board    `json:"board"`
	Status game.Status   `json:"status"`
	Winner game.Marker   `json:"winner"`
	Human  game.Marker   `json:"human"`
	AI     game.Marker   `json:"ai"`
	Turns  []engine.Turn `json:"turns"`
	Played []engine.Turn `json:"played,omitempty"`
}

func (s *Server) gameState(played []engine.Turn) gameResponse {
	b := s.local.Board()
	return gameResponse{
		Board:  b,
		Status: b.Status(),
		Winner: b.Winner(),
		Human:  s.local.Human(),
		AI:     s.local.AI(),
		Turns:  s.local.History(),
		Played: played,
	}
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gameState(nil))
}

type moveRequest struct {
	Index *int `json:"index"`
	Row   *int `json:"row"`
	Col   *int `json:"col"`
}

func (p moveRequest) cell() (int, bool) {
	switch {
	case p.Index != nil:
		return *p.Index, true
	case p.Row != nil && p.Col != nil:
		return game.Index(*p.Row, *p.Col), true
	default:
		return 0, false
	}
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload moveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}
	index, ok := payload.cell()
	if !ok {
		writeError(w, http.StatusBadRequest, "index or row and col required")
		return
	}

	u, err := s.local.PlayHuman(index)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.gameState(u.Turns))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	u, err := s.local.Reset()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.gameState(u.Turns))
}

type gameRecord struct {
	ID         int64         `json:"id"`
	FinishedAt time.Time     `json:"finished_at"`
	Human      game.Marker   `json:"human"`
	AI         game.Marker   `json:"ai"`
	Status     game.Status   `json:"status"`
	Winner     game.Marker   `json:"winner"`
	Board      game.Board    `json:"board"`
	Turns      []engine.Turn `json:"turns"`
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "game history is disabled")
		return
	}
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	games, err := s.store.ListGames(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list games")
		writeError(w, http.StatusInternalServerError, "failed to list games")
		return
	}
	records := make([]gameRecord, 0, len(games))
	for _, g := range games {
		records = append(records, gameRecord{
			ID:         g.ID,
			FinishedAt: g.FinishedAt,
			Human:      g.Human,
			AI:         g.AI,
			Status:     g.Status,
			Winner:     g.Winner,
			Board:      g.Board,
			Turns:      g.Turns,
		})
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "game history is disabled")
		return
	}
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to compute stats")
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// statusFor maps caller contract violations to client errors.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidMove), errors.Is(err, game.ErrInvalidMarker):
		return http.StatusBadRequest
	case errors.Is(err, searcher.ErrSearchPrecondition),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrNotYourTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
