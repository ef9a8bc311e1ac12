package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"tictactoe/engine"
	"tictactoe/game"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Game is a finished game as stored.
type Game struct {
	ID         int64
	FinishedAt time.Time
	Human      game.Marker
	AI         game.Marker
	engine.Result
}

type Stats struct {
	Games     int `json:"games"`
	HumanWins int `json:"human_wins"`
	AIWins    int `json:"ai_wins"`
	Draws     int `json:"draws"`
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the sqlite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			finished_at TEXT NOT NULL,
			human TEXT NOT NULL,
			ai TEXT NOT NULL,
			status TEXT NOT NULL,
			winner TEXT NOT NULL,
			board TEXT NOT NULL,
			turns TEXT NOT NULL);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create games table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveGame stores a finished game and returns its id.
func (s *Store) SaveGame(ctx context.Context, g Game) (int64, error) {
	if g.FinishedAt.IsZero() {
		g.FinishedAt = time.Now()
	}
	turns, err := json.Marshal(g.Turns)
	if err != nil {
		return 0, fmt.Errorf("failed to encode turns: %w", err)
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO games(finished_at, human, ai, status, winner, board, turns) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.FinishedAt.UTC().Format(time.RFC3339Nano), g.Human.String(), g.AI.String(),
		g.Status.String(), g.Winner.String(), g.Board.String(), string(turns))
	if err != nil {
		return 0, fmt.Errorf("failed to insert game: %w", err)
	}
	return result.LastInsertId()
}

// ListGames returns up to limit games, most recent first.
func (s *Store) ListGames(ctx context.Context, limit int) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, finished_at, human, ai, winner, board, turns FROM games ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		var g Game
		var finishedAt, human, ai, winner, brd, turns string
		if err := rows.Scan(&g.ID, &finishedAt, &human, &ai, &winner, &brd, &turns); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		if g.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("game %d: %w", g.ID, err)
		}
		if err := g.Human.UnmarshalText([]byte(human)); err != nil {
			return nil, fmt.Errorf("game %d: %w", g.ID, err)
		}
		if err := g.AI.UnmarshalText([]byte(ai)); err != nil {
			return nil, fmt.Errorf("game %d: %w", g.ID, err)
		}
		if err := g.Winner.UnmarshalText([]byte(winner)); err != nil {
			return nil, fmt.Errorf("game %d: %w", g.ID, err)
		}
		if g.Board, err = game.ParseBoard(brd); err != nil {
			return nil, fmt.Errorf("game %d: %w", g.ID, err)
		}
		if err := json.Unmarshal([]byte(turns), &g.Turns); err != nil {
			return nil, fmt.Errorf("game %d: %w", g.ID, err)
		}
		g.Status = g.Board.Status()
		games = append(games, g)
	}
	return games, rows.Err()
}

// Stats counts results from the human's point of view.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN winner = human THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN winner = ai THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN winner = '.' THEN 1 ELSE 0 END), 0)
		FROM games`).Scan(&stats.Games, &stats.HumanWins, &stats.AIWins, &stats.Draws)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}
