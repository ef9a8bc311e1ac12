package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"tictactoe/agent"
	"tictactoe/config"
	"tictactoe/engine"
	"tictactoe/experiments"
	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/server"
	"tictactoe/store"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	mode := flag.String("mode", "play", "play, serve or selfplay")
	remote := flag.String("remote", "", "base URL of a server to ask for AI moves in play mode")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	level, _ := cfg.Level()
	zerolog.SetGlobalLevel(level)

	switch *mode {
	case "play":
		err = play(cfg, newAI(cfg, *remote), os.Stdin, os.Stdout)
	case "serve":
		err = serve(cfg)
	case "selfplay":
		err = selfPlay(cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func newAI(cfg config.Config, remote string) agent.Agent {
	if remote != "" {
		return agent.NewRemoteAgent(remote, 30*time.Second)
	}
	return agent.NewMinimaxAgent(searcher.NewMinimax(cfg.AI(), searcher.WithGoroutines(cfg.Goroutines)))
}

func play(cfg config.Config, ai agent.Agent, in io.Reader, out io.Writer) error {
	options := []engine.Option{
		engine.WithOnGameOver(func(r engine.Result) {
			if r.Status == game.Draw {
				fmt.Fprintln(out, "Game over: draw")
			} else {
				fmt.Fprintf(out, "Game over: %v wins\n", r.Winner)
			}
		}),
	}
	if cfg.AIFirst {
		options = append(options, engine.WithAIFirst())
	}
	local, err := engine.NewLocal(cfg.Human, ai, options...)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "You play %v. Enter a cell as \"row col\" or an index 0-8.\n", cfg.Human)
	fmt.Fprint(out, local.Board().Grid())

	scanner := bufio.NewScanner(in)
	for local.Status() == game.InProgress && scanner.Scan() {
		index, err := parseCell(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		u, err := local.PlayHuman(index)
		if errors.Is(err, game.ErrInvalidMove) {
			fmt.Fprintln(out, err)
			continue
		}
		if err != nil {
			return err
		}
		for _, turn := range u.Turns[1:] {
			fmt.Fprintf(out, "AI plays %d\n", turn.Index)
		}
		fmt.Fprint(out, u.Board.Grid())
	}
	return scanner.Err()
}

// parseCell accepts "row col" or a single cell index.
func parseCell(line string) (int, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 1:
		return strconv.Atoi(fields[0])
	case 2:
		row, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, err
		}
		col, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, err
		}
		return game.Index(row, col), nil
	default:
		return 0, fmt.Errorf("expected \"row col\" or an index, got %q", line)
	}
}

func serve(cfg config.Config) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	options := []engine.Option{
		engine.WithOnGameOver(func(r engine.Result) {
			id, err := st.SaveGame(context.Background(), store.Game{Human: cfg.Human, AI: cfg.AI(), Result: r})
			if err != nil {
				log.Error().Err(err).Msg("failed to save game")
				return
			}
			log.Info().Msgf("saved game %d", id)
		}),
	}
	if cfg.AIFirst {
		options = append(options, engine.WithAIFirst())
	}
	local, err := engine.NewLocal(cfg.Human, newAI(cfg, ""), options...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(local, server.WithGoroutines(cfg.Goroutines), server.WithStore(st))
	return srv.ListenAndServe(ctx, cfg.Addr)
}

func selfPlay(cfg config.Config) error {
	summary, err := experiments.Run("selfplay", experiments.DefaultConfigs(), experiments.DefaultMatchUps(), cfg.Experiments.Games, cfg.Experiments.Dir)
	if err != nil {
		return err
	}
	log.Info().Msgf("played %d games: x=%d o=%d draws=%d", summary.Games, summary.WinsX, summary.WinsO, summary.Draws)
	if summary.Dir != "" {
		log.Info().Msgf("records written to %s", summary.Dir)
	}
	return nil
}
