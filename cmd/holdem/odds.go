package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/VoltRadar/poker-simulation/internal/ai"
	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// OddsCmd estimates how often a hand wins against random opponents.
type OddsCmd struct {
	Hole      string `arg:"" help:"Your hole cards, e.g. AHKH"`
	Board     string `short:"b" help:"Community cards, e.g. 2H7C9H"`
	Opponents int    `short:"o" default:"1" help:"Number of opponents"`
	Samples   int    `short:"n" default:"20000" help:"Number of simulated deals"`
	Workers   int    `short:"w" default:"4" help:"Simulation goroutines"`
	Seed      int64  `help:"Deterministic RNG seed (0 picks one)"`
}

var (
	oddsHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	oddsLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Width(12)

	oddsValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)
)

func (c *OddsCmd) Run(cli *CLI) error {
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	hole, err := deck.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	board, err := deck.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}

	sim := ai.NewSimulator()
	sim.MinSamples = c.Samples
	sim.MinDuration = 0
	sim.Workers = c.Workers

	est := sim.Simulate(context.Background(), randutil.New(randutil.Seed(c.Seed)), hole, board, c.Opponents)
	if est.Samples == 0 {
		return errors.New("nothing to simulate: check for two hole cards, at most five board cards, no duplicates and a sensible number of opponents")
	}

	lower, upper := est.ConfidenceInterval()
	title := fmt.Sprintf("%s vs %d", deck.FormatCards(hole), c.Opponents)
	if len(board) > 0 {
		title += " on " + deck.FormatCards(board)
	}
	fmt.Println(oddsHeaderStyle.Render(title))
	rows := [][2]string{
		{"Win", fmt.Sprintf("%.2f%%", est.WinRate()*100)},
		{"Tie", fmt.Sprintf("%.2f%%", est.TieRate()*100)},
		{"Equity", fmt.Sprintf("%.2f%%", est.Equity()*100)},
		{"95% CI", fmt.Sprintf("%.2f%% - %.2f%%", lower*100, upper*100)},
		{"Samples", fmt.Sprint(est.Samples)},
	}
	for _, row := range rows {
		fmt.Println(oddsLabelStyle.Render(row[0]) + oddsValueStyle.Render(row[1]))
	}
	return nil
}
