package evaluator

import (
	"errors"
	"fmt"

	"github.com/VoltRadar/poker-simulation/internal/deck"
)

// ErrNoContenders is returned when a showdown is requested with no hands.
var ErrNoContenders = errors.New("showdown requires at least one contender")

// ShowdownResult describes the outcome of comparing several hands.
type ShowdownResult struct {
	// Winners holds the indices of every contender whose hand equals the
	// best, in input order. More than one entry is a tie.
	Winners []int
	Best    HandRank
	Ranks   []HandRank
}

// IsTie reports whether more than one contender shares the best hand.
func (r ShowdownResult) IsTie() bool {
	return len(r.Winners) > 1
}

// Showdown evaluates each contender's cards (hole plus community) and returns
// all contenders tied for the best hand. The winner set does not depend on the
// order in which hands are compared.
func Showdown(hands [][]deck.Card) (ShowdownResult, error) {
	if len(hands) == 0 {
		return ShowdownResult{}, ErrNoContenders
	}

	res := ShowdownResult{Ranks: make([]HandRank, len(hands))}
	for i, cards := range hands {
		hr, err := Evaluate(cards)
		if err != nil {
			return ShowdownResult{}, fmt.Errorf("contender %d: %w", i, err)
		}
		res.Ranks[i] = hr
		if i == 0 || hr.Beats(res.Best) {
			res.Best = hr
		}
	}

	for i, hr := range res.Ranks {
		if Compare(hr, res.Best) == 0 {
			res.Winners = append(res.Winners, i)
		}
	}
	return res, nil
}
