package game

import (
	"slices"

	"github.com/VoltRadar/poker-simulation/internal/evaluator"
)

// Pot represents a pot (main or side)
type Pot struct {
	Amount   int
	Eligible []*Player // contenders who may win it, in seat order
}

// BuildPots divides the chips committed during a round into pots.
//
// With sidePots disabled every chip goes into a single pot contested by all
// remaining contenders, so a short all-in player can win chips beyond what
// they could match. With sidePots enabled the chips are layered by each
// contender's total contribution and every layer is contested only by the
// contenders who paid into it in full.
func BuildPots(contrib map[*Player]int, contenders []*Player, sidePots bool) []Pot {
	total := 0
	for _, c := range contrib {
		total += c
	}
	if !sidePots {
		return []Pot{{Amount: total, Eligible: contenders}}
	}

	levels := make([]int, 0, len(contenders))
	for _, p := range contenders {
		if c := contrib[p]; c > 0 && !slices.Contains(levels, c) {
			levels = append(levels, c)
		}
	}
	slices.Sort(levels)

	var pots []Pot
	assigned, previous := 0, 0
	for _, level := range levels {
		pot := Pot{}
		for _, c := range contrib {
			pot.Amount += min(c, level) - min(c, previous)
		}
		for _, p := range contenders {
			if contrib[p] >= level {
				pot.Eligible = append(pot.Eligible, p)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
			assigned += pot.Amount
		}
		previous = level
	}

	if len(pots) == 0 {
		return []Pot{{Amount: total, Eligible: contenders}}
	}
	// Chips above the largest contender's contribution can only come from
	// folded players; they stay with the top pot.
	pots[len(pots)-1].Amount += total - assigned
	return pots
}

// SplitPot divides amount evenly among winners. The remainder is handed out
// one chip at a time in the winners' order.
func SplitPot(amount int, winners []*Player) map[*Player]int {
	out := make(map[*Player]int, len(winners))
	if len(winners) == 0 {
		return out
	}
	share, extra := amount/len(winners), amount%len(winners)
	for i, w := range winners {
		out[w] += share
		if i < extra {
			out[w]++
		}
	}
	return out
}

// settlement is the outcome of awarding every pot.
type settlement struct {
	payouts map[*Player]int
	winners []*Player // winners of the first (main) pot
	best    evaluator.HandRank
}

// settle awards each pot to the best hands among its eligible players.
func settle(pots []Pot, ranks map[*Player]evaluator.HandRank) settlement {
	s := settlement{payouts: make(map[*Player]int)}
	for i, pot := range pots {
		var winners []*Player
		var best evaluator.HandRank
		for _, p := range pot.Eligible {
			hr := ranks[p]
			switch {
			case len(winners) == 0 || hr.Beats(best):
				winners = []*Player{p}
				best = hr
			case evaluator.Compare(hr, best) == 0:
				winners = append(winners, p)
			}
		}
		for p, amount := range SplitPot(pot.Amount, winners) {
			s.payouts[p] += amount
		}
		if i == 0 {
			s.winners = winners
			s.best = best
		}
	}
	return s
}
