package game

import (
	"context"

	"github.com/charmbracelet/log"
)

// notify delivers ev to every reachable player in audience except skip.
// Players whose observer fails are marked Left and the rest of the audience
// sees them quit.
func notify(ctx context.Context, logger *log.Logger, audience []*Player, ev Event, skip *Player) {
	var gone []*Player
	for _, p := range audience {
		if p == skip || p.Status == Left || p.Status == Eliminated {
			continue
		}
		if !deliver(ctx, logger, p, ev) {
			gone = append(gone, p)
		}
	}
	for _, p := range gone {
		announceDeparture(ctx, logger, audience, p)
	}
}

// announceDeparture tells audience that p left the table.
func announceDeparture(ctx context.Context, logger *log.Logger, audience []*Player, p *Player) {
	notify(ctx, logger, audience, ActionEvent{Player: p.Name, Action: QuitAction()}, p)
}

// deliver sends ev to a single player and reports whether it arrived (or
// the player has no observer).
func deliver(ctx context.Context, logger *log.Logger, p *Player, ev Event) bool {
	if p.Status == Left || p.Status == Eliminated {
		return false
	}
	obs, ok := p.Provider.(Observer)
	if !ok {
		return true
	}
	if err := obs.Observe(ctx, ev); err != nil {
		logger.Warn("Seat unreachable, removing from table",
			"player", p.Name,
			"event", ev.EventType(),
			"error", err)
		p.Status = Left
		return false
	}
	return true
}
