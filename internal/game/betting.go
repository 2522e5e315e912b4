package game

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/charmbracelet/log"
)

// maxInvalidAttempts bounds how many rejected actions a seat may submit in a
// row before it is folded.
const maxInvalidAttempts = 5

// ErrBettingRoundUsed is returned when Run is called twice.
var ErrBettingRoundUsed = errors.New("betting round already run")

// BettingState is the lifecycle of a single betting pass
type BettingState int

const (
	Idle BettingState = iota
	CollectingBets
	Resolved
)

func (s BettingState) String() string {
	return [...]string{"idle", "collecting", "resolved"}[s]
}

// BettingOption configures a BettingRound.
type BettingOption func(*BettingRound)

// WithBlinds makes the first two players post the small and big blind
// before anyone acts.
func WithBlinds() BettingOption {
	return func(br *BettingRound) { br.blinds = true }
}

// WithAudience sets who hears about actions. Defaults to the participants.
func WithAudience(players []*Player) BettingOption {
	return func(br *BettingRound) { br.audience = players }
}

// WithStreet records the street and the board visible to the players.
func WithStreet(street Street, community []deck.Card) BettingOption {
	return func(br *BettingRound) {
		br.street = street
		br.community = community
	}
}

// WithBettingLogger sets the logger.
func WithBettingLogger(logger *log.Logger) BettingOption {
	return func(br *BettingRound) { br.logger = logger }
}

// BettingRound runs one pass of betting among players in the given order.
// It owns no chips itself: stakes are debited from the players and the
// committed total is reported back in the result.
type BettingRound struct {
	players   []*Player
	audience  []*Player
	minBet    int
	blinds    bool
	street    Street
	community []deck.Card
	logger    *log.Logger

	state BettingState
	bets  map[*Player]int
	pot   int
	acted map[*Player]bool
}

// BettingResult is the outcome of a betting pass.
type BettingResult struct {
	Active  []*Player       // still contesting the pot, in seat order
	Left    []*Player       // quit or disconnected during the pass
	Bets    map[*Player]int // chips committed by each player this pass
	Blinds  map[string]int  // blinds posted, by player name
	Pot     int             // always the sum of Bets
	Skipped bool            // no decision was possible, nobody was asked
}

// NewBettingRound prepares a betting pass among players, who are asked to
// act in the order given. minBet is the table's current minimum bet.
func NewBettingRound(players []*Player, minBet int, opts ...BettingOption) *BettingRound {
	br := &BettingRound{
		players: players,
		minBet:  minBet,
		logger:  log.Default(),
		bets:    make(map[*Player]int, len(players)),
		acted:   make(map[*Player]bool, len(players)),
	}
	for _, opt := range opts {
		opt(br)
	}
	if br.audience == nil {
		br.audience = players
	}
	br.logger = br.logger.WithPrefix("betting").With("street", br.street)
	return br
}

// State returns where the round is in its lifecycle.
func (br *BettingRound) State() BettingState { return br.state }

// Run collects bets until the pass is complete. The returned error is only
// non-nil when ctx is cancelled; the result still reports what was committed
// so the caller can refund it.
func (br *BettingRound) Run(ctx context.Context) (BettingResult, error) {
	if br.state != Idle {
		return BettingResult{}, ErrBettingRoundUsed
	}
	br.state = CollectingBets
	defer func() { br.state = Resolved }()

	queue := inPlay(br.players)
	if len(queue) < 2 {
		return br.result(nil, true), nil
	}

	start := summarize(queue)
	var blinds map[string]int
	if br.blinds {
		blinds = br.postBlinds(queue)
		// Action starts after the big blind; heads-up this is the small blind.
		queue = slices.Concat(queue[2:], queue[:2])
	}

	if br.trivial(queue) {
		br.logger.Debug("Skipping betting, no decision possible")
		return br.result(blinds, true), nil
	}

	notify(ctx, br.logger, br.audience, StreetStartEvent{
		Street:  br.street,
		Players: start,
		Blinds:  blinds,
		MinBet:  br.minBet,
	}, nil)

	for {
		if err := ctx.Err(); err != nil {
			return br.result(blinds, false), err
		}

		queue = inPlay(queue)
		if br.complete(queue) {
			break
		}

		p := queue[0]
		if p.Stake > 0 {
			a := br.ask(ctx, p)
			br.apply(p, a)
			notify(ctx, br.logger, br.audience, ActionEvent{Player: p.Name, Action: a}, p)
		}
		br.acted[p] = true
		queue = slices.Concat(queue[1:], []*Player{p})
	}

	return br.result(blinds, false), nil
}

func (br *BettingRound) postBlinds(queue []*Player) map[string]int {
	blinds := make(map[string]int, 2)
	for i, amount := range [2]int{br.minBet / 2, br.minBet} {
		p := queue[i]
		posted := min(amount, p.Stake)
		br.commit(p, posted)
		blinds[p.Name] = posted
	}
	br.logger.Debug("Blinds posted", "small", queue[0].Name, "big", queue[1].Name)
	return blinds
}

// trivial reports whether the pass can be skipped: at most one player still
// has chips and they owe nothing.
func (br *BettingRound) trivial(queue []*Player) bool {
	var withChips []*Player
	for _, p := range queue {
		if p.Stake > 0 {
			withChips = append(withChips, p)
		}
	}
	switch len(withChips) {
	case 0:
		return true
	case 1:
		return br.bets[withChips[0]] >= br.maxBet()
	default:
		return false
	}
}

// complete reports whether betting is over: one player remains, or every
// player with chips has acted and matched the highest bet.
func (br *BettingRound) complete(queue []*Player) bool {
	if len(queue) <= 1 {
		return true
	}
	high := br.maxBet()
	for _, p := range queue {
		if p.Stake == 0 {
			continue
		}
		if !br.acted[p] || br.bets[p] != high {
			return false
		}
	}
	return true
}

func (br *BettingRound) maxBet() int {
	high := 0
	for _, b := range br.bets {
		high = max(high, b)
	}
	return high
}

// ask requests an action from p, re-prompting on invalid actions.
func (br *BettingRound) ask(ctx context.Context, p *Player) Action {
	if p.Provider == nil {
		return FoldAction()
	}
	req := Request{
		Player:     p.Name,
		CallAmount: br.maxBet() - br.bets[p],
		Stake:      p.Stake,
		MinBet:     br.minBet,
		Street:     br.street,
		Hole:       slices.Clone(p.Hand.Hole),
		Community:  slices.Clone(br.community),
	}
	for attempt := 1; ; attempt++ {
		a := p.Provider.Decide(ctx, req)
		err := req.Validate(a)
		if err == nil {
			return a
		}
		br.logger.Warn("Rejected action", "player", p.Name, "action", a, "attempt", attempt, "error", err)
		if attempt >= maxInvalidAttempts {
			return FoldAction()
		}
	}
}

func (br *BettingRound) apply(p *Player, a Action) {
	switch a.Kind {
	case Bet:
		br.commit(p, a.Amount)
	case Fold:
		p.Status = Folded
	case Quit:
		p.Status = Left
	}
	br.logger.Debug("Action", "player", p.Name, "action", a, "stake", p.Stake, "pot", br.pot)
}

func (br *BettingRound) commit(p *Player, amount int) {
	p.Stake -= amount
	br.bets[p] += amount
	br.pot += amount
}

func (br *BettingRound) result(blinds map[string]int, skipped bool) BettingResult {
	res := BettingResult{
		Bets:    maps.Clone(br.bets),
		Blinds:  blinds,
		Pot:     br.pot,
		Skipped: skipped,
	}
	for _, p := range br.players {
		switch p.Status {
		case Active:
			res.Active = append(res.Active, p)
		case Left:
			res.Left = append(res.Left, p)
		}
	}
	return res
}
