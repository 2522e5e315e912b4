package game

import (
	"context"
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/VoltRadar/poker-simulation/internal/deck"
	"github.com/VoltRadar/poker-simulation/internal/evaluator"
	"github.com/VoltRadar/poker-simulation/internal/randutil"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
)

var (
	// ErrRoundAborted wraps any invariant violation that stops a round.
	// Chips committed before the abort are returned to their owners.
	ErrRoundAborted = errors.New("round aborted")
	// ErrNameTaken is returned when a joining player's name is already seated.
	ErrNameTaken = errors.New("name taken")
	// ErrInvalidName is returned for empty names.
	ErrInvalidName = errors.New("invalid name")
	// ErrNotEnoughPlayers is returned by PlayRound with fewer than two seats.
	ErrNotEnoughPlayers = errors.New("not enough players")
	// ErrBoardMismatch is returned when players disagree about the board.
	ErrBoardMismatch = errors.New("community cards differ between players")
	// ErrTableFull is returned by Join once MaxSeats players are seated or pending.
	ErrTableFull = errors.New("table full")
)

// MaxSeats is the most players one deck can deal: two hole cards each plus
// the five community cards.
const MaxSeats = (deck.Size - 5) / 2

// Config holds the table rules
type Config struct {
	MinBet                  int
	StartingStakeMultiplier int  // new seats start with MinBet times this
	AISeats                 int  // AI seats kept at the table
	RequireHuman            bool // only deal while a human is seated
	InflateEvery            int  // double the minimum bet every N rounds
	SidePots                bool // split uneven all-ins into side pots
	IdleInterval            time.Duration
}

// DefaultConfig returns the standard table rules.
func DefaultConfig() Config {
	return Config{
		MinBet:                  10,
		StartingStakeMultiplier: 1000,
		AISeats:                 3,
		RequireHuman:            true,
		InflateEvery:            5,
		IdleInterval:            time.Second,
	}
}

// Validate checks the table rules
func (c Config) Validate() error {
	if c.MinBet < 2 {
		return fmt.Errorf("min bet must be at least 2, got %d", c.MinBet)
	}
	if c.StartingStakeMultiplier < 1 {
		return fmt.Errorf("starting stake multiplier must be positive, got %d", c.StartingStakeMultiplier)
	}
	if c.AISeats < 0 || c.AISeats > 20 {
		return fmt.Errorf("ai seats must be between 0 and 20, got %d", c.AISeats)
	}
	if c.InflateEvery < 0 {
		return fmt.Errorf("inflate every must not be negative, got %d", c.InflateEvery)
	}
	if c.IdleInterval <= 0 {
		return fmt.Errorf("idle interval must be positive")
	}
	return nil
}

// SeatFiller creates AI seats when the table runs short of them.
type SeatFiller interface {
	NewSeat(taken func(name string) bool, stake, minBet int) *Player
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithClock sets the clock used for idle waits.
func WithClock(clock quartz.Clock) TableOption {
	return func(t *Table) { t.clock = clock }
}

// WithLogger sets the table logger.
func WithLogger(logger *log.Logger) TableOption {
	return func(t *Table) { t.logger = logger }
}

// WithRand sets the generator used to shuffle every deck.
func WithRand(rng *rand.Rand) TableOption {
	return func(t *Table) { t.rng = rng }
}

// WithSeatFiller sets how AI seats are created.
func WithSeatFiller(f SeatFiller) TableOption {
	return func(t *Table) { t.filler = f }
}

// WithDeckSource replaces the shuffled deck used for every round.
func WithDeckSource(source func(*rand.Rand) *deck.Deck) TableOption {
	return func(t *Table) { t.deckSource = source }
}

// Table runs rounds of Hold'em among its seated players.
//
// The seat list, stakes and hands belong to the goroutine calling Run or
// PlayRound. Join may be called from any goroutine: joiners wait in a pending
// list that the round loop promotes between rounds.
type Table struct {
	cfg    Config
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	filler SeatFiller

	deckSource func(*rand.Rand) *deck.Deck

	seats     []*Player
	completed int

	mu      sync.Mutex
	minBet  int
	pending []*Player
	names   map[string]bool
	public  []SeatSummary // seat snapshot readable from other goroutines
}

// NewTable creates an empty table.
func NewTable(cfg Config, opts ...TableOption) *Table {
	t := &Table{
		cfg:    cfg,
		logger: log.Default(),
		clock:  quartz.NewReal(),
		minBet: cfg.MinBet,
		names:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = randutil.New(randutil.Seed(0))
	}
	if t.deckSource == nil {
		t.deckSource = deck.NewShuffledDeck
	}
	t.logger = t.logger.WithPrefix("table")
	return t
}

// MinBet returns the current minimum bet.
func (t *Table) MinBet() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.minBet
}

// CompletedRounds returns how many rounds have been settled.
func (t *Table) CompletedRounds() int {
	return t.completed
}

// Join adds a player to the pending list with the standard starting stake.
// The player takes a seat at the start of the next round.
func (t *Table) Join(name string, kind Kind, provider DecisionProvider) (*Player, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.joinLocked(name, kind, provider, t.minBet*t.cfg.StartingStakeMultiplier)
}

func (t *Table) joinLocked(name string, kind Kind, provider DecisionProvider, stake int) (*Player, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if t.names[name] {
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	if t.occupiedLocked() >= MaxSeats {
		return nil, fmt.Errorf("%w: %d seats", ErrTableFull, MaxSeats)
	}
	p := NewPlayer(name, kind, stake, provider)
	t.names[name] = true
	t.pending = append(t.pending, p)
	t.logger.Info("Player joined", "player", name, "kind", kind, "stake", stake)
	return p, nil
}

func (t *Table) occupiedLocked() int {
	return len(t.seats) + len(t.pending)
}

// NameTaken reports whether a seated or pending player already uses name.
func (t *Table) NameTaken(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.names[name]
}

// Summary returns the public view of every seated and pending player.
func (t *Table) Summary() []SeatSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := slices.Clone(t.public)
	return append(out, summarize(t.pending)...)
}

// Seats returns the currently seated players. Only safe from the round loop.
func (t *Table) Seats() []*Player {
	return slices.Clone(t.seats)
}

func (t *Table) publish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.public = summarize(t.seats)
}

// fillAISeats tops the table up to the configured number of AI seats.
func (t *Table) fillAISeats() {
	if t.filler == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, p := range slices.Concat(t.seats, t.pending) {
		if p.Kind == AI {
			count++
		}
	}
	stake := t.minBet * t.cfg.StartingStakeMultiplier
	taken := func(name string) bool { return t.names[name] }
	for ; count < t.cfg.AISeats && t.occupiedLocked() < MaxSeats; count++ {
		p := t.filler.NewSeat(taken, stake, t.minBet)
		if p == nil {
			return
		}
		if _, err := t.joinLocked(p.Name, AI, p.Provider, p.Stake); err != nil {
			t.logger.Warn("Could not seat AI", "player", p.Name, "error", err)
			return
		}
	}
}

// promote moves pending players into seats.
func (t *Table) promote() {
	t.mu.Lock()
	t.seats = append(t.seats, t.pending...)
	t.pending = nil
	t.mu.Unlock()
	t.publish()
}

func (t *Table) ready() bool {
	if len(t.seats) < 2 {
		return false
	}
	if !t.cfg.RequireHuman {
		return true
	}
	return slices.ContainsFunc(t.seats, func(p *Player) bool { return p.Kind == Human })
}

// Run plays rounds until ctx is cancelled. Between rounds it tops up AI
// seats, seats pending players and waits while the table cannot play.
func (t *Table) Run(ctx context.Context) error {
	t.logger.Info("Table running", "minBet", t.MinBet(), "aiSeats", t.cfg.AISeats, "sidePots", t.cfg.SidePots)
	for {
		if ctx.Err() != nil {
			return nil
		}

		t.fillAISeats()
		t.promote()

		if !t.ready() {
			if err := t.idle(ctx); err != nil {
				return nil
			}
			continue
		}

		if _, err := t.PlayRound(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			t.logger.Error("Round failed", "error", err)
		}
	}
}

func (t *Table) idle(ctx context.Context) error {
	timer := t.clock.NewTimer(t.cfg.IdleInterval, "table", "idle")
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RoundResult summarises one settled round.
type RoundResult struct {
	ID        uuid.UUID
	Pot       int
	Winners   []string
	Best      evaluator.HandRank
	Payouts   map[string]int
	Community []deck.Card
}

// round holds the bookkeeping for a round in progress.
type round struct {
	id      uuid.UUID
	logger  *log.Logger
	board   []deck.Card
	contrib map[*Player]int
	pot     int
}

// PlayRound deals and settles a single round among the seated players, then
// rotates the seats, applies blind inflation and removes broke players.
func (t *Table) PlayRound(ctx context.Context) (RoundResult, error) {
	if len(t.seats) < 2 {
		return RoundResult{}, ErrNotEnoughPlayers
	}

	r := &round{
		id:      uuid.Must(uuid.NewV7()),
		contrib: make(map[*Player]int),
	}
	r.logger = t.logger.With("round", t.completed+1, "id", r.id)

	for _, p := range t.seats {
		p.Status = Active
		p.Hand.Clear()
	}
	t.broadcast(ctx, r, RoundStartEvent{RoundID: r.id, Seats: summarize(t.seats)})

	d := t.deckSource(t.rng)
	if need := 2*len(t.seats) + 5; d.Remaining() < need {
		return t.abort(r, fmt.Errorf("deck holds %d cards, %d seats need %d", d.Remaining(), len(t.seats), need))
	}
	for _, p := range t.seats {
		p.Hand.Hole = d.DrawN(2)
	}
	r.board = d.DrawN(5)

	// Blinds fall on the first two players still in play.
	contenders := inPlay(t.seats)
	var small, big string
	if len(contenders) >= 2 {
		small, big = contenders[0].Name, contenders[1].Name
	}
	for _, p := range t.seats {
		t.deliver(ctx, r, p, HoleCardsEvent{
			Player:     p.Name,
			Hole:       slices.Clone(p.Hand.Hole),
			SmallBlind: small,
			BigBlind:   big,
			MinBet:     t.minBet,
		})
	}
	r.logger.Info("Round started", "players", len(t.seats), "minBet", t.minBet, "small", small, "big", big)

	contenders = inPlay(contenders)
	for _, street := range []Street{Preflop, Flop, Turn, River} {
		visible := r.board[:street.communityCount()]
		if street != Preflop {
			for _, p := range t.seats {
				p.Hand.Community = slices.Clone(visible)
			}
			if err := checkBoard(inPlay(contenders)); err != nil {
				return t.abort(r, err)
			}
			t.broadcast(ctx, r, CommunityEvent{Street: street, Cards: slices.Clone(visible)})
		}

		opts := []BettingOption{
			WithAudience(t.seats),
			WithStreet(street, visible),
			WithBettingLogger(r.logger),
		}
		if street == Preflop {
			opts = append(opts, WithBlinds())
		}
		res, err := NewBettingRound(contenders, t.minBet, opts...).Run(ctx)
		for p, bet := range res.Bets {
			r.contrib[p] += bet
		}
		r.pot += res.Pot
		if err != nil {
			return t.abort(r, err)
		}
		contenders = res.Active
	}

	contenders = inPlay(contenders)
	return t.finish(ctx, r, contenders)
}

// finish runs the showdown, pays out and prepares the table for the next round.
func (t *Table) finish(ctx context.Context, r *round, contenders []*Player) (RoundResult, error) {
	hands := make([][]deck.Card, len(contenders))
	for i, p := range contenders {
		hands[i] = p.Hand.Cards()
	}
	show, err := evaluator.Showdown(hands)
	if err != nil {
		return t.abort(r, err)
	}
	ranks := make(map[*Player]evaluator.HandRank, len(contenders))
	for i, p := range contenders {
		ranks[p] = show.Ranks[i]
	}

	s := settle(BuildPots(r.contrib, contenders, t.cfg.SidePots), ranks)
	paid := 0
	for _, amount := range s.payouts {
		paid += amount
	}
	if paid != r.pot {
		return t.abort(r, fmt.Errorf("payouts %d do not match pot %d", paid, r.pot))
	}
	for p, amount := range s.payouts {
		p.Stake += amount
	}

	result := RoundResult{
		ID:        r.id,
		Pot:       r.pot,
		Best:      s.best,
		Payouts:   make(map[string]int, len(s.payouts)),
		Community: slices.Clone(r.board),
	}
	for _, w := range s.winners {
		result.Winners = append(result.Winners, w.Name)
	}
	for p, amount := range s.payouts {
		result.Payouts[p.Name] = amount
	}

	holes := make(map[string][]deck.Card, len(contenders))
	for _, p := range contenders {
		holes[p.Name] = slices.Clone(p.Hand.Hole)
	}
	t.broadcast(ctx, r, RoundEndEvent{
		RoundID:   r.id,
		Holes:     holes,
		Pot:       r.pot,
		Winners:   result.Winners,
		Category:  s.best.Category,
		Community: slices.Clone(r.board),
		Payouts:   result.Payouts,
	})
	r.logger.Info("Round settled",
		"pot", r.pot,
		"winners", result.Winners,
		"hand", s.best.Category,
		"board", deck.FormatCards(r.board))

	t.endRound(ctx, r)
	return result, nil
}

// endRound clears hands, rotates the order, inflates the minimum bet and
// removes players who left or can no longer cover it.
func (t *Table) endRound(ctx context.Context, r *round) {
	for _, p := range t.seats {
		p.Hand.Clear()
	}
	t.dropLeft()
	if len(t.seats) > 1 {
		t.seats = slices.Concat(t.seats[1:], t.seats[:1])
	}

	t.completed++
	if t.cfg.InflateEvery > 0 && t.completed%t.cfg.InflateEvery == 0 {
		t.mu.Lock()
		t.minBet = RoundSigFigs(t.minBet*2, 2)
		t.mu.Unlock()
		r.logger.Info("Minimum bet raised", "minBet", t.minBet)
	}

	for _, p := range t.seats {
		if p.Status != Left && p.Stake < t.minBet {
			deliver(ctx, r.logger, p, EliminatedEvent{Player: p.Name, Stake: p.Stake, MinBet: t.minBet})
			p.Status = Eliminated
			r.logger.Info("Player eliminated", "player", p.Name, "stake", p.Stake)
		}
	}
	t.dropLeft()
	t.publish()
}

// abort returns every committed chip to its owner and reports the failure.
func (t *Table) abort(r *round, cause error) (RoundResult, error) {
	for p, c := range r.contrib {
		p.Stake += c
	}
	for _, p := range t.seats {
		p.Hand.Clear()
	}
	t.dropLeft()
	t.publish()
	r.logger.Error("Round aborted, stakes refunded", "pot", r.pot, "error", cause)
	return RoundResult{ID: r.id}, fmt.Errorf("%w: %w", ErrRoundAborted, cause)
}

// dropLeft removes seats that quit, disconnected or were eliminated.
func (t *Table) dropLeft() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seats = slices.DeleteFunc(t.seats, func(p *Player) bool {
		if p.Status == Left || p.Status == Eliminated {
			delete(t.names, p.Name)
			t.logger.Info("Seat removed", "player", p.Name, "status", p.Status)
			return true
		}
		return false
	})
}

func (t *Table) broadcast(ctx context.Context, r *round, ev Event) {
	notify(ctx, r.logger, t.seats, ev, nil)
}

// deliver sends a private event and tells the rest of the table when the
// player turns out to be unreachable.
func (t *Table) deliver(ctx context.Context, r *round, p *Player, ev Event) {
	if p.Status == Left || p.Status == Eliminated {
		return
	}
	if !deliver(ctx, r.logger, p, ev) {
		announceDeparture(ctx, r.logger, t.seats, p)
	}
}

// checkBoard verifies every contender sees the same community cards.
func checkBoard(players []*Player) error {
	for _, p := range players[min(1, len(players)):] {
		if !slices.Equal(p.Hand.Community, players[0].Hand.Community) {
			return fmt.Errorf("%w: %s has %s, %s has %s", ErrBoardMismatch,
				players[0].Name, deck.FormatCards(players[0].Hand.Community),
				p.Name, deck.FormatCards(p.Hand.Community))
		}
	}
	return nil
}

// RoundSigFigs rounds n to the given number of significant figures.
func RoundSigFigs(n, sig int) int {
	if n == 0 || sig <= 0 {
		return n
	}
	digits := int(math.Floor(math.Log10(math.Abs(float64(n))))) + 1
	if digits <= sig {
		return n
	}
	scale := math.Pow(10, float64(digits-sig))
	return int(math.Round(float64(n)/scale) * scale)
}
