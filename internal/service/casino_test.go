package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobby-bot/internal/game"
	"blobby-bot/internal/game/coinflip"
	"blobby-bot/internal/game/dice"
	"blobby-bot/internal/game/slot"
	"blobby-bot/internal/model"
	"blobby-bot/internal/stats"
	"blobby-bot/internal/store"
	"blobby-bot/internal/vip"
)

// stubGame is a deterministic game for orchestration tests.
type stubGame struct {
	payout    int64
	won       bool
	cooldown  int
	lastBonus float64
}

func (g *stubGame) Name() string        { return "Stub" }
func (g *stubGame) Command() string     { return "stub" }
func (g *stubGame) Description() string { return "always the same outcome" }
func (g *stubGame) MaxBet() int64       { return 10000 }
func (g *stubGame) Cooldown() int       { return g.cooldown }

func (g *stubGame) ValidateBet(bet int64, _ map[string]any) error {
	if bet <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (g *stubGame) Play(_ context.Context, _ int64, bet int64, params map[string]any) (*game.Result, error) {
	g.lastBonus = game.OddsBonusFrom(params)
	return &game.Result{Payout: g.payout, Won: g.won, Description: "stub"}, nil
}

type casinoFixture struct {
	casino *CasinoService
	wallet *WalletService
	stats  *stats.Service
	vip    *vip.Service
	game   *stubGame
}

func newCasinoFixture(t *testing.T, contributionRate float64) *casinoFixture {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	wallet := NewWalletService(st)
	statsService := stats.NewService(st, time.UTC)
	vipService := vip.NewService(st, time.UTC)

	g := &stubGame{}
	registry := game.NewRegistry()
	require.NoError(t, registry.Register(g))

	casino := NewCasinoService(wallet, statsService, vipService, registry, contributionRate)
	return &casinoFixture{
		casino: casino,
		wallet: wallet,
		stats:  statsService,
		vip:    vipService,
		game:   g,
	}
}

func TestPlay_WinSettlesEverything(t *testing.T) {
	f := newCasinoFixture(t, 0.01)
	ctx := context.Background()

	f.game.payout = 100
	f.game.won = true

	outcome, err := f.casino.Play(ctx, 1, "stub", 100, nil)
	require.NoError(t, err)
	assert.True(t, outcome.Result.Won)
	assert.Equal(t, int64(model.InitialBalance+100), outcome.NewBalance)

	// 100 coins wagered earn 10 gambling points at bronze.
	assert.Equal(t, int64(10), outcome.PointsWon)

	state, err := f.stats.State(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Overall.TotalGames)
	assert.Equal(t, 1, state.Overall.TotalWins)
	assert.Equal(t, int64(200), state.Overall.TotalWon)

	vipState, err := f.vip.State(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), vipState.TotalPoints)
	// Wins feed nothing into the jackpot pool.
	assert.Equal(t, int64(model.JackpotFloor), vipState.JackpotPool)
}

func TestPlay_LossFeedsJackpotPool(t *testing.T) {
	f := newCasinoFixture(t, 0.05)
	ctx := context.Background()

	f.game.payout = -200
	f.game.won = false

	outcome, err := f.casino.Play(ctx, 1, "stub", 200, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(model.InitialBalance-200), outcome.NewBalance)

	vipState, err := f.vip.State(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(model.JackpotFloor+10), vipState.JackpotPool)
	assert.Equal(t, int64(10), vipState.MonthlyJackpotContributions)

	state, err := f.stats.State(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Overall.TotalLosses)
	assert.Equal(t, int64(-200), state.Overall.NetProfit)
}

func TestPlay_PassesTierOddsBonus(t *testing.T) {
	f := newCasinoFixture(t, 0.01)
	ctx := context.Background()

	// Earn into silver, which carries a +1 odds bonus.
	_, err := f.vip.AddPoints(ctx, 1, 1000, model.PointSourceBonus)
	require.NoError(t, err)

	_, err = f.casino.Play(ctx, 1, "stub", 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.game.lastBonus)
}

func TestPlay_UnknownGame(t *testing.T) {
	f := newCasinoFixture(t, 0.01)

	_, err := f.casino.Play(context.Background(), 1, "baccarat", 100, nil)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestPlay_InsufficientBalance(t *testing.T) {
	f := newCasinoFixture(t, 0.01)

	_, err := f.casino.Play(context.Background(), 1, "stub", model.InitialBalance+1, nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestPlay_Cooldown(t *testing.T) {
	f := newCasinoFixture(t, 0.01)
	ctx := context.Background()

	f.game.cooldown = 60
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f.casino.now = func() time.Time { return now }

	_, err := f.casino.Play(ctx, 1, "stub", 10, nil)
	require.NoError(t, err)

	_, err = f.casino.Play(ctx, 1, "stub", 10, nil)
	assert.ErrorIs(t, err, ErrOnCooldown)

	// Another user is unaffected.
	_, err = f.casino.Play(ctx, 2, "stub", 10, nil)
	require.NoError(t, err)

	// The cooldown expires.
	now = now.Add(61 * time.Second)
	_, err = f.casino.Play(ctx, 1, "stub", 10, nil)
	require.NoError(t, err)
}

func TestPlay_RoutesRegisteredGames(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	wallet := NewWalletService(st)
	statsService := stats.NewService(st, time.UTC)
	vipService := vip.NewService(st, time.UTC)

	registry := game.NewRegistry()
	require.NoError(t, registry.Register(coinflip.New(nil)))
	require.NoError(t, registry.Register(dice.New(nil)))
	require.NoError(t, registry.Register(slot.New(nil)))

	casino := NewCasinoService(wallet, statsService, vipService, registry, 0.01)
	ctx := context.Background()

	// Every game is reachable under the same game type constant that
	// the handlers pass and the statistics vocabulary documents.
	rounds := []struct {
		command string
		params  map[string]any
	}{
		{model.GameCoinFlip, map[string]any{game.ParamChoice: coinflip.Heads}},
		{model.GameDice, nil},
		{model.GameSlot, nil},
	}
	for _, r := range rounds {
		_, err := casino.Play(ctx, 1, r.command, 10, r.params)
		require.NoError(t, err, "playing %s", r.command)
	}

	state, err := statsService.State(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, state.Overall.TotalGames)
	for _, r := range rounds {
		gs := state.PerGame[r.command]
		require.NotNil(t, gs, "no stats recorded for %s", r.command)
		assert.Equal(t, 1, gs.TotalGames)
	}
}

func TestPlay_ConcurrentRoundsCannotOverdraw(t *testing.T) {
	f := newCasinoFixture(t, 0.01)
	ctx := context.Background()

	// Every round loses the whole starting balance.
	f.game.payout = -int64(model.InitialBalance)
	f.game.won = false

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.casino.Play(ctx, 1, "stub", model.InitialBalance, nil)
		}(i)
	}
	wg.Wait()

	// Exactly one round settles; the other sees the drained balance.
	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientBalance)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	balance, err := f.wallet.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	state, err := f.stats.State(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Overall.TotalGames)
}

func TestClaimDaily_CreditsWallet(t *testing.T) {
	f := newCasinoFixture(t, 0.01)
	ctx := context.Background()

	amount, err := f.casino.ClaimDaily(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), amount) // bronze daily bonus

	balance, err := f.wallet.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(model.InitialBalance+50), balance)

	// Second claim the same day yields nothing.
	amount, err = f.casino.ClaimDaily(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)

	balance, err = f.wallet.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(model.InitialBalance+50), balance)
}

func TestClaimVIPBonus_BronzeGetsNothing(t *testing.T) {
	f := newCasinoFixture(t, 0.01)
	ctx := context.Background()

	amount, err := f.casino.ClaimVIPBonus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)
}

func TestAttemptJackpot_IneligibleUser(t *testing.T) {
	f := newCasinoFixture(t, 0.01)
	ctx := context.Background()

	result, err := f.casino.AttemptJackpot(ctx, 1)
	require.NoError(t, err)
	assert.False(t, result.Won)

	balance, err := f.wallet.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(model.InitialBalance), balance)
}
