package vip

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"blobby-bot/internal/model"
	"blobby-bot/internal/pkg/lock"
	"blobby-bot/internal/store"
)

// CreditFunc applies a claimed bonus to the player's coin balance. The
// claim calls invoke it before stamping the claim timestamp, so a
// failed credit leaves the claim open.
type CreditFunc func(amount int64) error

// JackpotResult is the outcome of a jackpot entry attempt.
type JackpotResult struct {
	Won    bool
	Amount int64
}

// Service is the VIP loyalty engine. It owns the per-user VIPState blob
// and serializes mutations with its own per-user lock.
type Service struct {
	store store.Store
	locks *lock.UserLock
	tz    *time.Location

	// Injection points for tests.
	now       func() time.Time
	randFloat func() float64
}

// NewService creates a new VIP Service instance. Claim gates compare
// calendar days in the given timezone; nil means UTC.
func NewService(st store.Store, timezone *time.Location) *Service {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Service{
		store:     st,
		locks:     lock.NewUserLock(),
		tz:        timezone,
		now:       time.Now,
		randFloat: rand.Float64,
	}
}

// State returns the user's VIP state, falling back to the initial state
// when nothing usable is stored.
func (s *Service) State(ctx context.Context, userID int64) (*model.VIPState, error) {
	state := model.NewVIPState()
	ok, err := s.store.Load(ctx, store.VIPStateKey(userID), state)
	if err != nil {
		return nil, fmt.Errorf("failed to load vip state: %w", err)
	}
	if !ok {
		return model.NewVIPState(), nil
	}
	return state, nil
}

// save writes the user's VIP state back to the store.
func (s *Service) save(ctx context.Context, userID int64, state *model.VIPState) error {
	if err := s.store.Save(ctx, store.VIPStateKey(userID), state); err != nil {
		return fmt.Errorf("failed to save vip state: %w", err)
	}
	return nil
}

// CurrentTier derives the user's tier from lifetime points.
func (s *Service) CurrentTier(ctx context.Context, userID int64) (Tier, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return Tiers[0], err
	}
	return TierFor(state.LifetimePoints), nil
}

// AddPoints credits basePoints scaled by the current tier's multiplier
// to both the spendable and lifetime counters, and returns the actual
// credited amount. The multiplier of the tier held before the credit
// applies. source is labeling only.
func (s *Service) AddPoints(ctx context.Context, userID int64, basePoints int64, source string) (int64, error) {
	if basePoints <= 0 {
		return 0, nil
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	state, err := s.State(ctx, userID)
	if err != nil {
		return 0, err
	}

	tier := TierFor(state.LifetimePoints)
	credited := tier.CreditedPoints(basePoints)

	state.TotalPoints += credited
	state.LifetimePoints += credited

	if err := s.save(ctx, userID, state); err != nil {
		return 0, err
	}

	log.Debug().
		Int64("user_id", userID).
		Int64("credited", credited).
		Str("source", source).
		Str("tier", string(tier.Name)).
		Msg("VIP points credited")

	return credited, nil
}

// AddPurchasePoints credits points for a real-money purchase:
// 10 base points per dollar, floored before the tier multiplier.
func (s *Service) AddPurchasePoints(ctx context.Context, userID int64, dollarAmount float64) (int64, error) {
	base := int64(math.Floor(dollarAmount * 10))
	return s.AddPoints(ctx, userID, base, model.PointSourcePurchase)
}

// AddGamblingPoints credits points for coins wagered: 1 base point per
// 10 coins, floored.
func (s *Service) AddGamblingPoints(ctx context.Context, userID int64, coinsWagered int64) (int64, error) {
	return s.AddPoints(ctx, userID, coinsWagered/10, model.PointSourceGambling)
}

// SpendPoints deducts spendable points. Returns false without mutation
// when the balance is insufficient.
func (s *Service) SpendPoints(ctx context.Context, userID int64, amount int64) (bool, error) {
	if amount <= 0 {
		return false, nil
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	state, err := s.State(ctx, userID)
	if err != nil {
		return false, err
	}

	if state.TotalPoints < amount {
		return false, nil
	}

	state.TotalPoints -= amount
	if err := s.save(ctx, userID, state); err != nil {
		return false, err
	}
	return true, nil
}

// DiscountedCost applies the user's current tier discount to a base
// cost.
func (s *Service) DiscountedCost(ctx context.Context, userID int64, baseCost int64) (int64, error) {
	tier, err := s.CurrentTier(ctx, userID)
	if err != nil {
		return baseCost, err
	}
	return tier.DiscountedCost(baseCost), nil
}

// CanClaimDailyBonus reports whether the standard daily bonus is open:
// never claimed, or last claimed on an earlier calendar day.
func (s *Service) CanClaimDailyBonus(ctx context.Context, userID int64) (bool, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return false, err
	}
	return canClaimAgain(state.LastDailyBonusClaim, s.now(), s.tz), nil
}

// ClaimDailyBonus claims the tier's daily bonus. The credit callback is
// invoked with the bonus amount before the claim is stamped, so the
// coin credit and the eligibility update stay together. Returns 0 with
// no state change when the gate is closed.
func (s *Service) ClaimDailyBonus(ctx context.Context, userID int64, credit CreditFunc) (int64, error) {
	return s.claim(ctx, userID, credit,
		func(st *model.VIPState) *time.Time { return &st.LastDailyBonusClaim },
		func(t Tier) int64 { return t.DailyBonus },
	)
}

// CanClaimVIPBonus reports whether the VIP-exclusive daily bonus is
// open. The gate is the same calendar-day comparison as the standard
// bonus; bronze players pass the gate but the bonus amount is zero.
func (s *Service) CanClaimVIPBonus(ctx context.Context, userID int64) (bool, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return false, err
	}
	return canClaimAgain(state.LastVIPBonusClaim, s.now(), s.tz), nil
}

// ClaimVIPBonus claims the tier's exclusive daily bonus, with the same
// claim-and-credit contract as ClaimDailyBonus.
func (s *Service) ClaimVIPBonus(ctx context.Context, userID int64, credit CreditFunc) (int64, error) {
	return s.claim(ctx, userID, credit,
		func(st *model.VIPState) *time.Time { return &st.LastVIPBonusClaim },
		func(t Tier) int64 { return t.ExclusiveDailyBonus },
	)
}

// claim is the shared bonus-claim path: gate on the calendar day of the
// selected timestamp, credit, stamp, save.
func (s *Service) claim(
	ctx context.Context,
	userID int64,
	credit CreditFunc,
	stamp func(*model.VIPState) *time.Time,
	amount func(Tier) int64,
) (int64, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	state, err := s.State(ctx, userID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	if !canClaimAgain(*stamp(state), now, s.tz) {
		return 0, nil
	}

	bonus := amount(TierFor(state.LifetimePoints))
	if credit != nil {
		if err := credit(bonus); err != nil {
			return 0, fmt.Errorf("failed to credit bonus: %w", err)
		}
	}

	*stamp(state) = now
	if err := s.save(ctx, userID, state); err != nil {
		return 0, err
	}
	return bonus, nil
}

// ContributeToJackpot adds to the user's jackpot pool unconditionally
// and tracks the contribution total.
func (s *Service) ContributeToJackpot(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return nil
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	state, err := s.State(ctx, userID)
	if err != nil {
		return err
	}

	state.JackpotPool += amount
	state.MonthlyJackpotContributions += amount
	return s.save(ctx, userID, state)
}

// CanEnterMonthlyJackpot reports whether the user may attempt the
// jackpot: the tier must carry jackpot access, and entry is limited to
// once per calendar day.
func (s *Service) CanEnterMonthlyJackpot(ctx context.Context, userID int64) (bool, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return false, err
	}
	if !TierFor(state.LifetimePoints).HasJackpot {
		return false, nil
	}
	return canClaimAgain(state.LastJackpotEntry, s.now(), s.tz), nil
}

// AttemptJackpot draws the jackpot for an eligible user. The entry
// timestamp is stamped whether or not the draw wins. On a win the
// pre-reset pool value is paid out, the pool resets to its floor and
// the contribution counter zeroes. An ineligible attempt returns a
// zero result with no state change.
func (s *Service) AttemptJackpot(ctx context.Context, userID int64) (JackpotResult, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	state, err := s.State(ctx, userID)
	if err != nil {
		return JackpotResult{}, err
	}

	tier := TierFor(state.LifetimePoints)
	now := s.now()
	if !tier.HasJackpot || !canClaimAgain(state.LastJackpotEntry, now, s.tz) {
		return JackpotResult{}, nil
	}

	state.LastJackpotEntry = now

	result := JackpotResult{}
	if s.randFloat() < tier.JackpotOdds {
		result.Won = true
		result.Amount = state.JackpotPool
		state.JackpotPool = model.JackpotFloor
		state.MonthlyJackpotContributions = 0

		log.Info().
			Int64("user_id", userID).
			Int64("payout", result.Amount).
			Str("tier", string(tier.Name)).
			Msg("VIP jackpot won")
	}

	if err := s.save(ctx, userID, state); err != nil {
		return JackpotResult{}, err
	}
	return result, nil
}

// canClaimAgain reports whether a claim gate is open: true when never
// claimed or when the stored claim falls on an earlier calendar day
// than now, in the service timezone.
func canClaimAgain(last time.Time, now time.Time, tz *time.Location) bool {
	if last.IsZero() {
		return true
	}
	return dateOf(last, tz) != dateOf(now, tz)
}

// dateOf formats a timestamp as its local calendar date.
func dateOf(t time.Time, tz *time.Location) string {
	return t.In(tz).Format("2006-01-02")
}
