package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"blobby-bot/internal/game"
	"blobby-bot/internal/pkg/lock"
	"blobby-bot/internal/stats"
	"blobby-bot/internal/vip"
)

// Common errors for casino operations.
var (
	ErrGameNotFound = errors.New("game not found")
	ErrOnCooldown   = errors.New("game is on cooldown")
)

// PlayOutcome bundles everything a handler needs to present a settled
// game round.
type PlayOutcome struct {
	Result     *game.Result
	NewBalance int64
	PointsWon  int64
}

// CasinoService orchestrates one game round end to end: balance check,
// play, settlement, statistics recording, VIP point crediting and the
// jackpot-pool contribution on losses.
type CasinoService struct {
	wallet   *WalletService
	stats    *stats.Service
	vip      *vip.Service
	registry *game.Registry

	// locks serializes a user's whole round, so the balance check and
	// the settlement cannot interleave between two concurrent plays.
	locks *lock.UserLock

	// contributionRate is the share of every loss fed into the VIP
	// jackpot pool.
	contributionRate float64

	// Per-user per-game cooldown tracking.
	cooldowns   map[string]time.Time
	cooldownsMu sync.Mutex

	now func() time.Time
}

// NewCasinoService creates a new CasinoService instance.
func NewCasinoService(
	wallet *WalletService,
	statsService *stats.Service,
	vipService *vip.Service,
	registry *game.Registry,
	contributionRate float64,
) *CasinoService {
	return &CasinoService{
		wallet:           wallet,
		stats:            statsService,
		vip:              vipService,
		registry:         registry,
		locks:            lock.NewUserLock(),
		contributionRate: contributionRate,
		cooldowns:        make(map[string]time.Time),
		now:              time.Now,
	}
}

// Play runs one round of the game behind command for the user.
// The bet must be covered by the wallet; the VIP odds bonus of the
// user's current tier is passed to the game. After settlement the
// round is folded into the gambling statistics, gambling points are
// credited, and on a loss a share of it feeds the jackpot pool.
// Rounds by the same user are serialized.
func (s *CasinoService) Play(ctx context.Context, userID int64, command string, bet int64, params map[string]any) (*PlayOutcome, error) {
	g, ok := s.registry.Get(command)
	if !ok {
		return nil, ErrGameNotFound
	}

	if err := g.ValidateBet(bet, params); err != nil {
		return nil, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	if remaining := s.cooldownRemaining(userID, command, g.Cooldown()); remaining > 0 {
		return nil, fmt.Errorf("%w: %ds remaining", ErrOnCooldown, int(remaining.Seconds())+1)
	}

	balance, err := s.wallet.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < bet {
		return nil, ErrInsufficientBalance
	}

	// Hand the current tier's odds bonus to the game.
	tier, err := s.vip.CurrentTier(ctx, userID)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = make(map[string]any)
	}
	params[game.ParamOddsBonus] = tier.OddsBonus

	result, err := g.Play(ctx, userID, bet, params)
	if err != nil {
		return nil, err
	}

	s.markPlayed(userID, command)

	newBalance, err := s.wallet.Apply(ctx, userID, result.Payout)
	if err != nil {
		return nil, err
	}

	// Bookkeeping below is non-fatal: the balance is already settled.
	if _, err := s.stats.RecordSession(ctx, userID, g.Command(), bet, result.WinAmount(bet), result.Won); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Str("game", command).Msg("Failed to record game session")
	}

	points, err := s.vip.AddGamblingPoints(ctx, userID, bet)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to credit gambling points")
	}

	if result.Payout < 0 {
		contribution := int64(math.Floor(float64(-result.Payout) * s.contributionRate))
		if err := s.vip.ContributeToJackpot(ctx, userID, contribution); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to contribute to jackpot pool")
		}
	}

	log.Info().
		Int64("user_id", userID).
		Str("game", command).
		Int64("bet", bet).
		Int64("payout", result.Payout).
		Int64("balance", newBalance).
		Msg("Game round settled")

	return &PlayOutcome{
		Result:     result,
		NewBalance: newBalance,
		PointsWon:  points,
	}, nil
}

// ClaimDaily claims the standard daily bonus and credits it to the
// wallet. Returns the credited amount, 0 when already claimed today.
func (s *CasinoService) ClaimDaily(ctx context.Context, userID int64) (int64, error) {
	return s.vip.ClaimDailyBonus(ctx, userID, func(amount int64) error {
		_, err := s.wallet.Credit(ctx, userID, amount)
		return err
	})
}

// ClaimVIPBonus claims the VIP-exclusive daily bonus and credits it to
// the wallet.
func (s *CasinoService) ClaimVIPBonus(ctx context.Context, userID int64) (int64, error) {
	return s.vip.ClaimVIPBonus(ctx, userID, func(amount int64) error {
		_, err := s.wallet.Credit(ctx, userID, amount)
		return err
	})
}

// AttemptJackpot tries the VIP jackpot and credits any payout to the
// wallet.
func (s *CasinoService) AttemptJackpot(ctx context.Context, userID int64) (vip.JackpotResult, error) {
	result, err := s.vip.AttemptJackpot(ctx, userID)
	if err != nil {
		return result, err
	}
	if result.Won {
		if _, err := s.wallet.Credit(ctx, userID, result.Amount); err != nil {
			return result, fmt.Errorf("jackpot won but credit failed: %w", err)
		}
	}
	return result, nil
}

// cooldownRemaining returns how long until the user may play the game
// again, 0 when the game is off cooldown.
func (s *CasinoService) cooldownRemaining(userID int64, command string, cooldownSecs int) time.Duration {
	if cooldownSecs <= 0 {
		return 0
	}

	s.cooldownsMu.Lock()
	defer s.cooldownsMu.Unlock()

	last, ok := s.cooldowns[cooldownKey(userID, command)]
	if !ok {
		return 0
	}
	elapsed := s.now().Sub(last)
	cooldown := time.Duration(cooldownSecs) * time.Second
	if elapsed >= cooldown {
		return 0
	}
	return cooldown - elapsed
}

// markPlayed stamps the user's last play time for the game.
func (s *CasinoService) markPlayed(userID int64, command string) {
	s.cooldownsMu.Lock()
	defer s.cooldownsMu.Unlock()
	s.cooldowns[cooldownKey(userID, command)] = s.now()
}

func cooldownKey(userID int64, command string) string {
	return fmt.Sprintf("%d:%s", userID, command)
}
