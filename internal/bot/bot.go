package bot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"blobby-bot/internal/config"
	"blobby-bot/internal/handler"
	"blobby-bot/internal/service"
	"blobby-bot/internal/stats"
	"blobby-bot/internal/vip"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config

	accountHandler *handler.AccountHandler
	gameHandler    *handler.GameHandler
	statsHandler   *handler.StatsHandler
	vipHandler     *handler.VIPHandler
	shopHandler    *handler.ShopHandler
	adminHandler   *handler.AdminHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config        *config.Config
	WalletService *service.WalletService
	CasinoService *service.CasinoService
	ShopService   *service.ShopService
	StatsService  *stats.Service
	VIPService    *vip.Service
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot: teleBot,
		cfg: deps.Config,
	}

	// Initialize handlers
	b.accountHandler = handler.NewAccountHandler(deps.WalletService, deps.CasinoService)
	b.gameHandler = handler.NewGameHandler(deps.CasinoService, deps.WalletService)
	b.statsHandler = handler.NewStatsHandler(deps.StatsService)
	b.vipHandler = handler.NewVIPHandler(deps.VIPService, deps.CasinoService, deps.WalletService)
	b.shopHandler = handler.NewShopHandler(deps.ShopService, deps.WalletService)
	b.adminHandler = handler.NewAdminHandler(deps.WalletService, deps.VIPService)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
	b.bot.Use(RecoveryMiddleware())
}

// registerHandlers registers all command handlers.
func (b *Bot) registerHandlers() {
	// Account handlers
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/balance", b.accountHandler.HandleBalance)
	b.bot.Handle("/daily", b.accountHandler.HandleDaily)

	// Game handlers
	b.bot.Handle("/flip", b.gameHandler.HandleFlip)
	b.bot.Handle("/dice", b.gameHandler.HandleDice)
	b.bot.Handle("/slot", b.gameHandler.HandleSlot)

	// Statistics handlers
	b.bot.Handle("/stats", b.statsHandler.HandleStats)
	b.bot.Handle("/chart", b.statsHandler.HandleChart)
	b.bot.Handle("/resetstats", b.statsHandler.HandleReset)

	// VIP handlers
	b.bot.Handle("/vip", b.vipHandler.HandleVIP)
	b.bot.Handle("/vipbonus", b.vipHandler.HandleVIPBonus)
	b.bot.Handle("/jackpot", b.vipHandler.HandleJackpot)
	b.bot.Handle("/redeem", b.vipHandler.HandleRedeem)

	// Shop handlers
	b.bot.Handle("/shop", b.shopHandler.HandleShop)
	b.bot.Handle("/buy", b.shopHandler.HandleBuy)
	b.bot.Handle("/bag", b.shopHandler.HandleBag)

	// Admin handlers (with admin middleware)
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/admin_add", b.adminHandler.HandleAdminAdd)
	adminGroup.Handle("/admin_points", b.adminHandler.HandleAdminPoints)
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
