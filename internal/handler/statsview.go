package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"blobby-bot/internal/model"
	"blobby-bot/internal/stats"
)

// StatsHandler handles gambling statistics commands.
type StatsHandler struct {
	stats *stats.Service
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// HandleStats handles /stats [game]: the overall rollup, or one game's.
func (h *StatsHandler) HandleStats(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	state, err := h.stats.State(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to fetch statistics, please try again later")
	}

	if state.Overall.TotalGames == 0 {
		return c.Reply("📊 No games played yet. Try /flip, /dice or /slot!")
	}

	args := c.Args()
	if len(args) > 0 {
		gameType := strings.ToLower(args[0])
		gs, ok := state.PerGame[gameType]
		if !ok {
			return c.Reply(fmt.Sprintf("📊 No %s games recorded yet", gameType))
		}
		return c.Reply(formatStats(fmt.Sprintf("📊 %s stats", gameType), gs))
	}

	reply := formatStats("📊 Overall stats", &state.Overall)
	if state.FavoriteGame != "" {
		reply += fmt.Sprintf("\n❤️ Favorite game: %s", state.FavoriteGame)
	}
	return c.Reply(reply)
}

// HandleChart handles /chart: the last 7 days of profit.
func (h *StatsHandler) HandleChart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	points, err := h.stats.ChartData(ctx, sender.ID, 7, "")
	if err != nil {
		return c.Reply("❌ Failed to fetch chart data, please try again later")
	}

	var b strings.Builder
	b.WriteString("📈 Last 7 days\n")
	for _, p := range points {
		marker := "▫️"
		switch {
		case p.Profit > 0:
			marker = "🟢"
		case p.Profit < 0:
			marker = "🔴"
		}
		b.WriteString(fmt.Sprintf("%s %s  %+d coins, %d games\n", marker, p.Date, p.Profit, p.Games))
	}
	return c.Reply(b.String())
}

// HandleReset handles /resetstats: wipes the gambling statistics.
func (h *StatsHandler) HandleReset(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if err := h.stats.Reset(ctx, sender.ID); err != nil {
		return c.Reply("❌ Failed to reset statistics, please try again later")
	}
	return c.Reply("🗑 Statistics reset. Fresh start!")
}

// formatStats renders a rollup for chat.
func formatStats(title string, gs *model.GameStats) string {
	streak := "none"
	switch {
	case gs.CurrentStreak > 0:
		streak = fmt.Sprintf("%d wins", gs.CurrentStreak)
	case gs.CurrentStreak < 0:
		streak = fmt.Sprintf("%d losses", -gs.CurrentStreak)
	}

	return fmt.Sprintf(
		"%s\n"+
			"🎮 Games: %d (W %d / L %d, %.1f%%)\n"+
			"💵 Wagered: %d | Won: %d\n"+
			"📊 Net profit: %+d\n"+
			"🔥 Streak: %s (best +%d / worst -%d)\n"+
			"🏆 Biggest win: %d | Biggest loss: %d",
		title,
		gs.TotalGames, gs.TotalWins, gs.TotalLosses, gs.WinRate*100,
		gs.TotalBet, gs.TotalWon,
		gs.NetProfit,
		streak, gs.LongestWinStreak, gs.LongestLoseStreak,
		gs.BiggestWin, gs.BiggestLoss,
	)
}
