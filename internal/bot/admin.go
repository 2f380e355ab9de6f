package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/valpere/globaltalk/internal/broadcast"
	"github.com/valpere/globaltalk/internal/languages"
	"github.com/valpere/globaltalk/internal/store"
)

const (
	msgAdminUsage      = "Usage: %s"
	msgUserNotFound    = "User not found in bot settings."
	msgStoreFailed     = "⚠️ Could not read the bot data. Check the logs for details."
	usageDaysInSummary = 7
)

// handleAdmin runs an admin command. The caller has already checked the
// sender's permissions.
func (b *Bot) handleAdmin(ctx context.Context, msg Message) {
	switch msg.Command {
	case "admin":
		b.adminSummary(ctx, msg)
	case "users":
		b.adminUsers(ctx, msg)
	case "langstats":
		b.adminLanguageStats(ctx, msg)
	case "usage":
		b.adminUsage(ctx, msg)
	case "user":
		b.adminUserInfo(ctx, msg)
	case "setuserlang":
		b.adminSetUserLanguage(ctx, msg)
	case "vip":
		b.adminVIP(ctx, msg)
	case "viplist":
		b.adminVIPList(ctx, msg)
	case "history":
		b.adminHistory(ctx, msg)
	case "broadcast":
		b.adminBroadcast(ctx, msg)
	case "resetsettings":
		b.adminResetSettings(ctx, msg)
	case "cachestats":
		b.adminCacheStats(ctx, msg)
	}
}

func isAdminCommand(cmd string) bool {
	switch cmd {
	case "admin", "users", "langstats", "usage", "user", "setuserlang",
		"vip", "viplist", "history", "broadcast", "resetsettings", "cachestats":
		return true
	}
	return false
}

func (b *Bot) storeFailed(ctx context.Context, msg Message, op string, err error) {
	b.Logger.Errorw("admin command failed", "command", op, "admin", msg.From.ID, "error", err)
	b.reply(ctx, msg.ChatID, msgStoreFailed)
}

func (b *Bot) adminSummary(ctx context.Context, msg Message) {
	users, err := b.Store.CountUsers(ctx)
	if err != nil {
		b.storeFailed(ctx, msg, "admin", err)
		return
	}
	vips, err := b.Store.ListVIP(ctx)
	if err != nil {
		b.storeFailed(ctx, msg, "admin", err)
		return
	}
	usage, err := b.Store.Usage(ctx, 1)
	if err != nil {
		b.storeFailed(ctx, msg, "admin", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("👨‍💼 Admin Panel:\n\n")
	fmt.Fprintf(&sb, "👥 Total users: %d\n", users)
	fmt.Fprintf(&sb, "🌟 VIP users: %d\n", len(vips))
	fmt.Fprintf(&sb, "📈 Total translations: %d\n", usage.Total)
	if len(usage.Days) > 0 {
		fmt.Fprintf(&sb, "📅 Last active day: %s (%d translations)\n", usage.Days[0].Day, usage.Days[0].Count)
	}

	stats := b.Translator.Stats()
	fmt.Fprintf(&sb, "🔤 Requests: %d, cache hits: %d, model calls: %d, failures: %d\n",
		stats.Requests, stats.CacheHits, stats.ModelCalls, stats.Failures)

	if b.Health != nil {
		status := "✅ available"
		if !b.Health.Available() {
			status = "❌ unavailable"
		}
		fmt.Fprintf(&sb, "🤖 Model: %s\n", status)
	}

	sb.WriteString("\nCommands: /users /langstats /usage /user <id> /setuserlang <id> <code> " +
		"/vip add|remove <id> /viplist /history <id> /broadcast <text> /resetsettings /cachestats")
	b.reply(ctx, msg.ChatID, sb.String())
}

func (b *Bot) adminUsers(ctx context.Context, msg Message) {
	users, err := b.Store.ListUsers(ctx, b.listLimit)
	if err != nil {
		b.storeFailed(ctx, msg, "users", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 List of all users:\n\n")
	for _, u := range users {
		status := "Regular"
		if u.VIP {
			status = "🌟 VIP"
		}
		fmt.Fprintf(&sb, "User ID: %d (%s), Language: %s, Status: %s\n", u.ID, u.DisplayName(), u.Language, status)
	}
	b.reply(ctx, msg.ChatID, sb.String())
}

func (b *Bot) adminLanguageStats(ctx context.Context, msg Message) {
	stats, err := b.Store.LanguageStats(ctx)
	if err != nil {
		b.storeFailed(ctx, msg, "langstats", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 Language statistics:\n")
	for _, s := range stats {
		fmt.Fprintf(&sb, "%s: %d\n", languages.Name(s.Language), s.Users)
	}
	b.reply(ctx, msg.ChatID, sb.String())
}

func (b *Bot) adminUsage(ctx context.Context, msg Message) {
	days := usageDaysInSummary
	if n, err := strconv.Atoi(strings.TrimSpace(msg.Args)); err == nil && n > 0 {
		days = n
	}
	usage, err := b.Store.Usage(ctx, days)
	if err != nil {
		b.storeFailed(ctx, msg, "usage", err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 Total translations: %d\n\nDaily statistics:\n", usage.Total)
	for _, d := range usage.Days {
		fmt.Fprintf(&sb, "%s: %d translations\n", d.Day, d.Count)
	}
	b.reply(ctx, msg.ChatID, sb.String())
}

func (b *Bot) adminUserInfo(ctx context.Context, msg Message) {
	id, ok := b.userIDArg(ctx, msg, "/user <id>")
	if !ok {
		return
	}
	u, err := b.Store.GetUser(ctx, id)
	if errors.Is(err, store.ErrUserNotFound) {
		b.reply(ctx, msg.ChatID, msgUserNotFound)
		return
	}
	if err != nil {
		b.storeFailed(ctx, msg, "user", err)
		return
	}

	vip := "No"
	if u.VIP {
		vip = "Yes"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "User Information for ID %d:\n", u.ID)
	fmt.Fprintf(&sb, "Username: %s\n", orNotSet(u.Username, "@"))
	fmt.Fprintf(&sb, "First Name: %s\n", orNotSet(u.FirstName, ""))
	fmt.Fprintf(&sb, "Last Name: %s\n", orNotSet(u.LastName, ""))
	fmt.Fprintf(&sb, "Language Code: %s\n", orNotSet(u.LanguageCode, ""))
	if u.LastActivity.IsZero() {
		sb.WriteString("Last Activity: Never\n")
	} else {
		fmt.Fprintf(&sb, "Last Activity: %s\n", u.LastActivity.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&sb, "Translation Count: %d\n", u.TranslationCount)
	fmt.Fprintf(&sb, "Preferred Language: %s\n", languages.Name(u.Language))
	fmt.Fprintf(&sb, "VIP Status: %s", vip)
	b.reply(ctx, msg.ChatID, sb.String())
}

func orNotSet(v, prefix string) string {
	if v == "" {
		return "Not set"
	}
	return prefix + v
}

func (b *Bot) adminSetUserLanguage(ctx context.Context, msg Message) {
	const usage = "/setuserlang <id> <code>"
	fields := strings.Fields(msg.Args)
	if len(fields) != 2 {
		b.reply(ctx, msg.ChatID, fmt.Sprintf(msgAdminUsage, usage))
		return
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		b.reply(ctx, msg.ChatID, fmt.Sprintf(msgAdminUsage, usage))
		return
	}
	code := strings.ToLower(fields[1])
	if !languages.IsSupported(code) {
		b.reply(ctx, msg.ChatID, msgInvalidLanguage)
		return
	}

	if _, err := b.Store.GetUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			b.reply(ctx, msg.ChatID, msgUserNotFound)
			return
		}
		b.storeFailed(ctx, msg, "setuserlang", err)
		return
	}
	if err := b.Store.SetLanguage(ctx, id, code); err != nil {
		b.storeFailed(ctx, msg, "setuserlang", err)
		return
	}

	b.Logger.Infow("admin changed user language", "admin", msg.From.ID, "user", id, "lang", code)
	b.reply(ctx, msg.ChatID, fmt.Sprintf("Language of user with the ID %d has been set to: %s.", id, languages.Name(code)))
}

func (b *Bot) adminVIP(ctx context.Context, msg Message) {
	const usage = "/vip add|remove <id>"
	fields := strings.Fields(msg.Args)
	if len(fields) != 2 {
		b.reply(ctx, msg.ChatID, fmt.Sprintf(msgAdminUsage, usage))
		return
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		b.reply(ctx, msg.ChatID, fmt.Sprintf(msgAdminUsage, usage))
		return
	}

	switch strings.ToLower(fields[0]) {
	case "add":
		if err := b.Store.AddVIP(ctx, id); err != nil {
			b.storeFailed(ctx, msg, "vip", err)
			return
		}
		b.Logger.Infow("VIP added", "admin", msg.From.ID, "user", id)
		b.reply(ctx, msg.ChatID, fmt.Sprintf("User %d has been added to VIP users.", id))
	case "remove":
		removed, err := b.Store.RemoveVIP(ctx, id)
		if err != nil {
			b.storeFailed(ctx, msg, "vip", err)
			return
		}
		if !removed {
			b.reply(ctx, msg.ChatID, fmt.Sprintf("User %d is not a VIP user.", id))
			return
		}
		b.setChat(id, false)
		b.Logger.Infow("VIP removed", "admin", msg.From.ID, "user", id)
		b.reply(ctx, msg.ChatID, fmt.Sprintf("User %d has been removed from VIP users.", id))
	default:
		b.reply(ctx, msg.ChatID, fmt.Sprintf(msgAdminUsage, usage))
	}
}

func (b *Bot) adminVIPList(ctx context.Context, msg Message) {
	ids, err := b.Store.ListVIP(ctx)
	if err != nil {
		b.storeFailed(ctx, msg, "viplist", err)
		return
	}
	if len(ids) == 0 {
		b.reply(ctx, msg.ChatID, "There are no VIP users.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🌟 VIP users:\n\n")
	for _, id := range ids {
		fmt.Fprintf(&sb, "%d\n", id)
	}
	b.reply(ctx, msg.ChatID, sb.String())
}

func (b *Bot) adminHistory(ctx context.Context, msg Message) {
	id, ok := b.userIDArg(ctx, msg, "/history <id>")
	if !ok {
		return
	}
	if _, err := b.Store.GetUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			b.reply(ctx, msg.ChatID, fmt.Sprintf("User with ID %d not found", id))
			return
		}
		b.storeFailed(ctx, msg, "history", err)
		return
	}

	entries, err := b.Store.ListHistory(ctx, id, b.historyLimit)
	if err != nil {
		b.storeFailed(ctx, msg, "history", err)
		return
	}
	if len(entries) == 0 {
		b.reply(ctx, msg.ChatID, fmt.Sprintf("No translation history found for user ID %d.", id))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Translation history for user ID %d:\n\n", id)
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. Original: %s\n   Translation: %s\n", i+1, e.SourceText, e.TranslatedText)
	}
	b.reply(ctx, msg.ChatID, sb.String())
}

func (b *Bot) adminBroadcast(ctx context.Context, msg Message) {
	text := strings.TrimSpace(msg.Args)
	if text == "" {
		b.reply(ctx, msg.ChatID, fmt.Sprintf(msgAdminUsage, "/broadcast <text>"))
		return
	}
	ids, err := b.Store.UserIDs(ctx)
	if err != nil {
		b.storeFailed(ctx, msg, "broadcast", err)
		return
	}

	msgs := make([]broadcast.Message, 0, len(ids))
	for _, id := range ids {
		msgs = append(msgs, broadcast.Message{ChatID: id, Text: text})
	}
	result := b.Broadcaster.Send(ctx, msgs)
	for _, err := range result.Errors {
		b.Logger.Warnw("broadcast delivery failed", "error", err)
	}

	b.Logger.Infow("broadcast finished", "admin", msg.From.ID, "succeeded", result.Succeeded, "failed", result.Failed)
	b.reply(ctx, msg.ChatID, fmt.Sprintf("Broadcast sent successfully to %d out of %d users.", result.Succeeded, len(ids)))
}

func (b *Bot) adminResetSettings(ctx context.Context, msg Message) {
	changed, err := b.Store.ResetSettings(ctx)
	if err != nil {
		b.storeFailed(ctx, msg, "resetsettings", err)
		return
	}
	b.Logger.Warnw("all user languages reset", "admin", msg.From.ID, "changed", changed)
	b.reply(ctx, msg.ChatID, fmt.Sprintf("🔄 All user settings have been reset (%d changed).", changed))
}

func (b *Bot) adminCacheStats(ctx context.Context, msg Message) {
	s := b.Translator.Cache().Stats()
	lookups := s.Hits + s.Misses
	ratio := 0.0
	if lookups > 0 {
		ratio = float64(s.Hits) / float64(lookups) * 100
	}
	b.reply(ctx, msg.ChatID, fmt.Sprintf("🗃 Cache entries: %d\nHits: %d\nMisses: %d\nHit ratio: %.1f%%",
		s.Entries, s.Hits, s.Misses, ratio))
}

func (b *Bot) userIDArg(ctx context.Context, msg Message, usage string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(msg.Args), 10, 64)
	if err != nil {
		b.reply(ctx, msg.ChatID, fmt.Sprintf(msgAdminUsage, usage))
		return 0, false
	}
	return id, true
}
