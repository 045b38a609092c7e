package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Halone228/funpay-api/internal/domain"
)

const previewWidth = 48

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
}

// Overview is everything the whoami and listing commands show for one account.
type Overview struct {
	Account  domain.Account
	Identity domain.Identity
	Chats    []domain.ChatState
	Orders   []domain.OrderState
}

func renderView(overview Overview, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("FunPay Account"),
		s.account.Render(accountTitle(overview.Account, overview.Identity)),
	}
	lines = append(lines, identityLines(overview, opts, s)...)

	if overview.Chats != nil {
		lines = append(lines, s.section.Render(renderChats(overview.Chats, s)))
	}
	if overview.Orders != nil {
		lines = append(lines, s.section.Render(renderOrders(overview.Orders, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func accountTitle(account domain.Account, identity domain.Identity) string {
	name := strings.TrimSpace(identity.Username)
	if name == "" {
		name = strings.TrimSpace(account.Profile.Username)
	}
	if name == "" {
		name = strings.TrimSpace(account.Name)
	}
	if account.ID == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, account.ID)
}

func identityLines(overview Overview, opts RenderOptions, s styles) []string {
	identity := overview.Identity
	if !identity.Valid() {
		return []string{s.detail.Render(fmt.Sprintf("auth: %s", authLabel(overview.Account.Auth.Method)))}
	}

	lines := []string{
		s.detail.Render(fmt.Sprintf("user id: %d  locale: %s", identity.UserID, localeLabel(identity.Locale))),
		s.detail.Render(fmt.Sprintf("active sales: %d  active purchases: %d", identity.ActiveSales, identity.ActivePurchases)),
	}

	verifiedAt := overview.Account.Profile.VerifiedAt
	if verifiedAt.IsZero() || opts.Now.IsZero() {
		return lines
	}

	age := opts.Now.Sub(verifiedAt)
	verified := lipgloss.NewStyle().Foreground(freshnessColor(age, opts.StaleAfter)).
		Render(fmt.Sprintf("verified %s ago", formatAge(age)))
	if domain.IsStale(verifiedAt, opts.Now, opts.StaleAfter) {
		verified += " " + s.warning.Render("[stale]")
	}
	return append(lines, verified)
}

func renderChats(chats []domain.ChatState, s styles) string {
	lines := []string{s.header.Render(fmt.Sprintf("chats: %d", len(chats)))}
	if len(chats) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No chats."))...)
	}

	for _, chat := range chats {
		name := chat.CounterpartName
		if name == "" {
			name = chat.Name
		}
		label := s.key.Render(fmt.Sprintf("%-10d %-20s", chat.ID, truncate(name, 20)))
		preview := s.detail.Render(truncate(chat.LastMessageText, previewWidth))
		if chat.Unread {
			preview = s.unread.Render("* " + truncate(chat.LastMessageText, previewWidth))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, " ", preview))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderOrders(orders []domain.OrderState, s styles) string {
	lines := []string{s.header.Render(fmt.Sprintf("orders: %d", len(orders)))}
	if len(orders) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No orders."))...)
	}

	for _, order := range orders {
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.key.Render(fmt.Sprintf("#%-10s", order.ID)),
			" ",
			s.status(order.Status).Render(fmt.Sprintf("%-11s", order.Status)),
			" ",
			s.meta.Render(fmt.Sprintf("%10s", formatPrice(order.Price, order.Currency))),
			" ",
			s.detail.Render(truncate(order.BuyerName, 16)),
			" ",
			s.detail.Render(truncate(order.Description, previewWidth)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderChats renders a chat listing without the account header.
func RenderChats(chats []domain.ChatState) string {
	if chats == nil {
		chats = []domain.ChatState{}
	}
	return renderChats(chats, newStyles())
}

// RenderOrders renders an order listing without the account header.
func RenderOrders(orders []domain.OrderState) string {
	if orders == nil {
		orders = []domain.OrderState{}
	}
	return renderOrders(orders, newStyles())
}

// RenderEvent formats one runner event as a single styled line.
func RenderEvent(event domain.Event) string {
	s := newStyles()
	meta := event.Meta()
	prefix := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.meta.Render(fmt.Sprintf("%s #%d", meta.DetectedAt.Format("15:04:05"), meta.Seq)),
		" ",
		s.kind.Render(string(event.Kind())),
		" ",
	)
	return prefix + eventDetail(event, s)
}

func eventDetail(event domain.Event, s styles) string {
	switch e := event.(type) {
	case domain.NewMessageEvent:
		text := e.Message.Text
		if e.Message.ImageURL != "" {
			text = strings.TrimSpace(text + " " + e.Message.ImageURL)
		}
		line := fmt.Sprintf("chat %d %s: %s", e.Chat.ID, messageAuthor(e), text)
		if e.Message.ByBot {
			return s.bot.Render(line)
		}
		return s.detail.Render(line)
	case domain.MessageChangedEvent:
		return s.detail.Render(fmt.Sprintf("chat %d: %s", e.Chat.ID, e.Chat.LastMessageText))
	case domain.NewOrderEvent:
		return lipgloss.JoinHorizontal(lipgloss.Top,
			s.detail.Render(fmt.Sprintf("#%s ", e.Order.ID)),
			s.status(e.Order.Status).Render(string(e.Order.Status)),
			s.detail.Render(fmt.Sprintf(" %s %s", formatPrice(e.Order.Price, e.Order.Currency), e.Order.Description)),
		)
	case domain.OrderStatusChangedEvent:
		return lipgloss.JoinHorizontal(lipgloss.Top,
			s.detail.Render(fmt.Sprintf("#%s ", e.Order.ID)),
			s.status(e.Previous).Render(string(e.Previous)),
			s.detail.Render(" -> "),
			s.status(e.Order.Status).Render(string(e.Order.Status)),
		)
	case domain.InitialChatEvent:
		return s.detail.Render(fmt.Sprintf("chat %d %s", e.Chat.ID, e.Chat.CounterpartName))
	case domain.InitialOrderEvent:
		return lipgloss.JoinHorizontal(lipgloss.Top,
			s.detail.Render(fmt.Sprintf("#%s ", e.Order.ID)),
			s.status(e.Order.Status).Render(string(e.Order.Status)),
		)
	case domain.DomainUnavailableEvent:
		return s.warning.Render(fmt.Sprintf("%s unavailable: %v", e.Domain, e.Err))
	default:
		return ""
	}
}

func messageAuthor(event domain.NewMessageEvent) string {
	switch {
	case event.Message.Author != "":
		return event.Message.Author
	case event.Message.ChatName != "":
		return event.Message.ChatName
	default:
		return event.Chat.CounterpartName
	}
}

func authLabel(method domain.AuthMethod) string {
	if method == "" {
		return "none"
	}
	return string(method)
}

func localeLabel(locale string) string {
	if locale == "" {
		return "ru"
	}
	return locale
}

func formatPrice(price float64, currency string) string {
	if price == math.Trunc(price) {
		return strings.TrimSpace(fmt.Sprintf("%.0f %s", price, currency))
	}
	return strings.TrimSpace(fmt.Sprintf("%.2f %s", price, currency))
}

func formatAge(age time.Duration) string {
	switch {
	case age < time.Minute:
		return "moments"
	case age < time.Hour:
		return pluralize(int(age.Minutes()), "minute")
	case age < 24*time.Hour:
		return pluralize(int(age.Hours()), "hour")
	default:
		return pluralize(int(age.Hours()/24), "day")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}

// freshnessColor fades from bright white for a fresh verification to grey
// once it reaches staleAfter.
func freshnessColor(age, staleAfter time.Duration) lipgloss.Color {
	if staleAfter <= 0 {
		return lipgloss.Color("255")
	}
	return interpolateColor(staleAfter.Seconds()-age.Seconds(), 0, staleAfter.Seconds())
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp, 240 (faded) to 255 (bright white).
	baseColor := 240.0
	targetColor := 255.0
	return lipgloss.Color(fmt.Sprintf("%d", int(baseColor+(targetColor-baseColor)*normalized)))
}
