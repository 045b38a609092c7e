package status

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Halone228/funpay-api/internal/domain"
)

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	account  lipgloss.Style
	detail   lipgloss.Style
	warning  lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	key      lipgloss.Style
	meta     lipgloss.Style
	unread   lipgloss.Style
	bot      lipgloss.Style
	kind     lipgloss.Style
	statuses map[domain.OrderStatus]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		account: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		meta:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		unread:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		bot:     lipgloss.NewStyle().Faint(true).Italic(true),
		kind:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		statuses: map[domain.OrderStatus]lipgloss.Style{
			domain.OrderStatusNew:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			domain.OrderStatusPaid:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			domain.OrderStatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
			domain.OrderStatusClosed:     lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			domain.OrderStatusRefunded:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}

func (s styles) status(value domain.OrderStatus) lipgloss.Style {
	if style, ok := s.statuses[value]; ok {
		return style
	}
	return s.detail
}
