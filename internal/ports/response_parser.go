package ports

import "github.com/Halone228/funpay-api/internal/domain"

// ResponseParser turns raw FunPay response bodies into domain objects. It is
// pure: no I/O and no shared state. Implementations return
// *domain.MalformedResponseError when a body does not have the expected shape.
type ResponseParser interface {
	ParseAccount(body []byte) (domain.Identity, error)
	ParseChats(body []byte) ([]domain.ChatState, error)
	ParseChatHistory(chatID domain.ChatID, body []byte) (domain.ChatHistory, error)
	ParseOrders(body []byte) (domain.OrdersPage, error)
	ParseSentMessage(chatID domain.ChatID, body []byte) (domain.SentMessage, error)
}
