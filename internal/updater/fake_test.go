package updater

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Halone228/funpay-api/internal/account"
	"github.com/Halone228/funpay-api/internal/domain"
)

var _ account.Facade = (*fakeFacade)(nil)

type chatsResult struct {
	chats []domain.ChatState
	err   error
}

type ordersResult struct {
	pages map[string]domain.OrdersPage
	err   error
}

// fakeFacade replays one scripted result per poll cycle; the last entry
// repeats once the script runs out.
type fakeFacade struct {
	mu sync.Mutex

	initiated     bool
	stale         bool
	initiateErr   error
	initiateCalls int

	chatScript  []chatsResult
	chatCalls   int
	orderScript []ordersResult
	orderCycle  int

	histories    map[domain.ChatID]domain.ChatHistory
	historyErr   error
	historyCalls []domain.ChatID
}

func (f *fakeFacade) Initiate(context.Context) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiateCalls++
	if f.initiateErr != nil {
		f.initiated = false
		return domain.Identity{}, f.initiateErr
	}
	f.initiated = true
	f.stale = false
	return domain.Identity{UserID: 42, Username: "seller"}, nil
}

func (f *fakeFacade) Profile(ctx context.Context) (domain.Identity, error) {
	return f.Initiate(ctx)
}

func (f *fakeFacade) Chats(context.Context) ([]domain.ChatState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := f.chatScript[min(f.chatCalls, len(f.chatScript)-1)]
	f.chatCalls++
	return result.chats, result.err
}

func (f *fakeFacade) ChatHistory(_ context.Context, chatID domain.ChatID) (domain.ChatHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls = append(f.historyCalls, chatID)
	if f.historyErr != nil {
		return domain.ChatHistory{}, f.historyErr
	}
	return f.histories[chatID], nil
}

// OrdersPage serves the current cycle's pages; a request for the first page
// starts a new cycle.
func (f *fakeFacade) OrdersPage(_ context.Context, cursor string) (domain.OrdersPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cursor == "" {
		f.orderCycle++
	}
	result := f.orderScript[min(f.orderCycle-1, len(f.orderScript)-1)]
	if result.err != nil {
		return domain.OrdersPage{}, result.err
	}
	return result.pages[cursor], nil
}

func (f *fakeFacade) SendMessage(_ context.Context, chatID domain.ChatID, text string) (domain.Message, error) {
	return domain.Message{ChatID: chatID, Text: text, ByBot: true}, nil
}

func (f *fakeFacade) IsInitiated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initiated
}

func (f *fakeFacade) Stale(time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stale
}

func onePage(orders ...domain.OrderState) ordersResult {
	return ordersResult{pages: map[string]domain.OrdersPage{"": {Orders: orders}}}
}

func chatList(chats ...domain.ChatState) chatsResult {
	if chats == nil {
		chats = []domain.ChatState{}
	}
	return chatsResult{chats: chats}
}

// pageErrorFacade fails one specific orders cursor.
type pageErrorFacade struct {
	*fakeFacade
	failOn string
}

func (f *pageErrorFacade) OrdersPage(ctx context.Context, cursor string) (domain.OrdersPage, error) {
	if cursor == f.failOn {
		return domain.OrdersPage{}, errors.New("connection reset")
	}
	return f.fakeFacade.OrdersPage(ctx, cursor)
}
