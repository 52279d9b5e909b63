package bot

import "sync"

// chatGate сериализует апдейты одного чата: шаги мастера записи и команды
// не должны обрабатываться параллельно, иначе сессия в classFlows/editFlows
// читается и перезаписывается одновременно. Запись о чате живёт, пока есть
// хотя бы один держатель или ожидающий.
type chatGate struct {
	mu    sync.Mutex
	chats map[int64]*gateEntry
}

type gateEntry struct {
	mu   sync.Mutex
	refs int
}

func newChatGate() *chatGate {
	return &chatGate{chats: make(map[int64]*gateEntry)}
}

func (g *chatGate) lock(chatID int64) (unlock func()) {
	g.mu.Lock()
	e, ok := g.chats[chatID]
	if !ok {
		e = &gateEntry{}
		g.chats[chatID] = e
	}
	e.refs++
	g.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		g.mu.Lock()
		if e.refs--; e.refs == 0 {
			delete(g.chats, chatID)
		}
		g.mu.Unlock()
	}
}

// tracked — число чатов, по которым сейчас есть держатель или ожидающий.
func (g *chatGate) tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.chats)
}
