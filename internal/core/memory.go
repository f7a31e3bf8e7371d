package core

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultMemoryBudget = 4000

type ConversationTurn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationMemory holds the bounded recent dialogue of one session.
// Single-writer: each session owns an independent instance.
type ConversationMemory struct {
	budget int
	turns  []ConversationTurn
}

func NewConversationMemory(budget int) *ConversationMemory {
	if budget <= 0 {
		budget = DefaultMemoryBudget
	}
	return &ConversationMemory{budget: budget}
}

// Append records a turn, then trims oldest-first while the total content
// length exceeds the budget. The turn count never drops below 2, so the most
// recent exchange survives even when it alone exceeds the budget.
func (m *ConversationMemory) Append(role, content string) {
	m.turns = append(m.turns, ConversationTurn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})

	total := 0
	for _, turn := range m.turns {
		total += len(turn.Content)
	}
	for total > m.budget && len(m.turns) > 2 {
		total -= len(m.turns[0].Content)
		m.turns = m.turns[1:]
	}
}

// Render produces the role-prefixed transcript in chronological order. It
// does not mutate the memory and may be called repeatedly.
func (m *ConversationMemory) Render() string {
	var b strings.Builder
	for _, turn := range m.turns {
		if turn.Role == "user" {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(turn.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Turns returns a copy of the current turns.
func (m *ConversationMemory) Turns() []ConversationTurn {
	out := make([]ConversationTurn, len(m.turns))
	copy(out, m.turns)
	return out
}

func (m *ConversationMemory) Reset() {
	m.turns = nil
}

// SessionManager hands out per-session conversation memories. Sessions are
// process-local and not persisted across restarts.
type SessionManager struct {
	mu       sync.Mutex
	budget   int
	sessions map[string]*ConversationMemory
}

func NewSessionManager(budget int) *SessionManager {
	return &SessionManager{
		budget:   budget,
		sessions: make(map[string]*ConversationMemory),
	}
}

// Create registers a new session and returns its ID.
func (sm *SessionManager) Create() string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	id := uuid.NewString()
	sm.sessions[id] = NewConversationMemory(sm.budget)
	return id
}

// Get returns the memory for a session, creating it on first use so clients
// may bring their own session IDs.
func (sm *SessionManager) Get(sessionID string) *ConversationMemory {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	mem, ok := sm.sessions[sessionID]
	if !ok {
		mem = NewConversationMemory(sm.budget)
		sm.sessions[sessionID] = mem
	}
	return mem
}

// Remove drops a session and its history.
func (sm *SessionManager) Remove(sessionID string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[sessionID]; !ok {
		return false
	}
	delete(sm.sessions, sessionID)
	return true
}
