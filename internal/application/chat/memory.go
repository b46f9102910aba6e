// Package chat 질의 파이프라인과 대화 기억을 담당한다
package chat

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"kstartup-rag-api/internal/domain/entity"
)

// DefaultMaxTurns 기본 대화 기억 턴 수
const DefaultMaxTurns = 5

// ConversationMemory 세션 하나의 대화 기억
// 자체 잠금이 없으므로 호출자가 세션 단위 직렬화를 보장해야 한다 (SessionStore 참조)
type ConversationMemory struct {
	turns    []entity.ConversationTurn
	maxTurns int
}

// NewConversationMemory 대화 기억 생성
func NewConversationMemory(maxTurns int) *ConversationMemory {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &ConversationMemory{maxTurns: maxTurns}
}

// Append 대화 턴 추가
// 최대 턴 수를 넘으면 오래된 턴을 버리고 남은 턴을 1부터 다시 번호 매긴다
func (m *ConversationMemory) Append(userQuery, response string, now time.Time) {
	m.turns = append(m.turns, entity.ConversationTurn{
		Turn:      len(m.turns) + 1,
		UserQuery: userQuery,
		Response:  response,
		Timestamp: now,
	})

	if len(m.turns) > m.maxTurns {
		m.turns = m.turns[len(m.turns)-m.maxTurns:]
		for i := range m.turns {
			m.turns[i].Turn = i + 1
		}
	}
}

// Turns 현재 턴 목록의 복사본 반환
func (m *ConversationMemory) Turns() []entity.ConversationTurn {
	out := make([]entity.ConversationTurn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Summary 기억 중인 대화의 요약 문자열 반환
func (m *ConversationMemory) Summary() string {
	if len(m.turns) == 0 {
		return "아직 대화 기록이 없습니다."
	}

	parts := []string{fmt.Sprintf("총 %d개의 대화를 기억하고 있습니다:\n", len(m.turns))}
	for _, turn := range m.turns {
		parts = append(parts, fmt.Sprintf("대화 %d: %s...", turn.Turn, truncateRunes(turn.UserQuery, 50)))
	}
	return strings.Join(parts, "\n")
}

// Clear 대화 기억 초기화
func (m *ConversationMemory) Clear() {
	m.turns = nil
}

// Status 기억 상태 반환
func (m *ConversationMemory) Status() entity.MemoryStatus {
	status := entity.MemoryStatus{
		Count:    len(m.turns),
		MaxTurns: m.maxTurns,
	}
	if len(m.turns) > 0 {
		oldest := m.turns[0].Timestamp
		latest := m.turns[len(m.turns)-1].Timestamp
		status.OldestTS = &oldest
		status.LatestTS = &latest
	}
	return status
}

// truncateRunes 문자열을 rune 기준 n자로 절단
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// SessionStore 세션 키별 대화 기억 저장소
// 세션마다 전용 잠금을 두어 세션당 동시 요청을 하나로 직렬화한다
// 서로 다른 세션은 완전히 독립적으로 동작한다
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	maxTurns int
}

type sessionEntry struct {
	mu     sync.Mutex
	memory *ConversationMemory
}

// NewSessionStore 세션 저장소 생성
func NewSessionStore(maxTurns int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		maxTurns: maxTurns,
	}
}

// Acquire 세션의 대화 기억을 잠금과 함께 획득
// 반환된 release 함수를 호출할 때까지 같은 세션의 다른 요청은 대기한다
func (s *SessionStore) Acquire(sessionID string) (*ConversationMemory, func()) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{memory: NewConversationMemory(s.maxTurns)}
		s.sessions[sessionID] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	return entry.memory, entry.mu.Unlock
}

// Remove 세션 제거
func (s *SessionStore) Remove(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Len 현재 세션 수
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
