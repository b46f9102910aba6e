package chat

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConversationMemoryFIFOEviction(t *testing.T) {
	m := NewConversationMemory(5)
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	for i := 1; i <= 7; i++ {
		m.Append(fmt.Sprintf("질문 %d", i), fmt.Sprintf("답변 %d", i), now.Add(time.Duration(i)*time.Minute))
	}

	turns := m.Turns()
	require.Len(t, turns, 5)
	for i, turn := range turns {
		// 턴 번호는 1부터 다시 매겨지고 내용은 3~7번째 호출 순서를 유지한다
		require.Equal(t, i+1, turn.Turn)
		require.Equal(t, fmt.Sprintf("질문 %d", i+3), turn.UserQuery)
		require.Equal(t, fmt.Sprintf("답변 %d", i+3), turn.Response)
	}
}

func TestConversationMemorySummary(t *testing.T) {
	m := NewConversationMemory(5)
	require.Equal(t, "아직 대화 기록이 없습니다.", m.Summary())

	m.Append("청년 창업 지원사업 알려줘", "답변입니다", time.Now())
	summary := m.Summary()
	require.Contains(t, summary, "총 1개의 대화를 기억하고 있습니다")
	require.Contains(t, summary, "대화 1: 청년 창업 지원사업 알려줘")
}

func TestConversationMemoryClear(t *testing.T) {
	m := NewConversationMemory(5)
	m.Append("질문", "답변", time.Now())
	m.Clear()

	require.Empty(t, m.Turns())
	require.Equal(t, 0, m.Status().Count)
}

func TestConversationMemoryStatus(t *testing.T) {
	m := NewConversationMemory(5)

	status := m.Status()
	require.Equal(t, 0, status.Count)
	require.Equal(t, 5, status.MaxTurns)
	require.Nil(t, status.OldestTS)
	require.Nil(t, status.LatestTS)

	first := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)
	m.Append("질문 1", "답변 1", first)
	m.Append("질문 2", "답변 2", second)

	status = m.Status()
	require.Equal(t, 2, status.Count)
	require.Equal(t, first, *status.OldestTS)
	require.Equal(t, second, *status.LatestTS)
}

func TestSessionStoreIsolation(t *testing.T) {
	store := NewSessionStore(5)

	m1, release1 := store.Acquire("session-1")
	m1.Append("세션 1 질문", "답변", time.Now())
	release1()

	m2, release2 := store.Acquire("session-2")
	defer release2()

	// 세션은 서로 독립적이다
	require.Empty(t, m2.Turns())
	require.Equal(t, 2, store.Len())
}

func TestSessionStoreSerializesPerSession(t *testing.T) {
	store := NewSessionStore(5)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, release := store.Acquire("shared")
			defer release()
			m.Append(fmt.Sprintf("질문 %d", i), "답변", time.Now())
		}(i)
	}
	wg.Wait()

	m, release := store.Acquire("shared")
	defer release()
	turns := m.Turns()
	require.Len(t, turns, 5)
	for i, turn := range turns {
		require.Equal(t, i+1, turn.Turn)
	}
}
