package entity

import "time"

// ConversationTurn 대화의 한 턴
// 생성 후 내용은 변경되지 않으며, 오래된 턴이 밀려나면 번호만 다시 매겨진다
type ConversationTurn struct {
	Turn      int       `json:"turn"`
	UserQuery string    `json:"user_query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// MemoryStatus 대화 기억의 현재 상태
type MemoryStatus struct {
	Count    int        `json:"count"`
	MaxTurns int        `json:"max_turns"`
	OldestTS *time.Time `json:"oldest_ts,omitempty"`
	LatestTS *time.Time `json:"latest_ts,omitempty"`
}
