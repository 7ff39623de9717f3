package models

// Направления голоса.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// VoteCount счетчики голосов одного промпта.
type VoteCount struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}

// VoteRequest тело запроса голосования.
type VoteRequest struct {
	Prompt    string `json:"prompt" validate:"required" example:"What was your childhood nickname?"`
	Direction string `json:"direction" validate:"oneof=up down" example:"up"`
	Feedback  string `json:"feedback,omitempty" example:"classic"`
}

// VoteResult результат голосования. Count nil, если хранилище недоступно.
type VoteResult struct {
	Hash      string
	Direction string
	Count     *int64
}
