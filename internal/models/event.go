package models

import "time"

// Источники событий уведомлений.
const (
	SourceVote       = "vote"
	SourceSubmitPage = "submit-page"
	SourceWebsite    = "website"
)

// Ключи маршрутизации событий в брокере.
const (
	KindVote       = "vote"
	KindSubscriber = "subscriber"
	KindSubmission = "submission"
)

// RelayEvent событие, которое ретранслятор отправляет во внешние приемники.
// Поля, не относящиеся к источнику, остаются пустыми и не сериализуются.
type RelayEvent struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
	Email         string    `json:"email,omitempty"`
	Prompt        string    `json:"prompt,omitempty"`
	Name          string    `json:"name,omitempty"`
	VoteDirection string    `json:"vote_direction,omitempty"`
	PromptHash    string    `json:"prompt_hash,omitempty"`
	PromptPreview string    `json:"prompt_preview,omitempty"`
	Feedback      string    `json:"feedback,omitempty"`
}

// Kind ключ маршрутизации события. Source подписчика задает клиент,
// поэтому все подписчики идут под KindSubscriber, а source остается только в теле.
func (e RelayEvent) Kind() string {
	switch e.Source {
	case SourceVote:
		return KindVote
	case SourceSubmitPage:
		return KindSubmission
	default:
		return KindSubscriber
	}
}

// Subscriber подписчик рассылки.
type Subscriber struct {
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}

// PromptSubmission промпт, предложенный игроком.
type PromptSubmission struct {
	Prompt string `json:"prompt"`
	Name   string `json:"name,omitempty"`
}
