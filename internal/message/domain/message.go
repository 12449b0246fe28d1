package domain

import "time"

// Message is one ingested group message. Immutable once stored; the message
// ID is the idempotency key for re-ingestion.
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	GroupID   string    `json:"group_id" gorm:"index;not null"`
	// FetchedBy is the identity whose assignment produced this message
	FetchedBy string    `json:"fetched_by" gorm:"index"`
	Sender    string    `json:"sender,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// JobScore is the stored classification result for one message. Computed
// once per message; identical lexicon and text always reproduce it.
type JobScore struct {
	MessageID      string  `json:"message_id" gorm:"primaryKey"`
	GroupID        string  `json:"group_id" gorm:"index;not null"`
	Confidence     float64 `json:"confidence"`
	IsJobPost      bool    `json:"is_job_post" gorm:"index"`
	// CategoryScores and Tags are stored as JSON text
	CategoryScores string    `json:"category_scores"`
	Tags           string    `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
}

// GroupStats is the rolling per-group aggregate. It must always equal a full
// recount over the stored messages of the group.
type GroupStats struct {
	GroupID           string    `json:"group_id" gorm:"primaryKey"`
	JobMessageCount   int64     `json:"job_message_count"`
	TotalMessageCount int64     `json:"total_message_count"`
	LastActivity      time.Time `json:"last_activity"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// JobPercentage is the share of job messages, in percent
func (s *GroupStats) JobPercentage() float64 {
	if s.TotalMessageCount == 0 {
		return 0
	}
	return float64(s.JobMessageCount) / float64(s.TotalMessageCount) * 100
}

// RankedGroup is one row of the channel ranking
type RankedGroup struct {
	GroupID           string    `json:"group_id"`
	Name              string    `json:"name"`
	Link              string    `json:"link"`
	JobMessageCount   int64     `json:"job_messages"`
	TotalMessageCount int64     `json:"total_messages"`
	JobPercentage     float64   `json:"job_percentage"`
	LastActivity      time.Time `json:"last_activity"`
	// OwnedBy is the identity currently holding the group, if any
	OwnedBy string `json:"owned_by"`
}
