package usecase

import (
	"context"
	"errors"
	"time"

	catalogdomain "jobradar-backend/internal/catalog/domain"
)

// ErrSourceUnavailable means the platform could not serve the group right
// now. Recoverable: the group is skipped and the run continues.
var ErrSourceUnavailable = errors.New("message source unavailable")

// ErrAccessDenied means the group is unreachable for the fetching identity
// (kicked, banned, group deleted). The assignment is released.
var ErrAccessDenied = errors.New("access to group denied")

// RawMessage is one message as fetched from the platform, before
// classification
type RawMessage struct {
	ID        string
	Sender    string
	Text      string
	Timestamp time.Time
}

// MessageSource fetches recent messages from a group on behalf of an
// identity. Implementations own their network timeouts; callers only see
// ErrSourceUnavailable or ErrAccessDenied.
type MessageSource interface {
	FetchRecent(ctx context.Context, identity string, group *catalogdomain.Group, limit int) ([]RawMessage, error)
}
