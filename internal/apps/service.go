package apps

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventPublisher fans board events out to interested consumers (the SSE
// gateway subscribes on the other side). Publishing is always non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisPublisher implements EventPublisher over a Redis pub/sub channel.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a Redis-backed EventPublisher.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.rdb.Publish(ctx, channel, payload).Err()
}

// EventCardMoved is published whenever an update changes an application's
// status.
const EventCardMoved = "EVENT_CARD_MOVED"

// Service encapsulates all application business logic. It has no dependency
// on net/http — it can be used by any transport layer.
type Service struct {
	store  Store
	events EventPublisher
}

// NewService returns a configured Service. events may be nil when no
// consumer cares about board events (tests, one-off tools).
func NewService(store Store, events EventPublisher) *Service {
	return &Service{store: store, events: events}
}

// ListForUser returns the caller's active applications matching the filter.
// Zero matches is a valid result, not an error — the empty board is a state
// the client renders, so the "no results" decision stays with the caller.
func (s *Service) ListForUser(ctx context.Context, userID string, f Filter) ([]Application, error) {
	return s.store.List(ctx, userID, f)
}

// GetByID returns a single application, including archived ones. A row owned
// by someone else is indistinguishable from a missing one.
func (s *Service) GetByID(ctx context.Context, userID string, id int64) (*Application, error) {
	return s.store.Get(ctx, userID, id)
}

// Create validates and persists a new application. Status defaults to LISTED.
func (s *Service) Create(ctx context.Context, userID string, p CreateParams) (*Application, error) {
	if p.Position == "" {
		return nil, &ValidationError{Msg: "position is required"}
	}
	if p.Remote == "" {
		return nil, &ValidationError{Msg: "remote is required"}
	}
	if _, err := ParseRemoteType(string(p.Remote)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if p.Status == "" {
		p.Status = StatusListed
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := validateSalaries(p.MinSalary, p.MaxSalary); err != nil {
		return nil, err
	}
	return s.store.Insert(ctx, userID, p)
}

// Update applies a partial update. The application is looked up first, both
// for the existence/ownership check and so a status change can be detected
// and journaled. Any status may be set from any other — the transition
// matrix is intentionally unrestricted.
func (s *Service) Update(ctx context.Context, userID string, id int64, p UpdateParams) (*Application, error) {
	if p.IsEmpty() {
		return nil, &ValidationError{Msg: "update body must contain at least one field"}
	}
	if p.Position != nil && *p.Position == "" {
		return nil, &ValidationError{Msg: "position must not be empty"}
	}
	if p.Remote != nil {
		if _, err := ParseRemoteType(string(*p.Remote)); err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
	}
	if p.Status != nil {
		if _, err := ParseStatus(string(*p.Status)); err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
	}

	current, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// Salary bounds are checked against the merged row, not just the patch.
	minS, maxS := current.MinSalary, current.MaxSalary
	if p.MinSalary != nil {
		minS = p.MinSalary
	}
	if p.MaxSalary != nil {
		maxS = p.MaxSalary
	}
	if err := validateSalaries(minS, maxS); err != nil {
		return nil, err
	}

	var history []byte
	statusChanged := p.Status != nil && *p.Status != current.Status
	if statusChanged {
		entry, _ := json.Marshal(map[string]string{
			"from": string(current.Status),
			"to":   string(*p.Status),
			"at":   time.Now().UTC().Format(time.RFC3339),
		})
		history = []byte(fmt.Sprintf("[%s]", entry))
	}

	updated, err := s.store.Update(ctx, userID, id, p, history)
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.publishCardMoved(ctx, userID, updated.ID, current.Status, *p.Status)
	}
	return updated, nil
}

// Archive stamps archivedAt, removing the application from the active board
// without touching its status. Idempotent: archiving twice re-stamps.
func (s *Service) Archive(ctx context.Context, userID string, id int64) (*Application, error) {
	return s.store.Archive(ctx, userID, id)
}

func (s *Service) publishCardMoved(ctx context.Context, userID string, appID int64, from, to Status) {
	if s.events == nil {
		return
	}
	event, _ := json.Marshal(map[string]string{
		"type":          EventCardMoved,
		"applicationId": fmt.Sprintf("%d", appID),
		"userId":        userID,
		"from":          string(from),
		"to":            string(to),
	})
	if err := s.events.Publish(ctx, EventCardMoved, event); err != nil {
		slog.Warn("publish EVENT_CARD_MOVED failed", "applicationId", appID, "err", err)
	}
}

func validateSalaries(minS, maxS *int64) error {
	if minS != nil && *minS < 0 {
		return &ValidationError{Msg: "minSalary must be non-negative"}
	}
	if maxS != nil && *maxS < 0 {
		return &ValidationError{Msg: "maxSalary must be non-negative"}
	}
	if minS != nil && maxS != nil && *minS > *maxS {
		return &ValidationError{Msg: "minSalary must not exceed maxSalary"}
	}
	return nil
}
