// Package domain defines the business logic for the activity signup service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"example.com/signup/internal/events"
	"example.com/signup/internal/observability"
)

var (
	// ErrActivityNotFound is returned when no activity matches the requested name.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadyRegistered is returned when the student is already on the roster.
	ErrAlreadyRegistered = errors.New("student already signed up for this activity")
	// ErrNotRegistered is returned when the student is not on the roster.
	ErrNotRegistered = errors.New("student not signed up for this activity")
)

// ActivityRepository captures roster storage operations. Mutations must check and apply
// the transition atomically.
type ActivityRepository interface {
	List(ctx context.Context) (map[string]Activity, error)
	Get(ctx context.Context, name string) (*Activity, error)
	AddParticipant(ctx context.Context, name, email string) (Activity, error)
	RemoveParticipant(ctx context.Context, name, email string) (Activity, error)
}

// EventPublisher hands roster changes to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.RosterChanged) error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, events.RosterChanged) error { return nil }

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithPublisher sets the publisher used for roster events.
func WithPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service orchestrates roster workflows.
type Service struct {
	repo      ActivityRepository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a Service.
func NewService(repo ActivityRepository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: NoopPublisher{},
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListActivities returns every activity keyed by name.
func (s *Service) ListActivities(ctx context.Context) (map[string]Activity, error) {
	return s.repo.List(ctx)
}

// GetActivity fetches a single activity by exact name.
func (s *Service) GetActivity(ctx context.Context, name string) (*Activity, error) {
	activity, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// Signup adds email to the roster of the named activity. Capacity is not enforced.
func (s *Service) Signup(ctx context.Context, name, email string) (Activity, error) {
	activity, err := s.repo.AddParticipant(ctx, name, email)
	if err != nil {
		observability.RecordRejected("signup", reason(err))
		return Activity{}, err
	}

	observability.RecordSignup(activity.Name)
	s.publish(ctx, events.TypeParticipantSignedUp, activity, email)
	return activity, nil
}

// Unregister removes email from the roster of the named activity.
func (s *Service) Unregister(ctx context.Context, name, email string) (Activity, error) {
	activity, err := s.repo.RemoveParticipant(ctx, name, email)
	if err != nil {
		observability.RecordRejected("unregister", reason(err))
		return Activity{}, err
	}

	observability.RecordUnregister(activity.Name)
	s.publish(ctx, events.TypeParticipantUnregistered, activity, email)
	return activity, nil
}

func (s *Service) publish(ctx context.Context, eventType string, activity Activity, email string) {
	event := events.RosterChanged{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		Activity:         activity.Name,
		Email:            email,
		ParticipantCount: len(activity.Participants),
		MaxParticipants:  activity.MaxParticipants,
		OccurredAt:       s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("roster event not published",
			zap.String("event_type", eventType),
			zap.String("activity", activity.Name),
			zap.Error(err),
		)
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	default:
		return "error"
	}
}
