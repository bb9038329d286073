// Package memory provides the in-process activity store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"example.com/signup/internal/domain"
)

// Repository stores activities in memory. Every value handed out is a copy, so callers
// cannot bypass the roster invariants by mutating results.
type Repository struct {
	mu         sync.RWMutex
	activities map[string]*domain.Activity
}

// NewRepository constructs a Repository populated with the supplied activities.
func NewRepository(seed []domain.Activity) (*Repository, error) {
	repo := &Repository{activities: make(map[string]*domain.Activity, len(seed))}
	for _, activity := range seed {
		if _, exists := repo.activities[activity.Name]; exists {
			return nil, fmt.Errorf("duplicate activity name %q", activity.Name)
		}
		clone := activity.Clone()
		repo.activities[activity.Name] = &clone
	}
	return repo, nil
}

// NewSeededRepository constructs a Repository holding the default catalog.
func NewSeededRepository() *Repository {
	repo, err := NewRepository(domain.SeedActivities())
	if err != nil {
		panic(err)
	}
	return repo
}

// List implements domain.ActivityRepository.
func (r *Repository) List(ctx context.Context) (map[string]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.Activity, len(r.activities))
	for name, activity := range r.activities {
		out[name] = activity.Clone()
	}
	return out, nil
}

// Get returns the activity by exact name, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, name string) (*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, nil
	}
	clone := activity.Clone()
	return &clone, nil
}

// AddParticipant appends email to the roster.
func (r *Repository) AddParticipant(ctx context.Context, name, email string) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	if activity.HasParticipant(email) {
		return domain.Activity{}, domain.ErrAlreadyRegistered
	}
	activity.Participants = append(activity.Participants, email)
	return activity.Clone(), nil
}

// RemoveParticipant drops email from the roster, keeping the order of the remaining entries.
func (r *Repository) RemoveParticipant(ctx context.Context, name, email string) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	idx := slices.Index(activity.Participants, email)
	if idx < 0 {
		return domain.Activity{}, domain.ErrNotRegistered
	}
	activity.Participants = slices.Delete(activity.Participants, idx, idx+1)
	return activity.Clone(), nil
}

// RosterSizes returns the participant count of every activity.
func (r *Repository) RosterSizes() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(r.activities))
	for name, activity := range r.activities {
		out[name] = len(activity.Participants)
	}
	return out
}
