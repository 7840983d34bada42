// Package testsupport provides in-memory repository implementations for tests.
package testsupport

import (
	"context"
	"sync"

	"github.com/sograves/hpk14-padel/internal/domain"
)

// ActivityRepo is an in-memory domain.ActivityRepository.
type ActivityRepo struct {
	mu    sync.RWMutex
	items map[string]domain.Activity

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// NewActivityRepo constructs an empty repository.
func NewActivityRepo() *ActivityRepo {
	return &ActivityRepo{items: make(map[string]domain.Activity)}
}

// Seed stores an activity directly.
func (r *ActivityRepo) Seed(activity domain.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[activity.ID] = activity
}

// Len reports the number of stored activities.
func (r *ActivityRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *ActivityRepo) List(ctx context.Context) ([]domain.Activity, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Activity, 0, len(r.items))
	for _, activity := range r.items {
		out = append(out, activity)
	}
	return out, nil
}

func (r *ActivityRepo) Get(ctx context.Context, id string) (*domain.Activity, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if activity, ok := r.items[id]; ok {
		return &activity, nil
	}
	return nil, nil
}

func (r *ActivityRepo) Create(ctx context.Context, activity domain.Activity) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[activity.ID] = activity
	return nil
}

func (r *ActivityRepo) Replace(ctx context.Context, activity domain.Activity) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[activity.ID]; !ok {
		return domain.ErrActivityNotFound
	}
	r.items[activity.ID] = activity
	return nil
}

func (r *ActivityRepo) Delete(ctx context.Context, id string) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrActivityNotFound
	}
	delete(r.items, id)
	return nil
}

// SignupRepo is an in-memory domain.SignupRepository.
type SignupRepo struct {
	mu    sync.RWMutex
	items map[string]map[string]domain.Signup

	FailWith error
}

// NewSignupRepo constructs an empty repository.
func NewSignupRepo() *SignupRepo {
	return &SignupRepo{items: make(map[string]map[string]domain.Signup)}
}

// Seed stores a signup directly.
func (r *SignupRepo) Seed(signup domain.Signup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items[signup.ActivityID] == nil {
		r.items[signup.ActivityID] = make(map[string]domain.Signup)
	}
	r.items[signup.ActivityID][signup.ID] = signup
}

func (r *SignupRepo) ListByActivity(ctx context.Context, activityID string) ([]domain.Signup, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Signup, 0, len(r.items[activityID]))
	for _, signup := range r.items[activityID] {
		out = append(out, signup)
	}
	return out, nil
}

func (r *SignupRepo) CountByActivity(ctx context.Context, activityID string) (int, error) {
	if r.FailWith != nil {
		return 0, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items[activityID]), nil
}

func (r *SignupRepo) Create(ctx context.Context, signup domain.Signup) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.Seed(signup)
	return nil
}

func (r *SignupRepo) Delete(ctx context.Context, activityID, signupID string) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[activityID][signupID]; !ok {
		return domain.ErrSignupNotFound
	}
	delete(r.items[activityID], signupID)
	return nil
}

func (r *SignupRepo) DeleteAllForActivity(ctx context.Context, activityID string) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, activityID)
	return nil
}

// UnavailableRepo is an in-memory domain.UnavailableRepository.
type UnavailableRepo struct {
	mu    sync.RWMutex
	items map[string]map[string]domain.UnavailableMark

	FailWith error
}

// NewUnavailableRepo constructs an empty repository.
func NewUnavailableRepo() *UnavailableRepo {
	return &UnavailableRepo{items: make(map[string]map[string]domain.UnavailableMark)}
}

// Seed stores a mark directly.
func (r *UnavailableRepo) Seed(mark domain.UnavailableMark) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items[mark.ActivityID] == nil {
		r.items[mark.ActivityID] = make(map[string]domain.UnavailableMark)
	}
	r.items[mark.ActivityID][mark.ID] = mark
}

func (r *UnavailableRepo) ListByActivity(ctx context.Context, activityID string) ([]domain.UnavailableMark, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.UnavailableMark, 0, len(r.items[activityID]))
	for _, mark := range r.items[activityID] {
		out = append(out, mark)
	}
	return out, nil
}

func (r *UnavailableRepo) CountByActivity(ctx context.Context, activityID string) (int, error) {
	if r.FailWith != nil {
		return 0, r.FailWith
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items[activityID]), nil
}

func (r *UnavailableRepo) Create(ctx context.Context, mark domain.UnavailableMark) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.Seed(mark)
	return nil
}

func (r *UnavailableRepo) Delete(ctx context.Context, activityID, markID string) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[activityID][markID]; !ok {
		return domain.ErrMarkNotFound
	}
	delete(r.items[activityID], markID)
	return nil
}

func (r *UnavailableRepo) DeleteAllForActivity(ctx context.Context, activityID string) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, activityID)
	return nil
}
