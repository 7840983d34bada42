// Package domain defines the business logic for the team signup board.
package domain

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"strings"
	"time"
)

var (
	// ErrActivityNotFound is returned when an activity id cannot be located.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrSignupNotFound is returned when a signup row cannot be located.
	ErrSignupNotFound = errors.New("signup not found")
	// ErrMarkNotFound is returned when an unavailable row cannot be located.
	ErrMarkNotFound = errors.New("unavailable entry not found")
	// ErrActivityFull indicates the activity reached its participant ceiling.
	ErrActivityFull = errors.New("activity is full")
)

// ActivityRepository captures persistence operations for activities.
type ActivityRepository interface {
	List(ctx context.Context) ([]Activity, error)
	// Get returns nil when no activity exists for the id.
	Get(ctx context.Context, id string) (*Activity, error)
	Create(ctx context.Context, activity Activity) error
	// Replace overwrites every stored attribute; ErrActivityNotFound when absent.
	Replace(ctx context.Context, activity Activity) error
	// Delete removes the row; ErrActivityNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// SignupRepository captures persistence operations for signups.
type SignupRepository interface {
	ListByActivity(ctx context.Context, activityID string) ([]Signup, error)
	CountByActivity(ctx context.Context, activityID string) (int, error)
	Create(ctx context.Context, signup Signup) error
	// Delete removes one signup; ErrSignupNotFound when absent.
	Delete(ctx context.Context, activityID, signupID string) error
	DeleteAllForActivity(ctx context.Context, activityID string) error
}

// UnavailableRepository captures persistence operations for unavailable marks.
type UnavailableRepository interface {
	ListByActivity(ctx context.Context, activityID string) ([]UnavailableMark, error)
	CountByActivity(ctx context.Context, activityID string) (int, error)
	Create(ctx context.Context, mark UnavailableMark) error
	// Delete removes one mark; ErrMarkNotFound when absent.
	Delete(ctx context.Context, activityID, markID string) error
	DeleteAllForActivity(ctx context.Context, activityID string) error
}

// EventPublisher receives lifecycle notifications after successful activity
// writes. Implementations must not fail the request path.
type EventPublisher interface {
	PublishActivityEvent(ctx context.Context, event ActivityEvent)
}

// ActivityEvent describes an activity lifecycle change for downstream consumers.
type ActivityEvent struct {
	Type         string    `json:"type"` // activity.created, activity.updated, activity.deleted
	ActivityID   string    `json:"activity_id"`
	Name         string    `json:"name,omitempty"`
	ActivityType string    `json:"activity_type,omitempty"`
	Date         time.Time `json:"date"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Service orchestrates signup board workflows over the three entity tables.
type Service struct {
	activities  ActivityRepository
	signups     SignupRepository
	unavailable UnavailableRepository
	publisher   EventPublisher
	logger      *log.Logger
	now         func() time.Time
}

// Option customises Service construction.
type Option func(*Service)

// WithPublisher attaches a lifecycle event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService constructs a Service.
func NewService(activities ActivityRepository, signups SignupRepository, unavailable UnavailableRepository, opts ...Option) *Service {
	s := &Service{
		activities:  activities,
		signups:     signups,
		unavailable: unavailable,
		logger:      log.New(io.Discard, "", 0),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActivityInput carries the caller-supplied fields for create and update.
// Required-field validation happens at the API boundary; inputs reaching the
// service are assumed complete.
type ActivityInput struct {
	Name            string
	Type            string
	Date            time.Time
	Location        string
	MaxParticipants *int
	Description     *string
}

// ListUpcoming returns all activities dated today or later, augmented with
// signup and unavailable counts and sorted ascending by date. The counts are
// fetched per activity; cardinalities are small-team scale by design.
func (s *Service) ListUpcoming(ctx context.Context) ([]ActivitySummary, error) {
	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	summaries := make([]ActivitySummary, 0, len(activities))
	for _, activity := range activities {
		if activity.Date.Before(startOfToday) {
			continue
		}

		signupCount, err := s.signups.CountByActivity(ctx, activity.ID)
		if err != nil {
			return nil, err
		}
		unavailableCount, err := s.unavailable.CountByActivity(ctx, activity.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, ActivitySummary{
			Activity:         activity,
			SignupCount:      signupCount,
			UnavailableCount: unavailableCount,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date.Before(summaries[j].Date)
	})
	return summaries, nil
}

// GetDetail fetches one activity with its signups and unavailable marks, each
// list sorted ascending by timestamp.
func (s *Service) GetDetail(ctx context.Context, activityID string) (*ActivityDetail, error) {
	activity, err := s.activities.Get(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	signups, err := s.signups.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	sort.Slice(signups, func(i, j int) bool {
		return signups[i].SignedUpAt.Before(signups[j].SignedUpAt)
	})

	marks, err := s.unavailable.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	sort.Slice(marks, func(i, j int) bool {
		return marks[i].MarkedAt.Before(marks[j].MarkedAt)
	})

	return &ActivityDetail{Activity: *activity, Signups: signups, Unavailable: marks}, nil
}

// CreateActivity persists a new activity with a generated id and creation
// timestamp.
func (s *Service) CreateActivity(ctx context.Context, input ActivityInput) (*Activity, error) {
	activity := Activity{
		ID:              NewEntryID(),
		Name:            input.Name,
		Type:            input.Type,
		Date:            input.Date,
		Location:        input.Location,
		MaxParticipants: normalizeCapacity(input.MaxParticipants),
		Description:     input.Description,
		CreatedAt:       s.now().UTC(),
	}

	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, err
	}

	s.publish(ctx, "activity.created", activity)
	return &activity, nil
}

// UpdateActivity replaces every field of an existing activity except its
// original creation timestamp. Unsupplied optional fields become null.
func (s *Service) UpdateActivity(ctx context.Context, activityID string, input ActivityInput) (*Activity, error) {
	existing, err := s.activities.Get(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrActivityNotFound
	}

	activity := Activity{
		ID:              activityID,
		Name:            input.Name,
		Type:            input.Type,
		Date:            input.Date,
		Location:        input.Location,
		MaxParticipants: normalizeCapacity(input.MaxParticipants),
		Description:     input.Description,
		CreatedAt:       existing.CreatedAt,
	}

	if err := s.activities.Replace(ctx, activity); err != nil {
		return nil, err
	}

	s.publish(ctx, "activity.updated", activity)
	return &activity, nil
}

// DeleteActivity removes the activity and then clears its signup and
// unavailable rows. The cleanup is best effort: rows are deleted one at a
// time with no transaction, and a mid-cascade failure is logged, not rolled
// back.
func (s *Service) DeleteActivity(ctx context.Context, activityID string) error {
	if err := s.activities.Delete(ctx, activityID); err != nil {
		return err
	}

	if err := s.signups.DeleteAllForActivity(ctx, activityID); err != nil {
		s.logger.Printf("cascade delete of signups for activity %s failed: %v", activityID, err)
	}
	if err := s.unavailable.DeleteAllForActivity(ctx, activityID); err != nil {
		s.logger.Printf("cascade delete of unavailable marks for activity %s failed: %v", activityID, err)
	}

	s.publish(ctx, "activity.deleted", Activity{ID: activityID})
	return nil
}

// AddSignup records a participant for an activity, enforcing the capacity
// ceiling when one is set. The count check and the insert are two round
// trips; concurrent signups can jointly exceed the ceiling, an accepted race
// at this usage volume.
func (s *Service) AddSignup(ctx context.Context, activityID, name string) (*Signup, error) {
	activity, err := s.activities.Get(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	if !activity.Unlimited() {
		count, err := s.signups.CountByActivity(ctx, activityID)
		if err != nil {
			return nil, err
		}
		if count >= *activity.MaxParticipants {
			return nil, ErrActivityFull
		}
	}

	signup := Signup{
		ID:         NewEntryID(),
		ActivityID: activityID,
		Name:       strings.TrimSpace(name),
		SignedUpAt: s.now().UTC(),
	}
	if err := s.signups.Create(ctx, signup); err != nil {
		return nil, err
	}
	return &signup, nil
}

// RemoveSignup deletes one signup row.
func (s *Service) RemoveSignup(ctx context.Context, activityID, signupID string) error {
	return s.signups.Delete(ctx, activityID, signupID)
}

// AddUnavailable records a non-attendance mark. Unlike signups there is no
// capacity ceiling and no activity existence check; any team member may mark
// themselves out at any time.
func (s *Service) AddUnavailable(ctx context.Context, activityID, name string) (*UnavailableMark, error) {
	mark := UnavailableMark{
		ID:         NewEntryID(),
		ActivityID: activityID,
		Name:       strings.TrimSpace(name),
		MarkedAt:   s.now().UTC(),
	}
	if err := s.unavailable.Create(ctx, mark); err != nil {
		return nil, err
	}
	return &mark, nil
}

// RemoveUnavailable deletes one unavailable row.
func (s *Service) RemoveUnavailable(ctx context.Context, activityID, markID string) error {
	return s.unavailable.Delete(ctx, activityID, markID)
}

func (s *Service) publish(ctx context.Context, eventType string, activity Activity) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishActivityEvent(ctx, ActivityEvent{
		Type:         eventType,
		ActivityID:   activity.ID,
		Name:         activity.Name,
		ActivityType: activity.Type,
		Date:         activity.Date,
		OccurredAt:   s.now().UTC(),
	})
}

// normalizeCapacity maps absent or non-positive limits to unlimited.
func normalizeCapacity(limit *int) *int {
	if limit == nil || *limit <= 0 {
		return nil
	}
	capped := *limit
	return &capped
}
