package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sograves/hpk14-padel/internal/domain"
	"github.com/sograves/hpk14-padel/internal/tablestore"
)

// Signups stores signup rows partitioned by activity id.
type Signups struct {
	client *tablestore.Client
}

// NewSignups binds a repository to the signups table.
func NewSignups(store *tablestore.Store) (*Signups, error) {
	client, err := store.Client(tablestore.TableSignups)
	if err != nil {
		return nil, err
	}
	return &Signups{client: client}, nil
}

// ListByActivity returns every signup for one activity.
func (r *Signups) ListByActivity(ctx context.Context, activityID string) ([]domain.Signup, error) {
	entities, err := r.client.List(ctx, activityID)
	if err != nil {
		return nil, err
	}

	signups := make([]domain.Signup, 0, len(entities))
	for _, entity := range entities {
		signedUpAt, err := timeAttr(entity.Attributes, attrSignedUpAt)
		if err != nil {
			return nil, fmt.Errorf("decode signup %s: %w", entity.RowKey, err)
		}
		signups = append(signups, domain.Signup{
			ID:         entity.RowKey,
			ActivityID: activityID,
			Name:       stringAttr(entity.Attributes, attrName),
			SignedUpAt: signedUpAt,
		})
	}
	return signups, nil
}

// CountByActivity returns the signup count for one activity.
func (r *Signups) CountByActivity(ctx context.Context, activityID string) (int, error) {
	return r.client.Count(ctx, activityID)
}

// Create inserts a new signup row.
func (r *Signups) Create(ctx context.Context, signup domain.Signup) error {
	return r.client.Insert(ctx, tablestore.Entity{
		PartitionKey: signup.ActivityID,
		RowKey:       signup.ID,
		Attributes: map[string]any{
			attrName:       signup.Name,
			attrSignedUpAt: signup.SignedUpAt.Format(time.RFC3339),
		},
	})
}

// Delete removes one signup row.
func (r *Signups) Delete(ctx context.Context, activityID, signupID string) error {
	err := r.client.Delete(ctx, activityID, signupID)
	if errors.Is(err, tablestore.ErrNotFound) {
		return domain.ErrSignupNotFound
	}
	return err
}

// DeleteAllForActivity clears the signup partition for one activity.
func (r *Signups) DeleteAllForActivity(ctx context.Context, activityID string) error {
	_, err := r.client.DeletePartition(ctx, activityID)
	return err
}

// Unavailable stores non-attendance marks partitioned by activity id.
type Unavailable struct {
	client *tablestore.Client
}

// NewUnavailable binds a repository to the unavailable table.
func NewUnavailable(store *tablestore.Store) (*Unavailable, error) {
	client, err := store.Client(tablestore.TableUnavailable)
	if err != nil {
		return nil, err
	}
	return &Unavailable{client: client}, nil
}

// ListByActivity returns every unavailable mark for one activity.
func (r *Unavailable) ListByActivity(ctx context.Context, activityID string) ([]domain.UnavailableMark, error) {
	entities, err := r.client.List(ctx, activityID)
	if err != nil {
		return nil, err
	}

	marks := make([]domain.UnavailableMark, 0, len(entities))
	for _, entity := range entities {
		markedAt, err := timeAttr(entity.Attributes, attrMarkedAt)
		if err != nil {
			return nil, fmt.Errorf("decode unavailable mark %s: %w", entity.RowKey, err)
		}
		marks = append(marks, domain.UnavailableMark{
			ID:         entity.RowKey,
			ActivityID: activityID,
			Name:       stringAttr(entity.Attributes, attrName),
			MarkedAt:   markedAt,
		})
	}
	return marks, nil
}

// CountByActivity returns the mark count for one activity.
func (r *Unavailable) CountByActivity(ctx context.Context, activityID string) (int, error) {
	return r.client.Count(ctx, activityID)
}

// Create inserts a new unavailable row.
func (r *Unavailable) Create(ctx context.Context, mark domain.UnavailableMark) error {
	return r.client.Insert(ctx, tablestore.Entity{
		PartitionKey: mark.ActivityID,
		RowKey:       mark.ID,
		Attributes: map[string]any{
			attrName:     mark.Name,
			attrMarkedAt: mark.MarkedAt.Format(time.RFC3339),
		},
	})
}

// Delete removes one unavailable row.
func (r *Unavailable) Delete(ctx context.Context, activityID, markID string) error {
	err := r.client.Delete(ctx, activityID, markID)
	if errors.Is(err, tablestore.ErrNotFound) {
		return domain.ErrMarkNotFound
	}
	return err
}

// DeleteAllForActivity clears the unavailable partition for one activity.
func (r *Unavailable) DeleteAllForActivity(ctx context.Context, activityID string) error {
	_, err := r.client.DeletePartition(ctx, activityID)
	return err
}
