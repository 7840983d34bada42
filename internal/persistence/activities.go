// Package persistence implements the domain repositories over the table store.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sograves/hpk14-padel/internal/domain"
	"github.com/sograves/hpk14-padel/internal/tablestore"
)

// Attribute names are shared with the browser client and kept verbatim.
const (
	attrName            = "name"
	attrType            = "type"
	attrDate            = "date"
	attrLocation        = "location"
	attrMaxParticipants = "maxParticipants"
	attrDescription     = "description"
	attrCreatedAt       = "createdAt"
	attrSignedUpAt      = "signedUpAt"
	attrMarkedAt        = "markedAt"
)

// Activities stores activity rows under the fixed activity partition.
type Activities struct {
	client *tablestore.Client
}

// NewActivities binds a repository to the activities table.
func NewActivities(store *tablestore.Store) (*Activities, error) {
	client, err := store.Client(tablestore.TableActivities)
	if err != nil {
		return nil, err
	}
	return &Activities{client: client}, nil
}

// List returns every stored activity.
func (r *Activities) List(ctx context.Context) ([]domain.Activity, error) {
	entities, err := r.client.List(ctx, domain.ActivityPartition)
	if err != nil {
		return nil, err
	}

	activities := make([]domain.Activity, 0, len(entities))
	for _, entity := range entities {
		activity, err := decodeActivity(entity)
		if err != nil {
			return nil, fmt.Errorf("decode activity %s: %w", entity.RowKey, err)
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

// Get fetches one activity; nil when absent.
func (r *Activities) Get(ctx context.Context, id string) (*domain.Activity, error) {
	entity, err := r.client.Get(ctx, domain.ActivityPartition, id)
	if err != nil {
		if errors.Is(err, tablestore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	activity, err := decodeActivity(*entity)
	if err != nil {
		return nil, fmt.Errorf("decode activity %s: %w", id, err)
	}
	return &activity, nil
}

// Create inserts a new activity row.
func (r *Activities) Create(ctx context.Context, activity domain.Activity) error {
	return r.client.Insert(ctx, encodeActivity(activity))
}

// Replace overwrites all attributes of an existing activity.
func (r *Activities) Replace(ctx context.Context, activity domain.Activity) error {
	err := r.client.Replace(ctx, encodeActivity(activity))
	if errors.Is(err, tablestore.ErrNotFound) {
		return domain.ErrActivityNotFound
	}
	return err
}

// Delete removes one activity row.
func (r *Activities) Delete(ctx context.Context, id string) error {
	err := r.client.Delete(ctx, domain.ActivityPartition, id)
	if errors.Is(err, tablestore.ErrNotFound) {
		return domain.ErrActivityNotFound
	}
	return err
}

func encodeActivity(activity domain.Activity) tablestore.Entity {
	attrs := map[string]any{
		attrName:            activity.Name,
		attrType:            activity.Type,
		attrDate:            activity.Date.Format(time.RFC3339),
		attrLocation:        activity.Location,
		attrMaxParticipants: nil,
		attrDescription:     nil,
		attrCreatedAt:       activity.CreatedAt.Format(time.RFC3339),
	}
	if activity.MaxParticipants != nil {
		attrs[attrMaxParticipants] = *activity.MaxParticipants
	}
	if activity.Description != nil {
		attrs[attrDescription] = *activity.Description
	}
	return tablestore.Entity{
		PartitionKey: domain.ActivityPartition,
		RowKey:       activity.ID,
		Attributes:   attrs,
	}
}

func decodeActivity(entity tablestore.Entity) (domain.Activity, error) {
	date, err := timeAttr(entity.Attributes, attrDate)
	if err != nil {
		return domain.Activity{}, err
	}
	createdAt, err := timeAttr(entity.Attributes, attrCreatedAt)
	if err != nil {
		return domain.Activity{}, err
	}

	return domain.Activity{
		ID:              entity.RowKey,
		Name:            stringAttr(entity.Attributes, attrName),
		Type:            stringAttr(entity.Attributes, attrType),
		Date:            date,
		Location:        stringAttr(entity.Attributes, attrLocation),
		MaxParticipants: intPtrAttr(entity.Attributes, attrMaxParticipants),
		Description:     stringPtrAttr(entity.Attributes, attrDescription),
		CreatedAt:       createdAt,
	}, nil
}

func stringAttr(attrs map[string]any, key string) string {
	value, _ := attrs[key].(string)
	return value
}

func stringPtrAttr(attrs map[string]any, key string) *string {
	if value, ok := attrs[key].(string); ok {
		return &value
	}
	return nil
}

// intPtrAttr reads an optional integer; jsonb numbers scan as float64.
func intPtrAttr(attrs map[string]any, key string) *int {
	switch value := attrs[key].(type) {
	case float64:
		n := int(value)
		return &n
	case int:
		n := value
		return &n
	default:
		return nil
	}
}

func timeAttr(attrs map[string]any, key string) (time.Time, error) {
	raw, ok := attrs[key].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("attribute %s missing or not a timestamp", key)
	}
	return time.Parse(time.RFC3339, raw)
}
