package domain

import "time"

// ActivityPartition is the fixed partition key under which every activity row
// is stored. Signup and unavailable rows are partitioned by activity id.
const ActivityPartition = "activity"

// Activity is a schedulable team event.
type Activity struct {
	ID              string
	Name            string
	Type            string
	Date            time.Time
	Location        string
	MaxParticipants *int    // nil means unlimited
	Description     *string
	CreatedAt       time.Time
}

// Unlimited reports whether the activity has no capacity ceiling.
func (a Activity) Unlimited() bool {
	return a.MaxParticipants == nil
}

// Signup is a named commitment to attend an activity.
type Signup struct {
	ID         string
	ActivityID string
	Name       string
	SignedUpAt time.Time
}

// UnavailableMark is a named declaration of non-attendance for an activity.
type UnavailableMark struct {
	ID         string
	ActivityID string
	Name       string
	MarkedAt   time.Time
}

// ActivitySummary augments an activity with attendance counts for list views.
type ActivitySummary struct {
	Activity
	SignupCount      int
	UnavailableCount int
}

// ActivityDetail bundles one activity with its full signup and unavailable lists.
type ActivityDetail struct {
	Activity    Activity
	Signups     []Signup
	Unavailable []UnavailableMark
}
