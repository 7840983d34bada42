package domain_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sograves/hpk14-padel/internal/domain"
)

func TestNewEntryIDFormat(t *testing.T) {
	id := domain.NewEntryID()

	millis, suffix, found := strings.Cut(id, "-")
	require.True(t, found, "expected millis-suffix shape, got %q", id)

	_, err := strconv.ParseInt(millis, 10, 64)
	require.NoError(t, err, "prefix should be a millisecond timestamp")
	require.Len(t, suffix, 9)
	for _, r := range suffix {
		require.Contains(t, "0123456789abcdefghijklmnopqrstuvwxyz", string(r))
	}
}

func TestNewEntryIDPracticalUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := domain.NewEntryID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
}
