package rod_test

import (
	"testing"

	"github.com/fwojciec/jobsift/rod"
	"github.com/stretchr/testify/assert"
)

func TestRecycler_Due(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		recycler rod.Recycler
		statuses []int
		reason   string
		due      bool
	}{
		{
			name:     "fresh session",
			recycler: rod.Recycler{MaxPages: 3, BlockStatuses: rod.DefaultBlockStatuses},
		},
		{
			name:     "below page budget",
			recycler: rod.Recycler{MaxPages: 3, BlockStatuses: rod.DefaultBlockStatuses},
			statuses: []int{200, 404},
		},
		{
			name:     "page budget reached",
			recycler: rod.Recycler{MaxPages: 3, BlockStatuses: rod.DefaultBlockStatuses},
			statuses: []int{200, 404, 200},
			reason:   rod.ReasonPageLimit,
			due:      true,
		},
		{
			name:     "failed loads count toward the budget",
			recycler: rod.Recycler{MaxPages: 2},
			statuses: []int{0, 0},
			reason:   rod.ReasonPageLimit,
			due:      true,
		},
		{
			name:     "linkedin 999 blocks at once",
			recycler: rod.Recycler{MaxPages: 50, BlockStatuses: rod.DefaultBlockStatuses},
			statuses: []int{999},
			reason:   rod.ReasonBlocked,
			due:      true,
		},
		{
			name:     "forbidden blocks even after successes",
			recycler: rod.Recycler{MaxPages: 50, BlockStatuses: rod.DefaultBlockStatuses},
			statuses: []int{200, 200, 403, 200},
			reason:   rod.ReasonBlocked,
			due:      true,
		},
		{
			name:     "block wins over page limit",
			recycler: rod.Recycler{MaxPages: 1, BlockStatuses: rod.DefaultBlockStatuses},
			statuses: []int{429},
			reason:   rod.ReasonBlocked,
			due:      true,
		},
		{
			name:     "custom statuses replace defaults",
			recycler: rod.Recycler{BlockStatuses: []int{451}},
			statuses: []int{999, 403},
		},
		{
			name:     "zero budget never expires",
			recycler: rod.Recycler{},
			statuses: []int{200, 200, 200, 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := tt.recycler
			for _, s := range tt.statuses {
				r.Observe(s)
			}

			reason, due := r.Due()

			assert.Equal(t, tt.due, due)
			assert.Equal(t, tt.reason, reason)
			assert.Equal(t, int64(len(tt.statuses)), r.Pages())
		})
	}
}

func TestRecycler_KeepsFirstBlockStatus(t *testing.T) {
	t.Parallel()

	r := rod.Recycler{BlockStatuses: rod.DefaultBlockStatuses}
	r.Observe(999)
	r.Observe(403)

	assert.Equal(t, 999, r.BlockedBy())
}

func TestRecycler_Reset(t *testing.T) {
	t.Parallel()

	r := rod.Recycler{MaxPages: 1, BlockStatuses: rod.DefaultBlockStatuses}
	r.Observe(999)
	r.Reset()

	_, due := r.Due()

	assert.False(t, due)
	assert.Zero(t, r.Pages())
	assert.Zero(t, r.BlockedBy())
}
