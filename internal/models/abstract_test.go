package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDerivedStatus(t *testing.T) {
	cases := []struct {
		name        string
		guide       string
		coordinator string
		final       bool
		want        string
	}{
		{"fresh submission", ReviewPending, ReviewPending, false, ReviewPending},
		{"guide approved only", ReviewApproved, ReviewPending, false, ReviewPending},
		{"guide rejected", ReviewRejected, ReviewPending, false, ReviewRejected},
		{"coordinator rejected", ReviewApproved, ReviewRejected, false, ReviewRejected},
		{"final approved", ReviewApproved, ReviewApproved, true, ReviewApproved},
		{"final flag wins over rejection", ReviewApproved, ReviewRejected, true, ReviewApproved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := Abstract{GuideStatus: tc.guide, CoordinatorStatus: tc.coordinator, IsFinalApproved: tc.final}
			a.ApplyDerivedStatus()
			require.Equal(t, tc.want, a.Status)
		})
	}
}
