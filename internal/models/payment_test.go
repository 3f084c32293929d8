package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentStatusPending, PaymentStatusLate, true},
		{PaymentStatusPending, PaymentStatusPaid, true},
		{PaymentStatusPending, PaymentStatusPartiallyPaid, true},
		{PaymentStatusPending, PaymentStatusCancelled, true},
		{PaymentStatusLate, PaymentStatusPending, false},
		{PaymentStatusLate, PaymentStatusPaid, true},
		{PaymentStatusPartiallyPaid, PaymentStatusPartiallyPaid, true},
		{PaymentStatusPartiallyPaid, PaymentStatusLate, false},
		{PaymentStatusPaid, PaymentStatusCancelled, false},
		{PaymentStatusPaid, PaymentStatusPartiallyPaid, false},
		{PaymentStatusCancelled, PaymentStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, PaymentStatusPaid.Terminal())
	assert.True(t, PaymentStatusCancelled.Terminal())
	assert.False(t, PaymentStatusLate.Terminal())
	assert.False(t, PaymentStatus("ARCHIVED").Valid())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", (&User{FirstName: "Jane", LastName: "Doe"}).FullName())
	assert.Equal(t, "Acme", (&User{FirstName: "Acme"}).FullName())
}
