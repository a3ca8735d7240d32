package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "ORD-2026-00001", FormatNumber(2026, 1))
	assert.Equal(t, "ORD-2026-99999", FormatNumber(2026, 99999))
	assert.Equal(t, "ORD-2027-123456", FormatNumber(2027, 123456))
}

func TestNumberGenerator_Next(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return time.Date(2031, time.July, 4, 0, 0, 0, 0, time.UTC) }

	t.Run("Count plus one", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Count", ctx).Return(int64(9), nil)
		repo.On("ExistsByNumber", ctx, "ORD-2031-00010").Return(false, nil)

		n, err := NewNumberGenerator(repo, clock).Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ORD-2031-00010", n)
	})

	t.Run("Probes past taken numbers", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Count", ctx).Return(int64(9), nil)
		repo.On("ExistsByNumber", ctx, "ORD-2031-00010").Return(true, nil)
		repo.On("ExistsByNumber", ctx, "ORD-2031-00011").Return(true, nil)
		repo.On("ExistsByNumber", ctx, "ORD-2031-00012").Return(false, nil)

		n, err := NewNumberGenerator(repo, clock).Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ORD-2031-00012", n)
	})

	t.Run("Probe limit", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Count", ctx).Return(int64(0), nil)
		repo.On("ExistsByNumber", ctx, mock.Anything).Return(true, nil)

		g := NewNumberGenerator(repo, clock)
		g.probeLimit = 3
		_, err := g.Next(ctx)
		assert.ErrorIs(t, err, ErrNumberSpaceBlocked)
		repo.AssertNumberOfCalls(t, "ExistsByNumber", 3)
	})

	t.Run("Count error", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Count", ctx).Return(int64(0), errors.New("db error"))

		_, err := NewNumberGenerator(repo, clock).Next(ctx)
		assert.ErrorContains(t, err, "count orders")
	})
}

func TestStatusLifecycle(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusShipped))
	assert.True(t, StatusShipped.CanTransitionTo(StatusDelivered))
	assert.False(t, StatusShipped.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusPending))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))

	assert.True(t, StatusPending.Cancellable())
	assert.True(t, StatusConfirmed.Cancellable())
	assert.False(t, StatusShipped.Cancellable())
}

func TestPlaceOrderRequest_Validate(t *testing.T) {
	req := validRequest()
	m, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, PaymentCOD, m)

	req.PaymentMethod = " upi "
	m, err = req.Validate()
	require.NoError(t, err)
	assert.Equal(t, PaymentUPI, m)

	req.PaymentMethod = ""
	_, err = req.Validate()
	assert.ErrorIs(t, err, ErrMissingPaymentMethod)

	req = validRequest()
	req.Shipping.Phone = ""
	_, err = req.Validate()
	assert.ErrorIs(t, err, ErrMissingShipping)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseStatus("lost")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	ps, err := ParsePaymentStatus("Refunded")
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, ps)
}
