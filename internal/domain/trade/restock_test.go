package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRestock(t *testing.T, paid decimal.Decimal) *Restock {
	t.Helper()
	supplierID := uuid.New()
	r, err := NewRestock(&supplierID, uuid.New(), time.Now(), decimal.Zero, paid, "A", "")
	require.NoError(t, err)
	return r
}

func TestRestockFinalize(t *testing.T) {
	r := newTestRestock(t, decimal.NewFromInt(30))

	_, err := r.AddEachLine(uuid.New(), 5, decimal.NewFromInt(12))
	require.NoError(t, err)
	_, err = r.AddMeterLine(uuid.New(), decimal.NewFromFloat(15.75), decimal.NewFromInt(2))
	require.NoError(t, err)

	require.NoError(t, r.Finalize())
	assert.True(t, r.Subtotal.Equal(decimal.NewFromFloat(91.5)), "got %s", r.Subtotal)
	assert.True(t, r.Outstanding.Equal(decimal.NewFromFloat(61.5)))
	assert.Equal(t, PaymentPartial, r.PaymentStatus)
}

func TestRestockFinalizeOverpaid(t *testing.T) {
	r := newTestRestock(t, decimal.NewFromInt(100))
	_, err := r.AddEachLine(uuid.New(), 1, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Error(t, r.Finalize())
}

func TestRestockLineValidation(t *testing.T) {
	r := newTestRestock(t, decimal.Zero)

	_, err := r.AddEachLine(uuid.New(), 0, decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = r.AddEachLine(uuid.Nil, 1, decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = r.AddMeterLine(uuid.New(), decimal.Zero, decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = r.AddEachLine(uuid.New(), 1, decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestRestockApplyPayment(t *testing.T) {
	r := newTestRestock(t, decimal.Zero)
	_, err := r.AddEachLine(uuid.New(), 10, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, r.Finalize())
	require.True(t, r.Outstanding.Equal(decimal.NewFromInt(100)))

	applied, err := r.ApplyPayment(decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.True(t, applied.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, PaymentPartial, r.PaymentStatus)

	// applying more than is owed only takes the remainder
	applied, err = r.ApplyPayment(decimal.NewFromInt(70))
	require.NoError(t, err)
	assert.True(t, applied.Equal(decimal.NewFromInt(40)))
	assert.True(t, r.Outstanding.IsZero())
	assert.Equal(t, PaymentPaid, r.PaymentStatus)

	// settled restocks absorb nothing
	applied, err = r.ApplyPayment(decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, applied.IsZero())

	_, err = r.ApplyPayment(decimal.Zero)
	assert.Error(t, err)
}
