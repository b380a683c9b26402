package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjpos/backend/internal/domain/shared"
)

func TestNewReturnRecord(t *testing.T) {
	unitID := uuid.New()
	txID := uuid.New()

	rec, err := NewReturnRecord(unitID, &txID, OutcomeRestock, "customer changed mind")
	require.NoError(t, err)
	assert.Equal(t, ReturnPending, rec.Status)
	assert.True(t, rec.IsPending())
	assert.Nil(t, rec.ResolvedAt)

	assert.Equal(t, OutcomeRestock, rec.RequestedOutcome)

	_, err = NewReturnRecord(uuid.Nil, nil, OutcomeRestock, "")
	assert.Error(t, err)

	_, err = NewReturnRecord(unitID, nil, "exchange", "")
	assert.Error(t, err)
}

func TestReturnRecordResolveOnce(t *testing.T) {
	rec, err := NewReturnRecord(uuid.New(), nil, OutcomeRestock, "damaged box")
	require.NoError(t, err)

	require.NoError(t, rec.ResolveRestocked())
	assert.Equal(t, ReturnRestocked, rec.Status)
	require.NotNil(t, rec.ResolvedAt)

	// second resolution of any kind fails
	err = rec.ResolveTrashed()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidState, domainErr.Code)

	assert.Error(t, rec.ResolveRestocked())
	assert.Error(t, rec.ResolveReturnedToSupplier(uuid.New(), ""))
	assert.Equal(t, ReturnRestocked, rec.Status)
}

func TestReturnRecordReturnedToSupplier(t *testing.T) {
	rec, err := NewReturnRecord(uuid.New(), nil, OutcomeDefective, "dead on arrival")
	require.NoError(t, err)

	// supplier is mandatory for this outcome
	err = rec.ResolveReturnedToSupplier(uuid.Nil, "")
	require.Error(t, err)
	assert.True(t, rec.IsPending())

	supplierID := uuid.New()
	require.NoError(t, rec.ResolveReturnedToSupplier(supplierID, "RMA 5512"))
	assert.Equal(t, ReturnReturnedToSupplier, rec.Status)
	require.NotNil(t, rec.SupplierID)
	assert.Equal(t, supplierID, *rec.SupplierID)
	assert.Equal(t, "RMA 5512", rec.SupplierNote)
	assert.True(t, rec.Status.Terminal())
}
