package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDs_AreUUIDs(t *testing.T) {
	_, err := uuid.Parse(domain.NewOrderID().String())
	assert.NoError(t, err)

	assert.NotEqual(t, domain.NewTicketID(), domain.NewTicketID())
}

func TestParseIDs(t *testing.T) {
	id, err := domain.ParseEventID("  evt-1 ")
	require.NoError(t, err)
	assert.Equal(t, domain.EventID("evt-1"), id)

	_, err = domain.ParseOrderID("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
