package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(optimisticConflicts.WithLabelValues("inventory"))
	OptimisticConflict("inventory")
	OptimisticConflict("inventory")
	assert.Equal(t, before+2, testutil.ToFloat64(optimisticConflicts.WithLabelValues("inventory")))

	expiredBefore := testutil.ToFloat64(reservationsExpired)
	ReservationsExpired(3)
	assert.Equal(t, expiredBefore+3, testutil.ToFloat64(reservationsExpired))
}
