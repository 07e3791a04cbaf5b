package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRateLimitedTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, ItemMutationsTotal)
	assert.NotNil(t, ItemCacheLookupsTotal)
	assert.NotNil(t, ItemEventsPublishFailuresTotal)
	assert.NotNil(t, ClientRequestsTotal)
	assert.NotNil(t, ClientRequestDuration)
	assert.NotNil(t, BoardRefreshFailuresTotal)
}
