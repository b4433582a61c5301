package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledClient(t *testing.T) {
	nc, err := NewNATSClient(Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, nc.Enabled())
	assert.NoError(t, nc.Publish("reserva.synced", map[string]int{"reserva_id": 1}))

	_, err = nc.SubscribeQueue("reserva.synced", "indexer", nil)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, nc.Close())
}
