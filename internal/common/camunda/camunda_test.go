package camunda

import (
	"testing"
	"time"

	"kisan-sathi/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConfigFrom(t *testing.T) {
	got := ClientConfigFrom(config.CamundaConfig{
		BrokerAddress:  "zeebe:26500",
		RequestTimeout: 5000,
		TLS:            true,
		CACertPath:     "/etc/zeebe/ca.pem",
	})
	assert.Equal(t, "zeebe:26500", got.GatewayAddress)
	assert.Equal(t, 5*time.Second, got.ConnectionTimeout)
	assert.True(t, got.TLS)
	assert.Equal(t, "/etc/zeebe/ca.pem", got.CACertPath)

	assert.Equal(t, 10*time.Second, ClientConfigFrom(config.CamundaConfig{}).ConnectionTimeout)
}

func TestNewClientWithConfig_EmptyAddress(t *testing.T) {
	_, err := NewClientWithConfig(&ClientConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is empty")
}

func TestJobContext(t *testing.T) {
	ctx, cancel := JobContext(time.Minute)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
