package camunda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kisan-sathi/internal/common/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// ErrNoBrokers is returned by HealthCheck when the gateway answers but
// reports an empty cluster.
var ErrNoBrokers = errors.New("zeebe gateway reports no brokers")

type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress    string
	TLS               bool
	CACertPath        string
	ConnectionTimeout time.Duration
	KeepAlive         time.Duration
}

// ClientConfigFrom maps the camunda section of the application config.
func ClientConfigFrom(cfg config.CamundaConfig) *ClientConfig {
	timeout := config.GetDuration(cfg.RequestTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ClientConfig{
		GatewayAddress:    cfg.BrokerAddress,
		TLS:               cfg.TLS,
		CACertPath:        cfg.CACertPath,
		ConnectionTimeout: timeout,
		KeepAlive:         45 * time.Second,
	}
}

// NewClientWithConfig creates the gateway client and verifies the broker
// answers a topology request.
func NewClientWithConfig(cfg *ClientConfig) (*Client, error) {
	if cfg.GatewayAddress == "" {
		return nil, errors.New("zeebe gateway address is empty")
	}
	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.GatewayAddress,
		UsePlaintextConnection: !cfg.TLS,
		CaCertificatePath:      cfg.CACertPath,
		KeepAlive:              cfg.KeepAlive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: cfg}
	if err := c.HealthCheck(context.Background()); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.GatewayAddress, err)
	}
	return c, nil
}

// NewClient connects to a plaintext gateway, as used by docker-compose.
func NewClient(address string) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{
		GatewayAddress:    address,
		ConnectionTimeout: 10 * time.Second,
	})
}

func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// HealthCheck asks the gateway for the cluster topology. It is the
// readiness probe for the zeebe dependency.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	topology, err := c.client.NewTopologyCommand().Send(ctx)
	if err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	if len(topology.GetBrokers()) == 0 {
		return ErrNoBrokers
	}
	return nil
}
