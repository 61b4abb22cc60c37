package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/appstream"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/charmbracelet/log"
)

// Client wraps AWS SDK clients
type Client struct {
	AppStream *appstream.Client
	STS       *sts.Client

	cfg         aws.Config
	profile     string
	region      string
	endpointURL string
	maxAttempts int
}

// ClientOption allows customizing the AWS Client
type ClientOption func(*Client)

// WithProfile sets the AWS profile for the client
func WithProfile(profile string) ClientOption {
	return func(c *Client) {
		c.profile = profile
	}
}

// WithRegion sets the AWS region for the client
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		c.region = region
	}
}

// WithEndpointURL overrides the AppStream service endpoint
func WithEndpointURL(url string) ClientOption {
	return func(c *Client) {
		c.endpointURL = url
	}
}

// WithMaxAttempts sets the SDK retryer's maximum attempts per call
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		c.maxAttempts = n
	}
}

// NewClient creates a new AWS Client with the given options
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	// Build config options
	var configOpts []func(*config.LoadOptions) error

	if c.profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(c.profile))
	}

	if c.region != "" {
		configOpts = append(configOpts, config.WithRegion(c.region))
	}

	if c.maxAttempts > 0 {
		configOpts = append(configOpts, config.WithRetryMaxAttempts(c.maxAttempts))
	}

	// Load AWS config
	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	c.cfg = cfg

	c.AppStream = appstream.NewFromConfig(cfg, func(o *appstream.Options) {
		if c.endpointURL != "" {
			o.BaseEndpoint = aws.String(c.endpointURL)
		}
	})
	c.STS = sts.NewFromConfig(cfg)

	return c, nil
}

// Config returns the resolved SDK configuration
func (c *Client) Config() aws.Config {
	return c.cfg
}

// Region returns the region the client resolved to
func (c *Client) Region() string {
	return c.cfg.Region
}

// Session creates the Client on first use and hands out the same instance
// afterwards. It is safe for concurrent use.
type Session struct {
	opts   []ClientOption
	logger *log.Logger

	mu     sync.Mutex
	client *Client
}

// NewSession returns a Session that builds its client with opts
func NewSession(logger *log.Logger, opts ...ClientOption) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{opts: opts, logger: logger}
}

// Client returns the shared client, creating it if needed. A failed
// creation is not cached, so a later call may retry.
func (s *Session) Client(ctx context.Context) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	s.logger.Debug("creating AWS client")
	c, err := NewClient(ctx, s.opts...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("AWS client ready", "region", c.Region())
	s.client = c
	return c, nil
}

// AppStream returns the shared AppStream API client. Its signature matches
// adapter.ClientFunc[API].
func (s *Session) AppStream(ctx context.Context) (API, error) {
	c, err := s.Client(ctx)
	if err != nil {
		return nil, err
	}
	return c.AppStream, nil
}
