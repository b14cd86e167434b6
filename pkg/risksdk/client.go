package risksdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the credit-risk verdict service.
// It provides access to unauthenticated operations and creates Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges a username and password for a session token.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions", "", SessionRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return newSession(c, &out), nil
}

// NewSessionFromToken wraps an existing session token.
func (c *SDKClient) NewSessionFromToken(token string, expiresIn int) *Session {
	return newSession(c, &SessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	})
}

// Predict requests a verdict without a session. It only succeeds against
// deployments running with authentication disabled.
func (c *SDKClient) Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error) {
	return c.predict(ctx, "", req)
}

// GetSchema returns the accepted applicant fields and values.
func (c *SDKClient) GetSchema(ctx context.Context) (*SchemaResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/schema", "", nil)
	if err != nil {
		return nil, err
	}

	var schema SchemaResponse
	if err := decodeJSON(resp, &schema, http.StatusOK); err != nil {
		return nil, err
	}

	return &schema, nil
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}

func (c *SDKClient) predict(ctx context.Context, token string, req PredictionRequest) (*PredictionResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/predictions", token, req)
	if err != nil {
		return nil, err
	}

	var out PredictionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}
