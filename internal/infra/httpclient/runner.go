package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/chatforge-io/chatforge/internal/config"
)

// RunnerClient talks to the bot-runner service that hosts per-project
// conversational runtimes. Provisioning an instance is the one asynchronous
// external call in project creation; the runner answers once the runtime is up.
type RunnerClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewRunnerClient(cfg *config.Config, log *zap.Logger) *RunnerClient {
	return &RunnerClient{
		BaseURL: cfg.Runner.BaseURL,
		Token:   cfg.Runner.Token,
		HTTPClient: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Logger: log,
	}
}

type ProvisionInstanceRequest struct {
	ProjectID uuid.UUID `json:"project_id"`
	Namespace string    `json:"namespace"`
	Language  string    `json:"language"`
}

type ProvisionedInstance struct {
	Host  string `json:"host"`
	Token string `json:"token"`
}

// ProvisionInstance asks the runner to bring up a runtime for the project and
// blocks until the runner reports it ready.
func (c *RunnerClient) ProvisionInstance(ctx context.Context, in ProvisionInstanceRequest) (*ProvisionedInstance, error) {
	body, err := sonic.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/instances", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provision instance: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.Logger.Warn("runner rejected instance provisioning",
			zap.Int("status", resp.StatusCode),
			zap.String("project_id", in.ProjectID.String()))
		return nil, fmt.Errorf("provision instance: runner returned %d: %s", resp.StatusCode, string(raw))
	}

	var out ProvisionedInstance
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("provision instance: decode response: %w", err)
	}
	return &out, nil
}

// DeprovisionInstance tears down the runtime for a project. Missing instances
// are not an error; deletes must stay idempotent.
func (c *RunnerClient) DeprovisionInstance(ctx context.Context, projectID uuid.UUID) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/instances/%s", c.BaseURL, projectID), nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("deprovision instance: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("deprovision instance: runner returned %d", resp.StatusCode)
	}
	return nil
}
