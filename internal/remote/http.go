package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/famlog/famlog/internal/model"
)

// HTTPTransport implements Transport against the store's REST transaction
// endpoint using resty.
type HTTPTransport struct {
	client *resty.Client
}

// NewHTTPTransport creates a transport for the store at baseURL. The API key
// is sent on every request; the store rejects unauthenticated transactions.
func NewHTTPTransport(baseURL, apiKey string) *HTTPTransport {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey).
		SetTimeout(30 * time.Second)

	return &HTTPTransport{client: c}
}

type queryRequest struct {
	Namespace string `json:"namespace"`
}

type queryResponse struct {
	Records []Record `json:"records"`
}

type applyRequest struct {
	Steps []wireStep `json:"steps"`
}

// Query implements Transport.Query. The body is decoded explicitly rather
// than via resty's result binding, which only fires on a JSON Content-Type:
// a 200 whose body does not parse is a transport error, never an empty
// namespace.
func (t *HTTPTransport) Query(ctx context.Context, namespace string) ([]Record, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(&queryRequest{Namespace: namespace}).
		Post("/v1/query")
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", model.ErrTransport, namespace, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: query %s: status %d", model.ErrTransport, namespace, resp.StatusCode())
	}

	var out queryResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: query %s: decode response: %v", model.ErrTransport, namespace, err)
	}
	return out.Records, nil
}

// Apply implements Transport.Apply. All steps are sent as one transaction.
func (t *HTTPTransport) Apply(ctx context.Context, steps ...Step) error {
	if len(steps) == 0 {
		return nil
	}
	if len(steps) > MaxStepsPerTransaction {
		return fmt.Errorf("%w: transaction of %d steps exceeds limit %d", model.ErrTransport, len(steps), MaxStepsPerTransaction)
	}

	req := applyRequest{Steps: make([]wireStep, 0, len(steps))}
	for _, s := range steps {
		req.Steps = append(req.Steps, toWire(s))
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/v1/transact")
	if err != nil {
		return fmt.Errorf("%w: transact: %v", model.ErrTransport, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: transact: status %d", model.ErrTransport, resp.StatusCode())
	}
	return nil
}

// HealthPing implements health.HealthPinger against the store's ping route.
func (t *HTTPTransport) HealthPing(ctx context.Context) error {
	resp, err := t.client.R().SetContext(ctx).Get("/v1/ping")
	if err != nil {
		return fmt.Errorf("%w: ping: %v", model.ErrTransport, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: ping: status %d", model.ErrTransport, resp.StatusCode())
	}
	return nil
}
