package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/M4H1-4B1R/order-splitter-shopify/internal/config"
	apperrors "github.com/M4H1-4B1R/order-splitter-shopify/pkg/errors"
)

const defaultMaxRetries = 3

// Client is a Shopify Admin GraphQL client. It is shop-agnostic: the shop
// domain and access token are passed per call, so one client serves every
// installed shop.
type Client struct {
	apiVersion string
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries int

	// baseURL overrides the https://{shop} prefix when set (tests only)
	baseURL string
	// sleep is swappable so backoff can be observed without waiting
	sleep func(time.Duration)
}

// NewClient creates a new Shopify GraphQL client
func NewClient(cfg config.ShopifyConfig, logger *zap.Logger) *Client {
	return &Client{
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:     logger,
		maxRetries: defaultMaxRetries,
		sleep:      time.Sleep,
	}
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response. Errors carries top-level
// GraphQL errors; userErrors inside mutation payloads live in Data and are
// business results, not transport failures.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a top-level GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// UserError is the userErrors shape shared by Shopify mutations
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// FormatUserErrors joins user errors into one message string
func FormatUserErrors(errs []UserError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = fmt.Sprintf("%s: %s", strings.Join(e.Field, "."), e.Message)
	}
	return strings.Join(msgs, "; ")
}

// transientError marks a failure worth retrying (throttling, 5xx, network)
type transientError struct {
	message string
}

func (e *transientError) Error() string {
	return e.message
}

func (c *Client) endpoint(shop string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	domain := strings.TrimPrefix(shop, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimSuffix(domain, "/")
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, c.apiVersion)
}

// execute performs a single GraphQL call. HTTP 429 and >=500, network
// failures, and top-level errors mentioning throttling come back as
// transient errors; everything else, including non-throttle GraphQL errors,
// is returned as data for the caller to interpret.
func (c *Client) execute(ctx context.Context, shop, accessToken, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	reqBody := GraphQLRequest{
		Query:     query,
		Variables: variables,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(shop), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transientError{message: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &transientError{message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(body, &graphQLResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	if len(graphQLResp.Errors) > 0 && mentionsThrottling(graphQLResp.Errors) {
		return nil, &transientError{message: "graphql rate limit"}
	}

	return &graphQLResp, nil
}

// mentionsThrottling reports whether the error list looks like a rate-limit
// response (Shopify wording varies across API versions)
func mentionsThrottling(errs []GraphQLError) bool {
	encoded, err := json.Marshal(errs)
	if err != nil {
		return false
	}
	asString := strings.ToLower(string(encoded))
	return strings.Contains(asString, "rate") ||
		strings.Contains(asString, "throttle") ||
		strings.Contains(asString, "throttled")
}

// ExecuteWithRetry executes a GraphQL query/mutation, retrying transient
// failures up to maxRetries additional attempts. Backoff before retry n is
// 2^n seconds plus up to one second of jitter; attempts are sequential.
// After exhausting the budget the last error is wrapped in
// ErrRemoteCallExhausted.
func (c *Client) ExecuteWithRetry(ctx context.Context, shop, accessToken, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	attempt := 0
	for {
		resp, err := c.execute(ctx, shop, accessToken, query, variables)
		if err == nil {
			return resp, nil
		}

		var transient *transientError
		if !errors.As(err, &transient) {
			return nil, err
		}

		attempt++
		if attempt > c.maxRetries {
			c.logger.Error("GraphQL call exhausted retries",
				zap.String("shop", shop),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return nil, &apperrors.ErrRemoteCallExhausted{Attempts: attempt, Last: err}
		}

		delay := time.Duration(1<<uint(attempt))*time.Second +
			time.Duration(rand.Int63n(int64(time.Second)))
		c.logger.Warn("GraphQL attempt failed, retrying",
			zap.String("shop", shop),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		c.sleep(delay)
	}
}
