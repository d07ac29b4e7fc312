// Package dynatrace implements the monitoring API client: management
// zones, paginated security problem retrieval with per-problem detail
// enrichment, and entity display-name lookups.
package dynatrace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vulnreport/vulnreport/pkg/httpclient"
	"github.com/vulnreport/vulnreport/pkg/iohelper"
	"github.com/vulnreport/vulnreport/pkg/retry"
	"github.com/vulnreport/vulnreport/pkg/vuln"
)

// securityProblemPageSize is the page size requested from the list
// endpoint. The API caps pages at 500.
const securityProblemPageSize = 500

// Config holds client construction options.
type Config struct {
	// EnvironmentURL is the tenant base URL, without trailing slash.
	EnvironmentURL string

	// APIToken is sent as the Api-Token authorization header.
	APIToken string

	// Insecure disables TLS certificate verification.
	Insecure bool

	// RunID tags every debug log line of this client; the orchestrator
	// passes the per-run UUID.
	RunID string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// HTTPClient overrides the default pooled client; used by tests.
	HTTPClient *http.Client

	// Retry overrides the default retry policy.
	Retry *retry.Config

	// RequestsPerSecond caps the request rate against the API.
	// Zero means the default of 10 req/s.
	RequestsPerSecond float64
}

// Client is the monitoring API client. It is not safe for concurrent
// use; the pipeline is strictly sequential.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	retryCfg retry.Config
	log      *slog.Logger

	// detailCache memoises per-problem detail lookups for the run.
	// Unbounded on purpose: its size is capped by the number of
	// distinct problems in the window.
	detailCache map[string]*SecurityProblem
}

// New creates a Client from the given configuration.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = httpclient.New(httpclient.WithInsecure(cfg.Insecure))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RunID != "" {
		logger = logger.With(slog.String("run_id", cfg.RunID))
	}
	retryCfg := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryCfg = *cfg.Retry
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.EnvironmentURL, "/"),
		token:       cfg.APIToken,
		http:        hc,
		limiter:     rate.NewLimiter(rate.Limit(rps), int(rps)),
		retryCfg:    retryCfg,
		log:         logger,
		detailCache: make(map[string]*SecurityProblem),
	}
}

// get performs one authenticated GET against the endpoint path and
// decodes the JSON response into out. Transient failures are retried;
// auth failures and other 4xx responses abort immediately.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	fullURL := c.baseURL + endpoint

	return retry.Do(ctx, c.retryCfg, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.Stop(err)
		}

		c.log.Debug("api call", slog.String("url", fullURL))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return retry.Stop(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Authorization", "Api-Token "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			var urlErr *url.Error
			if errors.As(err, &urlErr) && (urlErr.Timeout() || isConnectError(urlErr)) {
				// Worth a retry; surfaced as ErrUnreachable once the
				// attempt budget is spent.
				return fmt.Errorf("%w: %v", ErrUnreachable, err)
			}
			return retry.Stop(fmt.Errorf("%w: %v", ErrUnreachable, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			body, _ := iohelper.ReadBodySmall(resp.Body)
			c.log.Error("authentication rejected",
				slog.String("url", fullURL),
				slog.Int("status", resp.StatusCode),
				slog.String("response", string(body)))
			return retry.Stop(fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := iohelper.ReadBodySmall(resp.Body)
			apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: string(body)}
			if apiErr.Temporary() {
				return apiErr
			}
			return retry.Stop(apiErr)
		}

		data, err := iohelper.ReadBodyDefault(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			return retry.Stop(fmt.Errorf("decode %s response: %w", endpoint, err))
		}
		c.log.Debug("api call successful", slog.String("url", fullURL))
		return nil
	})
}

// isConnectError reports whether the url.Error wraps a connection-level
// failure (refused, reset) rather than a protocol error.
func isConnectError(err *url.Error) bool {
	s := err.Error()
	return strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "no such host")
}

// ListManagementZones retrieves all configured management zones.
func (c *Client) ListManagementZones(ctx context.Context) ([]ManagementZone, error) {
	c.log.Info("fetching management zones")
	var resp managementZonesResponse
	if err := c.get(ctx, "/api/config/v1/managementZones", &resp); err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// ListSecurityProblems retrieves every open security problem detected
// within [from, to], enriched with affected-entity and zone metadata.
// Pagination is followed until exhausted. An empty result is not an
// error; the caller treats it as nothing to report.
func (c *Client) ListSecurityProblems(ctx context.Context, from, to time.Time) ([]vuln.Record, error) {
	q := url.Values{}
	q.Set("from", fmt.Sprintf("%d", from.UnixMilli()))
	q.Set("to", fmt.Sprintf("%d", to.UnixMilli()))
	q.Set("fields", "+riskAssessment,+managementZones")
	q.Set("pageSize", fmt.Sprintf("%d", securityProblemPageSize))
	endpoint := "/api/v2/securityProblems?" + q.Encode()

	var problems []SecurityProblem
	for {
		var resp securityProblemsResponse
		if err := c.get(ctx, endpoint, &resp); err != nil {
			return nil, err
		}
		problems = append(problems, resp.SecurityProblems...)
		if resp.NextPageKey == "" {
			break
		}
		endpoint = "/api/v2/securityProblems?nextPageKey=" + url.QueryEscape(resp.NextPageKey)
	}

	c.log.Info("security problems fetched", slog.Int("count", len(problems)))

	records := make([]vuln.Record, 0, len(problems))
	for i := range problems {
		detail, err := c.GetSecurityProblemDetails(ctx, problems[i].SecurityProblemID)
		if err != nil {
			return nil, err
		}
		records = append(records, detail.Record())
	}
	return records, nil
}

// GetSecurityProblemDetails retrieves the detail document for one
// security problem, including affected and related entities. Results
// are memoised for the lifetime of the client.
func (c *Client) GetSecurityProblemDetails(ctx context.Context, id string) (*SecurityProblem, error) {
	if p, ok := c.detailCache[id]; ok {
		return p, nil
	}
	endpoint := "/api/v2/securityProblems/" + url.PathEscape(id) +
		"?fields=" + url.QueryEscape("+affectedEntities,+relatedEntities,+riskAssessment,+managementZones")

	var p SecurityProblem
	if err := c.get(ctx, endpoint, &p); err != nil {
		return nil, err
	}
	c.detailCache[id] = &p
	return &p, nil
}

// ListEntities retrieves the entities with the given IDs and returns a
// map from entity ID to display name. Used to resolve process-group
// and host names for the aggregation tables.
func (c *Client) ListEntities(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + id + `"`
	}
	q := url.Values{}
	q.Set("entitySelector", "entityId("+strings.Join(quoted, ",")+")")
	endpoint := "/api/v2/entities?" + q.Encode()

	for {
		var resp entitiesResponse
		if err := c.get(ctx, endpoint, &resp); err != nil {
			return nil, err
		}
		for _, e := range resp.Entities {
			if e.DisplayName != "" {
				names[e.EntityID] = e.DisplayName
			}
		}
		if resp.NextPageKey == "" {
			break
		}
		endpoint = "/api/v2/entities?nextPageKey=" + url.QueryEscape(resp.NextPageKey)
	}
	return names, nil
}
