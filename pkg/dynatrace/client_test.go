package dynatrace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulnreport/vulnreport/pkg/retry"
)

// fastRetry keeps tests quick: no sleeps between attempts.
var fastRetry = retry.Config{MaxAttempts: 3, InitDelay: 0, MaxDelay: 0, Strategy: retry.Constant}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Config{
		EnvironmentURL:    srv.URL,
		APIToken:          "dt0c01.TEST",
		HTTPClient:        srv.Client(),
		Retry:             &fastRetry,
		RequestsPerSecond: 10000,
	})
	return c, srv
}

func TestListManagementZones(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/api/config/v1/managementZones", r.URL.Path)
		fmt.Fprint(w, `{"values":[{"id":"mz-1","name":"Payments"},{"id":"mz-2","name":"Web"}]}`)
	}))

	zones, err := c.ListManagementZones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "Payments", zones[0].Name)
	assert.Equal(t, "Api-Token dt0c01.TEST", gotAuth)
}

func TestListSecurityProblems_PaginatesAndEnriches(t *testing.T) {
	listCalls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v2/securityProblems" && r.URL.Query().Get("nextPageKey") == "page2":
			fmt.Fprint(w, `{"securityProblems":[{"securityProblemId":"SP-2"}]}`)
		case r.URL.Path == "/api/v2/securityProblems":
			listCalls++
			// First page carries the window query and a next page key.
			assert.NotEmpty(t, r.URL.Query().Get("from"))
			assert.NotEmpty(t, r.URL.Query().Get("to"))
			assert.Equal(t, "500", r.URL.Query().Get("pageSize"))
			fmt.Fprint(w, `{"securityProblems":[{"securityProblemId":"SP-1"}],"nextPageKey":"page2"}`)
		case r.URL.Path == "/api/v2/securityProblems/SP-1":
			fmt.Fprint(w, `{"securityProblemId":"SP-1","title":"Log4Shell","cveIds":["CVE-2021-44228"],
				"riskAssessment":{"riskLevel":"CRITICAL","riskScore":10},
				"firstSeenTimestamp":1756000000000,
				"managementZones":[{"id":"mz-1","name":"Payments"}],
				"affectedEntities":["PROCESS_GROUP-AAA1"],
				"relatedEntities":{"hosts":[{"id":"HOST-BBB1"}]}}`)
		case r.URL.Path == "/api/v2/securityProblems/SP-2":
			fmt.Fprint(w, `{"securityProblemId":"SP-2","title":"Spring4Shell",
				"riskAssessment":{"riskLevel":"HIGH","riskScore":8.1},
				"firstSeenTimestamp":1756100000000,
				"managementZones":[{"id":"mz-2","name":"Web"}]}`)
		default:
			t.Errorf("unexpected request: %s", r.URL)
		}
	}))

	to := time.Now()
	records, err := c.ListSecurityProblems(context.Background(), to.Add(-7*24*time.Hour), to)
	require.NoError(t, err)
	require.Len(t, records, 2, "both pages must be fetched")
	assert.Equal(t, 1, listCalls, "first page requested exactly once")

	assert.Equal(t, "SP-1", records[0].ID)
	assert.Equal(t, []string{"CVE-2021-44228"}, records[0].CVEs)
	assert.Equal(t, []string{"PROCESS_GROUP-AAA1"}, records[0].ProcessGroupIDs)
	assert.Equal(t, []string{"HOST-BBB1"}, records[0].HostIDs)
	require.Len(t, records[0].Zones, 1)
	assert.Equal(t, "Payments", records[0].Zones[0].Name)

	// SP-2 has no entities at all; the aggregator's unknown bucket
	// handles that downstream.
	assert.Empty(t, records[1].ProcessGroupIDs)
	assert.Empty(t, records[1].HostIDs)
}

func TestListSecurityProblems_EmptyResultIsNotAnError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"securityProblems":[]}`)
	}))

	records, err := c.ListSecurityProblems(context.Background(), time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGet_AuthFailureIsFatalAndNotRetried(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"code":401}}`, http.StatusUnauthorized)
	}))

	_, err := c.ListManagementZones(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, 1, calls, "401 must not be retried")
}

func TestGet_ForbiddenIsAuthError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing scope", http.StatusForbidden)
	}))

	_, err := c.ListManagementZones(context.Background())
	assert.ErrorIs(t, err, ErrAuth)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"values":[]}`)
	}))

	zones, err := c.ListManagementZones(context.Background())
	require.NoError(t, err)
	assert.Empty(t, zones)
	assert.Equal(t, 3, calls)
}

func TestGet_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad selector", http.StatusBadRequest)
	}))

	_, err := c.ListManagementZones(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, 1, calls, "4xx must not be retried")
}

func TestGet_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(Config{
		EnvironmentURL:    srv.URL,
		APIToken:          "dt0c01.TEST",
		Retry:             &fastRetry,
		RequestsPerSecond: 10000,
	})

	_, err := c.ListManagementZones(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestGetSecurityProblemDetails_Memoised(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"securityProblemId":"SP-1","title":"Log4Shell"}`)
	}))

	for i := 0; i < 3; i++ {
		p, err := c.GetSecurityProblemDetails(context.Background(), "SP-1")
		require.NoError(t, err)
		assert.Equal(t, "Log4Shell", p.Title)
	}
	assert.Equal(t, 1, calls, "details must be fetched once per problem")
}

func TestListEntities(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/entities", r.URL.Path)
		sel := r.URL.Query().Get("entitySelector")
		if sel != "" {
			assert.Contains(t, sel, `"PROCESS_GROUP-AAA1"`)
			fmt.Fprint(w, `{"entities":[{"entityId":"PROCESS_GROUP-AAA1","displayName":"payment-service"}],"nextPageKey":"p2"}`)
			return
		}
		fmt.Fprint(w, `{"entities":[{"entityId":"HOST-BBB1","displayName":"prod-web-01"}]}`)
	}))

	names, err := c.ListEntities(context.Background(), []string{"PROCESS_GROUP-AAA1", "HOST-BBB1"})
	require.NoError(t, err)
	assert.Equal(t, "payment-service", names["PROCESS_GROUP-AAA1"])
	assert.Equal(t, "prod-web-01", names["HOST-BBB1"])
}

func TestListEntities_NoIDsNoRequest(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty ID list")
	}))

	names, err := c.ListEntities(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)
}
