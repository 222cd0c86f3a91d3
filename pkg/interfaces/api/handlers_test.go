package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netstock/planner/pkg/application/services/planning"
	testhelpers "github.com/netstock/planner/pkg/application/services/testing"
	"github.com/netstock/planner/pkg/domain/entities"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := testhelpers.NewScenario()
	s.AddProduct("P1", "SUP-1")
	s.AddReplenishment("P1", "F1", 5, 10, 3, entities.ReplenishNever, "")
	s.AddSalesOrder("SO-1", "1", "P1", "F1", 8, 3)

	defaults := planning.DefaultOptions()
	defaults.Facilities = []entities.FacilityID{"F1"}

	handler := NewHandler(s.Planner(), nil, defaults)
	server := httptest.NewServer(NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func postPlan(t *testing.T, server *httptest.Server, body string) PlanResponse {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/plan", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var plan PlanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
	return plan
}

func TestRunPlan(t *testing.T) {
	server := newTestServer(t)

	plan := postPlan(t, server, "")
	assert.NotEmpty(t, plan.RunID)
	require.Len(t, plan.Requirements, 1)
	assert.Equal(t, "Purchase", plan.Requirements[0].Kind)
	assert.Equal(t, "13", plan.Requirements[0].Quantity)
	require.Len(t, plan.Commitments, 1)
	assert.Equal(t, "SO-1", plan.Commitments[0].OrderID)
}

func TestRunPlan_InvalidBody(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/plan", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunPlan_InvalidRounding(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/plan", "application/json",
		strings.NewReader(`{"final_rounding":"nearest"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "invalid run options", errResp.Error)
}

func TestGetRequirements_AfterRun(t *testing.T) {
	server := newTestServer(t)
	postPlan(t, server, "")

	resp, err := http.Get(server.URL + "/api/requirements")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reqs []RequirementDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reqs))
	require.Len(t, reqs, 1)
	assert.Equal(t, "F1", reqs[0].FacilityTo)
}

func TestGetRequirements_NoRunNoStore(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/requirements")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reqs []RequirementDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reqs))
	assert.Empty(t, reqs)
}

func TestGetLedger_FiltersByProduct(t *testing.T) {
	server := newTestServer(t)
	postPlan(t, server, "")

	resp, err := http.Get(server.URL + "/api/ledger?product=P1&facility=F1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []LedgerEventDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	assert.NotEmpty(t, events)
	for _, ev := range events {
		assert.Equal(t, "P1", ev.Product)
		assert.Equal(t, "F1", ev.Facility)
	}

	other, err := http.Get(server.URL + "/api/ledger?product=GHOST")
	require.NoError(t, err)
	defer other.Body.Close()
	var none []LedgerEventDTO
	require.NoError(t, json.NewDecoder(other.Body).Decode(&none))
	assert.Empty(t, none)
}

func TestGetLedger_NoRun(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/ledger")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
