package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/robotctl/internal/domain"
	"github.com/bnema/robotctl/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return Client{BaseURL: server.URL + "/api", HTTPClient: server.Client()}
}

func TestSaveRoutePostsCompressedMovement(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/robot-positions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "starting", payload["fromKey"])
		assert.Equal(t, "table2", payload["toKey"])
		assert.JSONEq(t, `{"steps":[{"action":1,"seconds":5},{"action":3,"seconds":5}]}`, payload["movementJson"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	})

	movement := domain.BuildMovement(domain.Sequence{{Action: domain.ActionForward, Magnitude: 2}, {Action: domain.ActionForward, Magnitude: 3}, {Action: domain.ActionLeft}})
	err := client.SaveRoute(context.Background(), domain.PlaceStarting, domain.PlaceTable2, movement)
	require.NoError(t, err)
}

func TestSaveRouteReportsHTTPStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.SaveRoute(context.Background(), domain.PlaceStarting, domain.PlaceTable1, domain.Movement{})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestDeleteRouteSendsKeyInBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/robot-positions", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"fromKey":"table1","toKey":"table3"}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteRoute(context.Background(), domain.PlaceTable1, domain.PlaceTable3))
}

func TestListRoutesDecodesArray(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[{"fromKey":"starting","toKey":"table1","movementJson":"{\"steps\":[]}"}]`))
	})

	routes, err := client.ListRoutes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ports.RemoteRoute{{Origin: "starting", Destination: "table1", MovementJSON: `{"steps":[]}`}}, routes)
}

func TestCurrentPositionReadsPlainText(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/robot-positions/current", r.URL.Path)
		_, _ = w.Write([]byte("Table2\n"))
	})

	position, err := client.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Table2", position)
}

func TestUpdateCurrentPositionUsesQueryParameter(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/robot-positions/current", r.URL.Path)
		assert.Equal(t, "table3", r.URL.Query().Get("position"))
	})

	require.NoError(t, client.UpdateCurrentPosition(context.Background(), domain.PlaceTable3))
}

func TestRequestTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	})
	client.RequestTimeout = 20 * time.Millisecond

	err := client.UpdateCurrentPosition(context.Background(), domain.PlaceTable1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update current position")
}

func TestBuildAPIURLValidation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr string
	}{
		{name: "api prefix kept", baseURL: "http://robot.local:8080/api", want: "http://robot.local:8080/api/robot-positions"},
		{name: "trailing slash", baseURL: "http://robot.local:8080/api/", want: "http://robot.local:8080/api/robot-positions"},
		{name: "empty", baseURL: "", wantErr: "api base url is required"},
		{name: "bad scheme", baseURL: "ftp://robot.local", wantErr: "must use http or https"},
		{name: "missing host", baseURL: "http://", wantErr: "host is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildAPIURL(tt.baseURL, robotPositionsPath)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
