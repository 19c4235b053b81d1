package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obseasd/monadarena/arena/live"
)

func TestRouterHealthAndLeaderboard(t *testing.T) {
	mgr, _ := testManager(t, 3)
	hub := live.NewHub()
	go hub.Run()

	srv := httptest.NewServer(Router(nil, mgr, hub))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, true, health["ok"])

	resp, err = http.Get(srv.URL + "/api/leaderboard")
	require.NoError(t, err)
	defer resp.Body.Close()

	var standings []Standing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&standings))
	assert.Len(t, standings, 3)
}

func TestRouterMatchesNeedDatabase(t *testing.T) {
	mgr, _ := testManager(t, 2)
	hub := live.NewHub()
	go hub.Run()

	srv := httptest.NewServer(Router(nil, mgr, hub))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/matches")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/matches/not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
