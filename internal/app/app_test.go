package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klokku/gridplanner/internal/config"
	"github.com/klokku/gridplanner/internal/utils"
	"github.com/klokku/gridplanner/pkg/grid"
	"github.com/klokku/gridplanner/pkg/interaction"
	"github.com/klokku/gridplanner/pkg/period"
	"github.com/klokku/gridplanner/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T, kv persistence.KeyValueStore) (http.Handler, *Dependencies) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Frontend.Enabled = false
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)}

	deps, err := BuildDependencies(context.Background(), cfg, kv, clock)
	require.NoError(t, err)
	t.Cleanup(deps.Close)
	return NewRouter(deps, cfg), deps
}

func call(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, &payload))
	return rr
}

func createEvent(t *testing.T, router http.Handler) interaction.EventDTO {
	t.Helper()
	cell := map[string]float64{"left": 100, "top": 200, "width": 80, "height": 64}
	rr := call(t, router, http.MethodPost, "/api/interaction/pointerdown",
		map[string]any{"pointerX": 110, "cell": cell, "resource": 2, "day": 5})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = call(t, router, http.MethodPost, "/api/interaction/pointermove", map[string]any{"pointerX": 150})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = call(t, router, http.MethodPost, "/api/interaction/pointerup", map[string]any{"pointerX": 190})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created interaction.EventDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	return created
}

func TestApplication_CreationDragIsPersisted(t *testing.T) {
	// given
	kv := persistence.NewMemoryStore()
	router, deps := setupApp(t, kv)

	// when
	created := createEvent(t, router)

	// then
	assert.Equal(t, 2, created.Resource)
	assert.Equal(t, 5, created.Day)
	assert.Equal(t, 10.0, created.Start)
	assert.Equal(t, 80.0, created.Width)
	assert.Equal(t, 1.25, created.StartTime)
	assert.Equal(t, 11.25, created.EndTime)
	assert.Equal(t, "1:15 AM", created.StartLabel)
	assert.Equal(t, 3, created.Month)
	assert.Equal(t, 2025, created.Year)
	assert.Equal(t, 1, deps.Store.Len())

	restored := persistence.NewRepository(kv).LoadEvents(context.Background())
	require.Len(t, restored, 1)
	assert.Equal(t, created.Id, restored[0].Id)
}

func TestApplication_StateSurvivesRestart(t *testing.T) {
	kv := persistence.NewMemoryStore()
	router, _ := setupApp(t, kv)
	created := createEvent(t, router)
	rr := call(t, router, http.MethodPost, "/api/period/next", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// when
	restartedRouter, deps := setupApp(t, kv)

	// then
	assert.Equal(t, 1, deps.Store.Len())
	rr = call(t, restartedRouter, http.MethodGet, "/api/period", nil)
	var selection period.SelectionDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&selection))
	assert.Equal(t, "2025-04-01", selection.Date)

	rr = call(t, restartedRouter, http.MethodGet, "/api/event?year=2025&month=3", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var events []interaction.EventDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, created.Id, events[0].Id)
}

func TestApplication_EditAndDelete(t *testing.T) {
	kv := persistence.NewMemoryStore()
	router, deps := setupApp(t, kv)
	created := createEvent(t, router)
	eventPath := fmt.Sprintf("/api/event/%d", created.Id)

	t.Run("resize", func(t *testing.T) {
		rr := call(t, router, http.MethodPut, eventPath+"/size",
			map[string]any{"width": 40, "start": 16, "startTime": 2, "endTime": 7})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		e, ok := deps.Store.Get(created.Id)
		require.True(t, ok)
		assert.Equal(t, 40.0, e.Width)
		assert.Equal(t, 2.0, e.StartTime)
	})

	t.Run("move", func(t *testing.T) {
		rr := call(t, router, http.MethodPut, eventPath+"/position",
			map[string]any{"start": 24, "resource": 4, "day": 9})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		e, _ := deps.Store.Get(created.Id)
		assert.Equal(t, 4, e.Resource)
		assert.Equal(t, 9, e.Day)
	})

	t.Run("grid shows the event", func(t *testing.T) {
		rr := call(t, router, http.MethodGet, "/api/grid", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var g grid.Grid
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&g))
		assert.Len(t, g.Rows, 15)
		assert.Len(t, g.Columns, 31)
		assert.True(t, g.Columns[13].IsToday)
		require.Len(t, g.Rows[4].Cells[9].Events, 1)
		assert.Equal(t, created.Id, g.Rows[4].Cells[9].Events[0].Id)
	})

	t.Run("export contains the event", func(t *testing.T) {
		rr := call(t, router, http.MethodGet, "/api/export/ics", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), fmt.Sprintf("%d@gridplanner", created.Id))
	})

	t.Run("cancelled deletion keeps the event", func(t *testing.T) {
		rr := call(t, router, http.MethodPost, eventPath+"/deletion", nil)
		require.Equal(t, http.StatusAccepted, rr.Code)
		rr = call(t, router, http.MethodDelete, "/api/deletion", nil)
		require.Equal(t, http.StatusNoContent, rr.Code)

		assert.Equal(t, 1, deps.Store.Len())
	})

	t.Run("confirmed deletion removes the event", func(t *testing.T) {
		rr := call(t, router, http.MethodPost, eventPath+"/deletion", nil)
		require.Equal(t, http.StatusAccepted, rr.Code)
		rr = call(t, router, http.MethodPost, "/api/deletion/confirm", nil)
		require.Equal(t, http.StatusNoContent, rr.Code)

		assert.Zero(t, deps.Store.Len())
		assert.Empty(t, persistence.NewRepository(kv).LoadEvents(context.Background()))
	})
}

func TestApplication_RequestId(t *testing.T) {
	router, _ := setupApp(t, persistence.NewMemoryStore())

	rr := call(t, router, http.MethodGet, "/api/period", nil)
	assert.NotEmpty(t, rr.Header().Get(requestIdHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/period", nil)
	req.Header.Set(requestIdHeader, "abc")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get(requestIdHeader))
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Storage.Path = t.TempDir()

		kv, closeStore, err := OpenStore(ctx, cfg)
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &persistence.FileStore{}, kv)
	})

	t.Run("memory", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Storage.Backend = config.BackendMemory

		kv, closeStore, err := OpenStore(ctx, cfg)
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &persistence.MemoryStore{}, kv)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Storage.Backend = "tape"

		_, _, err := OpenStore(ctx, cfg)
		assert.Error(t, err)
	})
}
