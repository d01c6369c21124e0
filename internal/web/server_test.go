package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndyGlx/am-process-selector/internal/csvconfig"
	"github.com/AndyGlx/am-process-selector/internal/ctxlog"
	"github.com/AndyGlx/am-process-selector/internal/model"
	"github.com/AndyGlx/am-process-selector/internal/query"
)

const fixtureCSV = "pid,plabel,vid,vlabel,summary,sz|Size,sz|Size,clr|Color,clr|Color\n" +
	",,,,,s|Small,l|Large,r|Red,g|Green\n" +
	"P1,Proc One,V1,Variant One,First,x,,x,\n" +
	"P1,Proc One,V2,Variant Two,,,x,,x\n" +
	"P2,Proc Two,W1,Wide,,x,x,x,x\n"

func loadFixture(t *testing.T, text string) *model.Configuration {
	t.Helper()
	cfg, err := csvconfig.Parse(text)
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, load LoadFunc) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(query.New(loadFixture(t, fixtureCSV)), load, ctxlog.Discard())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHandleConfig(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, body := get(t, ts.URL+"/api/config")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got struct {
		Categories []model.Category `json:"categories"`
		Processes  []model.Process  `json:"processes"`
		Version    string           `json:"version"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Len(t, got.Categories, 2)
	assert.Len(t, got.Processes, 2)
	assert.Equal(t, model.Version, got.Version)
}

func TestHandleState(t *testing.T) {
	_, ts := newTestServer(t, nil)

	t.Run("no selection", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/api/state")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got stateResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.False(t, got.SelectionsActive)
		assert.False(t, got.ShowEmptyState)
		require.Len(t, got.Processes, 2)
		assert.Equal(t, query.StatusAwaiting, got.Processes[0].Status)
	})

	t.Run("selection narrows results", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/api/state?sel=sz=l&sel=clr=g")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got stateResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.True(t, got.SelectionsActive)
		assert.True(t, got.AnyMatch)
		assert.Equal(t, model.Selection{"sz": "l", "clr": "g"}, got.Selection)
		require.Len(t, got.Processes, 2)
		assert.Equal(t, query.CardVariantMatch, got.Processes[0].Class)
		require.Len(t, got.Filters, 2)
		assert.True(t, got.Filters[0].Options[1].Selected)
	})

	t.Run("malformed pair", func(t *testing.T) {
		resp, _ := get(t, ts.URL+"/api/state?sel=nope")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleDescribe(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, body := get(t, ts.URL+"/api/describe?process=P1&variant=0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var traits []query.Trait
	require.NoError(t, json.Unmarshal(body, &traits))
	require.Len(t, traits, 2)
	assert.Equal(t, "Size", traits[0].CategoryLabel)
	assert.Equal(t, []string{"Small"}, traits[0].OptionLabels)
	assert.Equal(t, []string{"Red"}, traits[1].OptionLabels)

	resp, _ = get(t, ts.URL+"/api/describe?process=P1&variant=9")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/describe?process=P1&variant=V1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/describe?process=P9")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/api/describe")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleDescribeRepeatedVariantID(t *testing.T) {
	cfg := loadFixture(t, ",,,,,sz|Size,sz|Size\n,,,,,s|Small,l|Large\n"+
		"P1,,V1,First,,x,\n"+
		"P1,,V1,Second,,,x\n")
	ts := httptest.NewServer(NewServer(query.New(cfg), nil, ctxlog.Discard()).Handler())
	t.Cleanup(ts.Close)

	_, body := get(t, ts.URL+"/api/state?sel=sz=l")
	var state stateResponse
	require.NoError(t, json.Unmarshal(body, &state))
	require.Len(t, state.Processes, 1)
	variants := state.Processes[0].Variants
	require.Len(t, variants, 2)
	assert.False(t, variants[0].Match)
	assert.True(t, variants[1].Match)

	// Each pill describes its own variant even though the ids collide
	for i, want := range []string{"Small", "Large"} {
		resp, body := get(t, fmt.Sprintf("%s/api/describe?process=P1&variant=%d", ts.URL, i))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var traits []query.Trait
		require.NoError(t, json.Unmarshal(body, &traits))
		require.Len(t, traits, 1)
		assert.Equal(t, []string{want}, traits[0].OptionLabels, "variant %d", i)
	}
}

func TestHandleHelpAndStatic(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, body := get(t, ts.URL+"/api/help")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), model.Version)
	assert.NotContains(t, string(body), "{{VERSION}}")

	resp, body = get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Process Selector")
}

func TestReload(t *testing.T) {
	next := loadFixture(t, fixtureCSV+"P3,Proc Three,Z1,Zed,,x,,x,\n")
	fail := false
	load := func(ctx context.Context) (*model.Configuration, error) {
		if fail {
			return nil, errors.New("source offline")
		}
		return next, nil
	}
	s, _ := newTestServer(t, load)
	before := s.Catalog()

	require.NoError(t, s.Reload(context.Background()))
	assert.NotSame(t, before, s.Catalog())
	assert.Len(t, s.Catalog().Configuration().Processes, 3)

	fail = true
	current := s.Catalog()
	require.Error(t, s.Reload(context.Background()))
	assert.Same(t, current, s.Catalog(), "failed reload keeps the previous catalog")
}

func TestReloadWithoutLoader(t *testing.T) {
	s, _ := newTestServer(t, nil)
	assert.Error(t, s.Reload(context.Background()))
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))

	var loads atomic.Int32
	load := func(ctx context.Context) (*model.Configuration, error) {
		loads.Add(1)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return csvconfig.Parse(string(data))
	}
	s, _ := newTestServer(t, load)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, path) }()

	// Keep writing until the watcher is registered and has picked a write up.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(fixtureCSV+"P3,Proc Three,Z1,Zed,,x,,x,\n"), 0o644)
		return loads.Load() > 0 && len(s.Catalog().Configuration().Processes) == 3
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchNoPaths(t *testing.T) {
	s, _ := newTestServer(t, nil)
	assert.NoError(t, s.Watch(context.Background()))
}
