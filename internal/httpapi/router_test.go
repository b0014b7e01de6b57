package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sharpen/internal/catalog"
	"github.com/alexanderramin/sharpen/internal/clock"
	"github.com/alexanderramin/sharpen/internal/contract"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/progress"
	"github.com/alexanderramin/sharpen/internal/repository"
	"github.com/alexanderramin/sharpen/internal/scoring"
	"github.com/alexanderramin/sharpen/internal/service"
	"github.com/alexanderramin/sharpen/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	clock  *clock.Manual
	log    repository.SessionLog
}

func newTestServer(t *testing.T, premium bool) *testServer {
	t.Helper()
	database := testutil.NewTestDB(t)
	log := repository.NewSQLiteSessionLog(database, testutil.NewTestUoW(database))
	clk := clock.NewManual(testutil.FixedNow)
	entitled := service.StaticEntitlement(premium)
	reg := prometheus.NewRegistry()

	sessions := service.NewSessionManager(
		catalog.MustDefault(),
		log,
		scoring.NewEngine(scoring.DefaultConfig()),
		entitled,
		service.WithClock(clk),
		service.WithCheckpointConfig(service.CheckpointConfig{}),
		service.WithObservers(service.NewMetricsObserver(reg)),
	)
	t.Cleanup(func() { _ = sessions.Close(context.Background()) })

	prog := service.NewProgressService(
		log,
		progress.NewCalculator(progress.DefaultReadinessConfig()),
		progress.NewGate(progress.DefaultGateConfig()),
		entitled,
		service.ProgressConfig{Location: time.UTC, Recommend: progress.DefaultRecommendConfig()},
	)

	router, err := NewRouter(Deps{
		Sessions: sessions,
		Progress: prog,
		Catalog:  catalog.MustDefault(),
		Entitled: entitled,
		UserID:   "default",
		Gatherer: reg,
	})
	require.NoError(t, err)
	return &testServer{router: router, clock: clk, log: log}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&reqBody).Encode(body)
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRouter_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "workout", "reference_id": "memory-match"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	started := decode[contract.SessionView](t, w)
	assert.Equal(t, domain.StateActive, started.State)
	assert.Equal(t, int64(60000), started.RemainingMs)

	srv.clock.Advance(20 * time.Second)

	w = srv.do(http.MethodPost, "/v1/sessions/"+started.ID+"/submissions", gin.H{"points": 300})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[domain.ScoreResult](t, w)
	assert.Equal(t, 70, res.Composite)

	w = srv.do(http.MethodPost, "/v1/sessions/"+started.ID+"/pause", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatePaused, decode[contract.SessionView](t, w).State)

	w = srv.do(http.MethodPost, "/v1/sessions/"+started.ID+"/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)

	srv.clock.Advance(10 * time.Second)

	w = srv.do(http.MethodPost, "/v1/sessions/"+started.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	entry := decode[contract.HistoryView](t, w)
	assert.Equal(t, 60, entry.Score)
	assert.Equal(t, domain.ReasonExplicit, entry.Reason)

	w = srv.do(http.MethodPost, "/v1/sessions/"+started.ID+"/complete", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = srv.do(http.MethodGet, "/v1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]contract.HistoryView](t, w), 1)
}

func TestRegisterValidators_SessionKind(t *testing.T) {
	require.NoError(t, RegisterValidators())
	require.NoError(t, RegisterValidators(), "registration is idempotent")

	err := binding.Validator.ValidateStruct(contract.StartSessionRequest{Kind: "yoga", ReferenceID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_kind")

	err = binding.Validator.ValidateStruct(contract.StartSessionRequest{Kind: domain.KindWorkout, ReferenceID: "memory-match"})
	assert.NoError(t, err)
}

func TestRouter_StartValidation(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "yoga", "reference_id": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "workout"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "workout", "reference_id": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ErrorMapping(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "workout", "reference_id": "focus-grid"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "access_denied", decode[map[string]string](t, w)["code"])

	w = srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "c", "reference_id": "breath-478"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "clarity_reset", "reference_id": "box-breathing"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = srv.do(http.MethodGet, "/v1/sessions/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "prompt_drill", "reference_id": "competitor-pricing"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[contract.SessionView](t, w).ID
	w = srv.do(http.MethodPost, "/v1/sessions/"+id+"/submissions", gin.H{"text": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ActiveAndAbandon(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodGet, "/v1/sessions?kind=workout", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "workout", "reference_id": "memory-match"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[contract.SessionView](t, w).ID

	w = srv.do(http.MethodGet, "/v1/sessions?kind=w", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode[contract.SessionView](t, w).ID)

	w = srv.do(http.MethodDelete, "/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(http.MethodGet, "/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ProgressAndAccess(t *testing.T) {
	srv := newTestServer(t, false)
	require.NoError(t, srv.log.AppendHistoryEntry(context.Background(), testutil.NewTestHistoryEntry("breath-478")))

	w := srv.do(http.MethodGet, "/v1/progress?now="+testutil.FixedNow.Format(time.RFC3339), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[contract.ProgressResponse](t, w)
	assert.Equal(t, 1, resp.TotalSessions)
	assert.Equal(t, 1, resp.Streak.CurrentDays)
	assert.Equal(t, 5, resp.Readiness.Levels[domain.CategoryMentalClarity])

	w = srv.do(http.MethodGet, "/v1/progress?now=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(http.MethodGet, "/v1/access/teleportation", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CatalogMarksLockedActivities(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodGet, "/v1/catalog?kind=clarity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]contract.ActivityView](t, w)
	require.Len(t, views, 4)
	for _, v := range views {
		assert.Equal(t, domain.KindClarityReset, v.Kind)
		assert.Equal(t, v.Premium, v.Locked, v.ReferenceID)
	}
}

func TestRouter_InterruptedSessions(t *testing.T) {
	srv := newTestServer(t, false)
	cp := testutil.NewTestCheckpoint("breath-478")
	require.NoError(t, srv.log.SaveCheckpoint(context.Background(), cp))

	w := srv.do(http.MethodGet, "/v1/interrupted", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Checkpoint](t, w), 1)

	w = srv.do(http.MethodPost, "/v1/interrupted/"+cp.SessionID+"/finalize", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.ReasonRecovered, decode[contract.HistoryView](t, w).Reason)

	w = srv.do(http.MethodDelete, "/v1/interrupted/"+cp.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, false)

	w := srv.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	srv.do(http.MethodPost, "/v1/sessions", gin.H{"kind": "workout", "reference_id": "memory-match"})
	w = srv.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "sharpen_service_use_cases_total"))
}
