package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thinhtt264/snaplet-core-service/internal/metrics"
	"github.com/thinhtt264/snaplet-core-service/internal/mocks"
	"github.com/thinhtt264/snaplet-core-service/internal/models"
)

func setupRelationshipMetricsRouter(handler *RelationshipHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/relationships", handler.Create)
	r.PATCH("/relationships/:relationshipId", handler.Update)
	r.DELETE("/relationships/:relationshipId", handler.Delete)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func fetchMetrics(t *testing.T, router *gin.Engine) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func metricValue(metricsBody, name, status string) (float64, bool) {
	target := name
	if status != "" {
		target = name + `{status="` + status + `"}`
	}
	for _, line := range strings.Split(metricsBody, "\n") {
		if strings.HasPrefix(line, target+" ") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return 0, false
			}
			value, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return 0, false
			}
			return value, true
		}
	}
	return 0, false
}

func assertMetricIncrement(t *testing.T, router *gin.Engine, name, status string, call func()) {
	t.Helper()
	before, _ := metricValue(fetchMetrics(t, router), name, status)
	call()
	after, found := metricValue(fetchMetrics(t, router), name, status)
	require.True(t, found)
	require.Greater(t, after, before)
}

func TestRelationshipCreateMetricsFailed(t *testing.T) {
	metrics.RegisterRelationshipMetrics()
	handler := newRelationshipHandler(new(mocks.MockRelationshipRepository))
	router := setupRelationshipMetricsRouter(handler, "a1")

	assertMetricIncrement(t, router, "relationship_requests_total", "failed", func() {
		req := httptest.NewRequest(http.MethodPost, "/relationships", bytes.NewBufferString(`{"target_user_id":"a1"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRelationshipCreateMetricsSuccess(t *testing.T) {
	metrics.RegisterRelationshipMetrics()
	repo := new(mocks.MockRelationshipRepository)
	repo.On("FindExisting", mock.Anything, "a1", "b2").Return(nil, nil)
	repo.On("Create", mock.Anything, "a1", "b2", "a1").
		Return(&models.Relationship{ID: "rel-1", LowUserID: "a1", HighUserID: "b2", Status: models.StatusPending}, nil)

	handler := newRelationshipHandler(repo)
	router := setupRelationshipMetricsRouter(handler, "a1")

	assertMetricIncrement(t, router, "relationship_requests_total", "success", func() {
		req := httptest.NewRequest(http.MethodPost, "/relationships", bytes.NewBufferString(`{"target_user_id":"b2"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestRelationshipLimitHitMetric(t *testing.T) {
	metrics.RegisterRelationshipMetrics()
	repo := new(mocks.MockRelationshipRepository)
	repo.On("GetByID", mock.Anything, "rel-1").
		Return(&models.Relationship{ID: "rel-1", LowUserID: "a1", HighUserID: "b2", Status: models.StatusPending}, nil)
	repo.On("CountForBothUsers", mock.Anything, "a1", "b2", models.StatusAccepted).
		Return(12, 50, nil)

	handler := newRelationshipHandler(repo)
	router := setupRelationshipMetricsRouter(handler, "b2")

	assertMetricIncrement(t, router, "relationship_limit_hits_total", "", func() {
		req := httptest.NewRequest(http.MethodPatch, "/relationships/rel-1", bytes.NewBufferString(`{"status":"accepted"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestRelationshipDeleteMetricsFailed(t *testing.T) {
	metrics.RegisterRelationshipMetrics()
	repo := new(mocks.MockRelationshipRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, models.ErrRelationshipNotFound)

	handler := newRelationshipHandler(repo)
	router := setupRelationshipMetricsRouter(handler, "a1")

	assertMetricIncrement(t, router, "relationship_deletes_total", "failed", func() {
		req := httptest.NewRequest(http.MethodDelete, "/relationships/missing", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
