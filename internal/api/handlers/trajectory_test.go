package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmatatu/cueassist/internal/models"
)

type fakeHistory struct {
	gotLimit int
	records  []models.TrajectoryRecord
	err      error
}

func (f *fakeHistory) List(_ context.Context, limit int) ([]models.TrajectoryRecord, error) {
	f.gotLimit = limit
	return f.records, f.err
}

func serve(h gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/t", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestListTrajectories(t *testing.T) {
	h := &fakeHistory{records: []models.TrajectoryRecord{{ID: "a"}, {ID: "b"}}}

	w := serve(ListTrajectories(h, zerolog.Nop()), "/t?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, h.gotLimit)
	assert.Contains(t, w.Body.String(), `"count":2`)

	serve(ListTrajectories(h, zerolog.Nop()), "/t?limit=abc")
	assert.Equal(t, 0, h.gotLimit, "bad limit falls back to the store default")

	h.err = errors.New("db down")
	w = serve(ListTrajectories(h, zerolog.Nop()), "/t")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestQueryInt(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/t?w=5000&h=-1&x=12", nil)

	assert.Equal(t, 2000, queryInt(c, "w", 640, 2000))
	assert.Equal(t, 480, queryInt(c, "h", 480, 2000))
	assert.Equal(t, 12, queryInt(c, "x", 1, 100))
	assert.Equal(t, 7, queryInt(c, "missing", 7, 100))
}
