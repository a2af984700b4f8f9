package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gonum.org/v1/plot/vg"

	"github.com/playmatatu/cueassist/internal/models"
	"github.com/playmatatu/cueassist/internal/overlay"
)

// HistoryLister reads stored trajectories, newest first.
type HistoryLister interface {
	List(ctx context.Context, limit int) ([]models.TrajectoryRecord, error)
}

func LatestTrajectory(latest *overlay.LatestStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		traj, ok := latest.Latest()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no trajectory rendered yet"})
			return
		}
		c.Header("X-Trajectory-ID", traj.ID)
		c.JSON(http.StatusOK, traj)
	}
}

// LatestTrajectoryPNG draws the latest trajectory. Size comes from ?w= and ?h= in
// points, capped at 2000.
func LatestTrajectoryPNG(latest *overlay.LatestStore, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traj, ok := latest.Latest()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no trajectory rendered yet"})
			return
		}
		w := queryInt(c, "w", 640, 2000)
		h := queryInt(c, "h", 480, 2000)

		var buf bytes.Buffer
		if err := overlay.WritePNG(&buf, traj, vg.Length(w), vg.Length(h)); err != nil {
			log.Error().Err(err).Str("trajectory", traj.ID).Msg("failed to draw overlay")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to draw overlay"})
			return
		}
		c.Header("X-Trajectory-ID", traj.ID)
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

// ListTrajectories serves stored history. It answers 503 when no database is set up.
func ListTrajectories(history HistoryLister, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if history == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trajectory history is not configured"})
			return
		}
		limit := queryInt(c, "limit", 0, 1<<20)
		records, err := history.List(c.Request.Context(), limit)
		if err != nil {
			log.Error().Err(err).Msg("failed to list trajectories")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"trajectories": records, "count": len(records)})
	}
}

func queryInt(c *gin.Context, key string, def, max int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
