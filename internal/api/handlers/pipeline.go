package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playmatatu/cueassist/internal/pipeline"
)

// PipelineStatus reports the counters, the turn holder and whether a table is known.
func PipelineStatus(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, p.Snapshot())
	}
}

// StopPipeline clears the run flag; all stages wind down within a poll interval.
func StopPipeline(p *pipeline.Pipeline, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wasRunning := p.Snapshot().Running
		p.Stop()
		log.Info().Bool("was_running", wasRunning).Str("ip", c.ClientIP()).Msg("pipeline stop requested")
		c.JSON(http.StatusOK, gin.H{"stopped": true, "was_running": wasRunning})
	}
}
