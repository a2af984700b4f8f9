package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playmatatu/cueassist/internal/geometry"
	"github.com/playmatatu/cueassist/internal/vision"
)

func GetScene(store *vision.SceneStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Get())
	}
}

// PutScene replaces the replay scene. A table, when given, must span an area.
func PutScene(store *vision.SceneStore, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var scene vision.Scene
		if err := c.ShouldBindJSON(&scene); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scene: " + err.Error()})
			return
		}
		if len(scene.Table) > 0 {
			if _, err := geometry.NewTable(scene.Table); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
		}
		for _, b := range scene.Balls {
			if b.Radius <= 0 {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "ball radius must be positive"})
				return
			}
		}

		store.Set(scene)
		log.Info().Int("table_points", len(scene.Table)).Bool("stick", scene.Stick != nil).
			Int("balls", len(scene.Balls)).Msg("scene replaced")
		c.JSON(http.StatusOK, scene)
	}
}
