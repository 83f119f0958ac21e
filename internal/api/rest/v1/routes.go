package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leonemendes/dw-mini/internal/domain/events"
	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/domain/tasks"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	eventService events.EventService,
	sourceService sources.SourceService,
	pipelineService tasks.PipelineService) {

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group(BasePath)

	// Events Routes
	eventHandler := NewEventHandler(eventService)
	v1.POST("/events", eventHandler.Create)
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.DELETE("/events/:id", eventHandler.DeleteByID)

	// Sources Routes
	sourceHandler := NewSourceHandler(sourceService, pipelineService)
	v1.POST("/sources", sourceHandler.Create)
	v1.GET("/sources", sourceHandler.List)
	v1.GET("/sources/:id", sourceHandler.GetByID)
	v1.DELETE("/sources/:id", sourceHandler.DeleteByID)
	v1.GET("/sources/:id/tables", sourceHandler.ListTables)
	v1.GET("/sources/:id/tables/:table/schema", sourceHandler.GetTableSchema)
	v1.POST("/sources/:id/tables/:table/schema", sourceHandler.DiscoverTableSchema)

	// Pipeline Routes
	pipelineHandler := NewPipelineHandler(pipelineService)
	v1.POST("/pipelines", pipelineHandler.Start)
	v1.GET("/tasks/:id", pipelineHandler.TaskStatus)
}
