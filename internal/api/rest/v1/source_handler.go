package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/domain/tasks"
)

// SourceHandler defines the interface for handling data-source-related operations
type SourceHandler interface {
	Create(ctx *gin.Context)
	List(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
	ListTables(ctx *gin.Context)
	GetTableSchema(ctx *gin.Context)
	DiscoverTableSchema(ctx *gin.Context)
}

// sourceHandler struct holds the services
type sourceHandler struct {
	sourceService   sources.SourceService
	pipelineService tasks.PipelineService
}

// NewSourceHandler creates a new SourceHandler
func NewSourceHandler(sourceService sources.SourceService, pipelineService tasks.PipelineService) SourceHandler {
	return &sourceHandler{
		sourceService:   sourceService,
		pipelineService: pipelineService,
	}
}

// Create registers a new data source
func (handler *sourceHandler) Create(ctx *gin.Context) {
	var request CreateSourceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	source := &sources.DataSource{
		Name:             request.Name,
		SourceType:       request.SourceType,
		ConnectionConfig: request.ConnectionConfig,
	}

	created, err := handler.sourceService.Create(ctx, source)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("error creating data source: %v", err)))
		return
	}

	ctx.JSON(http.StatusCreated, newSourceResponse(created))
}

// List fetches all registered data sources
func (handler *sourceHandler) List(ctx *gin.Context) {
	sourceList, err := handler.sourceService.List(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("error listing data sources: %v", err)))
		return
	}

	responses := make([]SourceResponse, len(sourceList))
	for i, source := range sourceList {
		responses[i] = newSourceResponse(source)
	}

	ctx.JSON(http.StatusOK, responses)
}

// GetByID fetches a single data source by ID
func (handler *sourceHandler) GetByID(ctx *gin.Context) {
	sourceID := ctx.Param("id")

	source, err := handler.sourceService.GetByID(ctx, sourceID)
	if err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, errorResponse(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, newSourceResponse(source))
}

// DeleteByID removes a data source by ID
func (handler *sourceHandler) DeleteByID(ctx *gin.Context) {
	sourceID := ctx.Param("id")

	if err := handler.sourceService.DeleteByID(ctx, sourceID); err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, errorResponse(err.Error()))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListTables lists tables available in the source database
func (handler *sourceHandler) ListTables(ctx *gin.Context) {
	sourceID := ctx.Param("id")

	tables, err := handler.sourceService.ListTables(ctx, sourceID)
	if err != nil {
		if isNotFound(err) {
			ctx.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		ctx.JSON(http.StatusBadGateway, errorResponse(fmt.Sprintf("error listing tables: %v", err)))
		return
	}

	ctx.JSON(http.StatusOK, TableListResponse{Tables: tables})
}

// GetTableSchema retrieves the schema of one source table synchronously
func (handler *sourceHandler) GetTableSchema(ctx *gin.Context) {
	sourceID := ctx.Param("id")
	tableName := ctx.Param("table")

	schema, err := handler.sourceService.GetTableSchema(ctx, sourceID, tableName)
	if err != nil {
		if isNotFound(err) {
			ctx.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		ctx.JSON(http.StatusBadGateway, errorResponse(fmt.Sprintf("error reading table schema: %v", err)))
		return
	}

	ctx.JSON(http.StatusOK, schema)
}

// DiscoverTableSchema queues asynchronous schema discovery for one source table
func (handler *sourceHandler) DiscoverTableSchema(ctx *gin.Context) {
	sourceID := ctx.Param("id")
	tableName := ctx.Param("table")

	taskID, err := handler.pipelineService.DiscoverSchema(ctx, sourceID, tableName)
	if err != nil {
		if isNotFound(err) {
			ctx.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("error queueing schema discovery: %v", err)))
		return
	}

	ctx.JSON(http.StatusAccepted, QueuedResponse{TaskID: taskID, Status: "queued"})
}
