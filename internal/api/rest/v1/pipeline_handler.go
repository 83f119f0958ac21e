package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leonemendes/dw-mini/internal/domain/tasks"
)

// PipelineHandler defines the interface for handling pipeline-related operations
type PipelineHandler interface {
	Start(ctx *gin.Context)
	TaskStatus(ctx *gin.Context)
}

// pipelineHandler struct holds the services
type pipelineHandler struct {
	pipelineService tasks.PipelineService
}

// NewPipelineHandler creates a new PipelineHandler
func NewPipelineHandler(pipelineService tasks.PipelineService) PipelineHandler {
	return &pipelineHandler{
		pipelineService: pipelineService,
	}
}

// Start queues a full pipeline run for a data source
func (handler *pipelineHandler) Start(ctx *gin.Context) {
	var request StartPipelineRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	taskID, err := handler.pipelineService.StartPipeline(ctx, request.SourceID)
	if err != nil {
		if isNotFound(err) {
			ctx.JSON(http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("error starting pipeline: %v", err)))
		return
	}

	ctx.JSON(http.StatusAccepted, QueuedResponse{TaskID: taskID, Status: "queued"})
}

// TaskStatus reports the state of an asynchronous task
func (handler *pipelineHandler) TaskStatus(ctx *gin.Context) {
	taskID := ctx.Param("id")

	status, err := handler.pipelineService.TaskStatus(ctx, taskID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("error fetching task status: %v", err)))
		return
	}

	ctx.JSON(http.StatusOK, TaskStatusResponse{
		TaskID: status.TaskID,
		Status: status.State,
		Detail: status.Detail,
		Result: status.Result,
	})
}
