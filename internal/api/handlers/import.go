package handlers

import (
	"context"
	"net/http"

	"productposts/internal/importer"
	"productposts/internal/logger"
	"productposts/internal/models"

	"github.com/gin-gonic/gin"
)

type ImportRunner interface {
	Run(ctx context.Context, rawURL string) importer.Result
}

// ImportQueue hands URLs to the batch worker.
type ImportQueue interface {
	RequestImports(ctx context.Context, urls []string) (int, error)
}

type ImportHandler struct {
	importer ImportRunner
	queue    ImportQueue
	logger   *logger.Logger
}

// NewImportHandler builds the import endpoints. queue may be nil, in which
// case batch imports are unavailable.
func NewImportHandler(imp ImportRunner, queue ImportQueue, logger *logger.Logger) *ImportHandler {
	return &ImportHandler{
		importer: imp,
		queue:    queue,
		logger:   logger,
	}
}

type createImportRequest struct {
	URL string `json:"url" form:"url"`
}

type batchImportRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,max=100,dive,required"`
}

type importResponse struct {
	State   importer.State        `json:"state"`
	Status  importer.Status       `json:"status"`
	Notice  string                `json:"notice"`
	Message string                `json:"message"`
	URL     string                `json:"url"`
	PostID  string                `json:"post_id,omitempty"`
	Product *models.ProductRecord `json:"product,omitempty"`
}

var importHTTPStatus = map[importer.Status]int{
	importer.StatusNoURL:                http.StatusBadRequest,
	importer.StatusBadURL:               http.StatusBadRequest,
	importer.StatusBadKey:               http.StatusBadGateway,
	importer.StatusCreatePostFailed:     http.StatusInternalServerError,
	importer.StatusCreatePostSuccessful: http.StatusCreated,
}

func (h *ImportHandler) Create(c *gin.Context) {
	var req createImportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	res := h.importer.Run(c.Request.Context(), req.URL)

	code, ok := importHTTPStatus[res.Status]
	if !ok {
		code = http.StatusInternalServerError
	}
	if res.OK() {
		c.Header("Location", "/api/v1/products/"+res.PostID)
	}

	c.JSON(code, importResponse{
		State:   res.State,
		Status:  res.Status,
		Notice:  importer.Notice(res.Status),
		Message: res.Message(),
		URL:     res.URL,
		PostID:  res.PostID,
		Product: res.Record,
	})
}

func (h *ImportHandler) Batch(c *gin.Context) {
	if h.queue == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Batch imports are not configured"})
		return
	}

	var req batchImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	queued, err := h.queue.RequestImports(c.Request.Context(), req.URLs)
	if err != nil {
		h.logger.Error("Failed to queue %d imports: %v", len(req.URLs), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to queue imports"})
		return
	}
	if queued == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No URLs to import"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"queued": queued})
}
