package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"chat-threads/internal/domain/message"
	"chat-threads/internal/domain/thread"
	"chat-threads/internal/services"
	"chat-threads/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ThreadService is the part of services.ThreadService the handler needs.
type ThreadService interface {
	Create(ctx context.Context, userID int64, name string) (int64, error)
	List(ctx context.Context, userID int64) ([]thread.Thread, error)
	Delete(ctx context.Context, userID, threadID int64) error
	Update(ctx context.Context, userID, threadID int64, upd thread.Update) error
	DeleteMessagesOfThread(ctx context.Context, userID, threadID int64) error
	ListMessages(ctx context.Context, userID, threadID int64) ([]message.Message, error)
}

type ThreadHandler struct {
	service ThreadService
}

func NewThreadHandler(service ThreadService) *ThreadHandler {
	return &ThreadHandler{service: service}
}

func (h *ThreadHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	name := c.Query("name")
	if name == "" {
		var req httpdto.CreateThreadRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
			return
		}
		name = req.Name
	}
	if name == "" {
		name = uuid.New().String()
	}

	id, err := h.service.Create(c.Request.Context(), userID, name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.CreateThreadResponse{ThreadID: id}))
}

func (h *ThreadHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromThreadSlice(items)))
}

func (h *ThreadHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	threadID, ok := threadIDQuery(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, threadID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *ThreadHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	threadID, ok := threadIDQuery(c)
	if !ok {
		return
	}

	var req httpdto.UpdateThreadRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.service.Update(c.Request.Context(), userID, threadID, req.ToDomain()); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *ThreadHandler) DeleteMessages(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	threadID, ok := threadIDQuery(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMessagesOfThread(c.Request.Context(), userID, threadID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *ThreadHandler) ListMessages(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	threadID, ok := threadIDQuery(c)
	if !ok {
		return
	}

	items, err := h.service.ListMessages(c.Request.Context(), userID, threadID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromMessageSlice(items)))
}

// bindOptionalJSON decodes the body into obj and leaves obj untouched when
// there is no body. Chunked bodies report ContentLength -1 and are read.
func bindOptionalJSON(c *gin.Context, obj any) error {
	body := c.Request.Body
	if body == nil || body == http.NoBody || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func callerID(c *gin.Context) (int64, bool) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid token", "INVALID_TOKEN"))
		return 0, false
	}
	return userID, true
}

func threadIDQuery(c *gin.Context) (int64, bool) {
	threadID, err := strconv.ParseInt(c.Query("thread_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid thread id", "INVALID_REQUEST"))
		return 0, false
	}
	return threadID, true
}
