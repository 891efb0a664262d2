package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/babelbotio/babelbot/internal/channel"
)

// ChatHandler exposes the processing pipeline over plain HTTP, mainly for
// local testing without a chat platform account.
type ChatHandler struct {
	logger     *slog.Logger
	handler    channel.Handler
	chunkLimit int
}

func NewChatHandler(log *slog.Logger, handler channel.Handler, chunkLimit int) *ChatHandler {
	if log == nil {
		log = slog.Default()
	}
	if chunkLimit <= 0 {
		chunkLimit = 2000
	}
	return &ChatHandler{
		logger:     log.With(slog.String("handler", "chat")),
		handler:    handler,
		chunkLimit: chunkLimit,
	}
}

func (h *ChatHandler) Register(e *echo.Echo) {
	e.POST("/v1/chat", h.Chat)
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Chunks []string `json:"chunks"`
}

func (h *ChatHandler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.UserID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	r := &collectResponder{limit: h.chunkLimit}
	if err := h.handler.Process(c.Request().Context(), req.UserID, req.Message, r); err != nil {
		msg := r.errText
		if msg == "" {
			msg = "request failed"
		}
		return echo.NewHTTPError(http.StatusBadGateway, msg)
	}

	return c.JSON(http.StatusOK, chatResponse{Chunks: r.chunks})
}

// collectResponder buffers chunks for a synchronous HTTP reply. There is
// no deferral mechanism; Working is a no-op.
type collectResponder struct {
	limit   int
	chunks  []string
	errText string
}

func (r *collectResponder) ChunkLimit() int { return r.limit }

func (r *collectResponder) Working(ctx context.Context) (stop func()) {
	return func() {}
}

func (r *collectResponder) SendChunk(ctx context.Context, text string) error {
	r.chunks = append(r.chunks, text)
	return nil
}

func (r *collectResponder) SendError(ctx context.Context, text string) error {
	r.errText = text
	return nil
}
