package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/messaging-api/internal/domain/query"
	"github.com/shoplite/messaging-api/internal/infrastructure/auth"
	"github.com/shoplite/messaging-api/internal/interfaces/httpserver/handlers"
	"github.com/shoplite/messaging-api/internal/interfaces/httpserver/responses"
	"github.com/shoplite/messaging-api/internal/utils/platformerrors"
)

// RegisterConversationRoutes registers the conversation query routes.
func RegisterConversationRoutes(router gin.IRoutes, handler *handlers.MessageHandler) {
	router.GET("/conversations", listReceivers(handler))
	router.GET("/conversations/:peer_id/messages", getThread(handler))
}

// getThread godoc
// @Summary      Get a conversation thread
// @Description  Returns the messages exchanged with the peer, newest first.
// @Description  Viewing the thread marks the peer's unread messages as read.
// @Tags         Conversations
// @Produce      json
// @Param        peer_id path string true "Peer user ID"
// @Param        page query int false "Page (1-indexed)"
// @Param        limit query int false "Page size"
// @Success      200 {object} responses.MessagesResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /conversations/{peer_id}/messages [get]
func getThread(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c)
		if !ok {
			platformerrors.WriteUnauthorized(c, "missing identity")
			return
		}

		msgs, meta, err := handler.Thread(
			c.Request.Context(),
			id.UserID,
			c.Param("peer_id"),
			paginationFromQuery(c),
		)
		if err != nil {
			responses.HandleError(c, err, "failed to load conversation")
			return
		}

		c.JSON(http.StatusOK, responses.NewMessagesResponse(msgs, meta))
	}
}

// listReceivers godoc
// @Summary      List conversation counterparts
// @Description  Lists every identity of the opposite role with the most
// @Description  recent exchange and unread count, most recent first.
// @Tags         Conversations
// @Produce      json
// @Success      200 {object} responses.ReceiversResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /conversations [get]
func listReceivers(handler *handlers.MessageHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c)
		if !ok {
			platformerrors.WriteUnauthorized(c, "missing identity")
			return
		}

		receivers, err := handler.Receivers(c.Request.Context(), id.UserID, id.Role)
		if err != nil {
			responses.HandleError(c, err, "failed to list conversations")
			return
		}

		c.JSON(http.StatusOK, responses.ReceiversResponse{Receivers: receivers})
	}
}

// paginationFromQuery parses page/limit query parameters. Values are
// normalized downstream against per-endpoint defaults.
func paginationFromQuery(c *gin.Context) query.Pagination {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return query.Pagination{Page: page, Limit: limit}
}
