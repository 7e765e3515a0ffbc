package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/messaging-api/internal/infrastructure/auth"
	"github.com/shoplite/messaging-api/internal/interfaces/httpserver/handlers"
	"github.com/shoplite/messaging-api/internal/interfaces/httpserver/responses"
	"github.com/shoplite/messaging-api/internal/utils/platformerrors"
)

// RegisterNotificationRoutes registers the notification query routes.
func RegisterNotificationRoutes(router gin.IRoutes, handler *handlers.NotificationHandler) {
	router.GET("/notifications", listNotifications(handler))
	router.PATCH("/notifications/read", readNotifications(handler))
	router.DELETE("/notifications", deleteNotifications(handler))
}

// listNotifications godoc
// @Summary      List notifications
// @Description  Returns the user's notifications newest first, with total
// @Description  and unread counts. Senders carry their public profile.
// @Tags         Notifications
// @Produce      json
// @Param        page query int false "Page (1-indexed)"
// @Param        limit query int false "Page size"
// @Success      200 {object} responses.NotificationsResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [get]
func listNotifications(handler *handlers.NotificationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c)
		if !ok {
			platformerrors.WriteUnauthorized(c, "missing identity")
			return
		}

		rows, meta, unread, err := handler.List(c.Request.Context(), id.UserID, paginationFromQuery(c))
		if err != nil {
			responses.HandleError(c, err, "failed to list notifications")
			return
		}

		c.JSON(http.StatusOK, responses.NewNotificationsResponse(rows, meta, unread))
	}
}

// readNotifications godoc
// @Summary      Mark notifications read
// @Description  Marks one notification read, or all of the user's
// @Description  notifications when notification_id is omitted. Idempotent.
// @Tags         Notifications
// @Produce      json
// @Param        notification_id query string false "Notification ID"
// @Success      200 {object} responses.StatusResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/read [patch]
func readNotifications(handler *handlers.NotificationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c)
		if !ok {
			platformerrors.WriteUnauthorized(c, "missing identity")
			return
		}

		if err := handler.MarkRead(c.Request.Context(), id.UserID, optionalID(c)); err != nil {
			responses.HandleError(c, err, "failed to mark notifications read")
			return
		}

		c.JSON(http.StatusOK, responses.StatusResponse{Status: "ok"})
	}
}

// deleteNotifications godoc
// @Summary      Delete notifications
// @Description  Deletes one notification, or all of the user's
// @Description  notifications when notification_id is omitted. Idempotent.
// @Tags         Notifications
// @Produce      json
// @Param        notification_id query string false "Notification ID"
// @Success      200 {object} responses.StatusResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [delete]
func deleteNotifications(handler *handlers.NotificationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c)
		if !ok {
			platformerrors.WriteUnauthorized(c, "missing identity")
			return
		}

		if err := handler.Delete(c.Request.Context(), id.UserID, optionalID(c)); err != nil {
			responses.HandleError(c, err, "failed to delete notifications")
			return
		}

		c.JSON(http.StatusOK, responses.StatusResponse{Status: "ok"})
	}
}

func optionalID(c *gin.Context) *string {
	if id := c.Query("notification_id"); id != "" {
		return &id
	}
	return nil
}
