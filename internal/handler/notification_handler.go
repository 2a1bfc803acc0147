package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/internal/service"
)

// NotificationHandler handles the notification bell and push subscription endpoints
type NotificationHandler struct {
	notifications *service.NotificationService
	vapidPublic   string
}

func NewNotificationHandler(notifications *service.NotificationService, vapidPublic string) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		vapidPublic:   vapidPublic,
	}
}

// VAPIDPublicKey godoc
// @Summary Get the VAPID public key
// @Description Public key the browser needs to create a push subscription
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]string
// @Router /notifications/vapid-public-key [get]
func (h *NotificationHandler) VAPIDPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": h.vapidPublic})
}

// Subscribe godoc
// @Summary Register a push subscription
// @Description Save or reactivate the browser's push subscription for the authenticated user
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SubscribeRequest true "Push subscription from the browser"
// @Success 200 {object} model.PushSubscription
// @Failure 400 {object} model.ErrorResponse
// @Router /notifications/subscribe [post]
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID := currentUserID(c)

	var req model.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.notifications.Subscribe(userID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Unsubscribe godoc
// @Summary Disable push delivery
// @Description Deactivate all of the user's push subscriptions (kept for instant re-enable)
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SuccessResponse
// @Router /notifications/subscribe [delete]
func (h *NotificationHandler) Unsubscribe(c *gin.Context) {
	userID := currentUserID(c)

	if err := h.notifications.SetPushEnabled(userID, false); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to unsubscribe"})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "push notifications disabled"})
}

// SetPushEnabled godoc
// @Summary Toggle push delivery
// @Description Bulk enable or disable all of the user's push subscriptions
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SetPushEnabledRequest true "Desired state"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /notifications/push-enabled [put]
func (h *NotificationHandler) SetPushEnabled(c *gin.Context) {
	userID := currentUserID(c)

	var req model.SetPushEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.notifications.SetPushEnabled(userID, *req.Enabled); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to update push preference"})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "push preference updated"})
}

// SubscriptionStatus godoc
// @Summary Get push subscription status
// @Description Whether the user has a subscription and whether it is active
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SubscriptionStatus
// @Router /notifications/subscription [get]
func (h *NotificationHandler) SubscriptionStatus(c *gin.Context) {
	userID := currentUserID(c)

	status, err := h.notifications.SubscriptionStatus(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to read subscription status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// Feed godoc
// @Summary Get the notification feed
// @Description Recent unread, full list, unread/read split, and counts in one read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.NotificationFeed
// @Router /notifications [get]
func (h *NotificationHandler) Feed(c *gin.Context) {
	userID := currentUserID(c)

	feed, err := h.notifications.Feed(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, feed)
}

// MarkAsRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid notification id"})
		return
	}

	if err := h.notifications.MarkRead(id); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to mark notification as read"})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "notification marked as read"})
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SuccessResponse
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := currentUserID(c)

	if err := h.notifications.MarkAllRead(userID); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "all notifications marked as read"})
}

// ClearRead godoc
// @Summary Delete all read notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SuccessResponse
// @Router /notifications/read [delete]
func (h *NotificationHandler) ClearRead(c *gin.Context) {
	userID := currentUserID(c)

	if err := h.notifications.ClearRead(userID); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to clear notifications"})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "read notifications cleared"})
}
