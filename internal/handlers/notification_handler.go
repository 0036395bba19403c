package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/halkompleksi/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	productRepository      repositories.ProductRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, productRepo repositories.ProductRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		productRepository:      productRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
	g.GET("/notifications/request-products/:requestId", h.GetRequestProducts)
}

// GetNotifications returns the caller's paginated notifications plus the
// unread count. Pass unreadOnly=true to restrict to unread.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	unreadOnly := c.QueryParam("unreadOnly") == "true"

	notifications, total, err := h.notificationRepository.GetByUser(c.Request().Context(), currentUserID, unreadOnly, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	unreadCount, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": notifications,
		"total":         total,
		"totalPages":    int(math.Ceil(float64(total) / float64(limit))),
		"currentPage":   page,
		"unreadCount":   unreadCount,
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks an owned notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		if err == repositories.ErrNotificationNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// GetRequestProducts re-runs the search a fulfilled product request stood
// for, using the criteria stored on its product_available notification
func (h *NotificationHandler) GetRequestProducts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notification, err := h.notificationRepository.GetProductAvailable(c.Request().Context(), c.Param("requestId"), currentUserID)
	if err != nil {
		if err == repositories.ErrNotificationNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page, limit := pageParams(c, 20)
	skip := int64((page - 1) * limit)

	products, total, err := h.productRepository.FindRequestProducts(c.Request().Context(), notification.Data, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products":    products,
		"total":       total,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		"currentPage": page,
		"requestInfo": echo.Map{
			"category":          notification.Data.Category,
			"city":              notification.Data.City,
			"keywords":          notification.Data.Keywords,
			"originalRequestId": notification.ID,
		},
	})
}

// DeleteNotification removes an owned notification
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.notificationRepository.DeleteOwned(c.Request().Context(), c.Param("id"), currentUserID); err != nil {
		if err == repositories.ErrNotificationNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted"})
}
