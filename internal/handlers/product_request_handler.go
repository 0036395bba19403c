package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/halkompleksi/backend/internal/matching"
	"github.com/halkompleksi/backend/internal/models"
	"github.com/halkompleksi/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ProductRequestHandler handles buyers' standing "notify me" requests
type ProductRequestHandler struct {
	lifecycle *matching.Lifecycle
}

// NewProductRequestHandler creates a new ProductRequestHandler
func NewProductRequestHandler(lifecycle *matching.Lifecycle) *ProductRequestHandler {
	return &ProductRequestHandler{lifecycle: lifecycle}
}

// RegisterProductRequestRoutes registers product request routes
func (h *ProductRequestHandler) RegisterProductRequestRoutes(g *echo.Group) {
	g.POST("/notifications/product-request", h.CreateProductRequest)
	g.GET("/notifications/product-requests", h.GetProductRequests)
	g.DELETE("/notifications/product-requests/:id", h.DeleteProductRequest)
}

// CreateProductRequest creates a new request or merges into the caller's
// existing active request for the same category
func (h *ProductRequestHandler) CreateProductRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var input models.CreateProductRequestInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, updated, err := h.lifecycle.Create(c.Request().Context(), currentUserID, input)
	if err != nil {
		if err == matching.ErrCategoryRequired {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := "Product request created. You will be notified when matching products are added."
	if updated {
		message = "Product request updated"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": message,
		"request": request,
	})
}

// GetProductRequests returns the caller's active requests, newest first
func (h *ProductRequestHandler) GetProductRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.lifecycle.ListActive(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}

// DeleteProductRequest removes a request the caller owns. Foreign and
// nonexistent ids both answer not-found.
func (h *ProductRequestHandler) DeleteProductRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.lifecycle.Delete(c.Request().Context(), currentUserID, c.Param("id")); err != nil {
		if err == repositories.ErrRequestNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Product request deleted"})
}
