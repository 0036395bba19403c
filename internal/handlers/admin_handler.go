package handlers

import (
	"log"
	"math"
	"net/http"

	"github.com/halkompleksi/backend/internal/matching"
	"github.com/halkompleksi/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// AdminHandler handles listing moderation. Approving a product triggers the
// buyer matching fan-out.
type AdminHandler struct {
	productRepository repositories.ProductRepository
	engine            *matching.Engine
	dispatcher        *matching.Dispatcher
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(productRepo repositories.ProductRepository, engine *matching.Engine, dispatcher *matching.Dispatcher) *AdminHandler {
	return &AdminHandler{
		productRepository: productRepo,
		engine:            engine,
		dispatcher:        dispatcher,
	}
}

// RegisterAdminRoutes registers admin moderation routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/products/pending", h.GetPendingProducts)
	g.PUT("/products/:id/approve", h.ApproveProduct)
	g.PUT("/products/:id/reject", h.RejectProduct)
	g.PUT("/products/:id/feature", h.FeatureProduct)
}

// GetPendingProducts returns products awaiting review
func (h *AdminHandler) GetPendingProducts(c echo.Context) error {
	page, limit := pageParams(c, 20)
	skip := int64((page - 1) * limit)

	products, total, err := h.productRepository.GetPendingProducts(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products":    products,
		"total":       total,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		"currentPage": page,
	})
}

// ApproveProduct approves a pending listing, notifies the seller and fans
// out product_available notifications to matching buyers
func (h *AdminHandler) ApproveProduct(c echo.Context) error {
	claims := getUserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	product, err := h.productRepository.SetApproval(c.Request().Context(), c.Param("id"), claims.UserID, true, "")
	if err != nil {
		if err == repositories.ErrProductNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ctx := c.Request().Context()
	if err := h.dispatcher.NotifyProductApproved(ctx, product.SellerID, product.ID, product.Title); err != nil {
		log.Printf("admin: approve notification for seller %d: %v", product.SellerID, err)
	}

	notified, err := h.dispatcher.NotifyMatchingBuyers(ctx, h.engine, product)
	if err != nil {
		log.Printf("admin: matching fan-out for product %s: %v", product.ID.Hex(), err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Product approved",
		"product":        product,
		"buyersNotified": notified,
	})
}

// RejectProduct rejects a pending listing and notifies the seller with the
// reason
func (h *AdminHandler) RejectProduct(c echo.Context) error {
	claims := getUserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	product, err := h.productRepository.SetApproval(c.Request().Context(), c.Param("id"), claims.UserID, false, req.Reason)
	if err != nil {
		if err == repositories.ErrProductNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.dispatcher.NotifyProductRejected(c.Request().Context(), product.SellerID, product.ID, product.Title, req.Reason); err != nil {
		log.Printf("admin: reject notification for seller %d: %v", product.SellerID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product rejected",
		"product": product,
	})
}

// FeatureProduct flags a listing as featured and notifies the seller
func (h *AdminHandler) FeatureProduct(c echo.Context) error {
	product, err := h.productRepository.SetFeatured(c.Request().Context(), c.Param("id"), true)
	if err != nil {
		if err == repositories.ErrProductNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.dispatcher.NotifyProductFeatured(c.Request().Context(), product.SellerID, product.ID, product.Title); err != nil {
		log.Printf("admin: feature notification for seller %d: %v", product.SellerID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product featured",
		"product": product,
	})
}
