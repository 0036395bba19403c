package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/halkompleksi/backend/internal/matching"
	"github.com/halkompleksi/backend/internal/models"
	"github.com/halkompleksi/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// ProductHandler handles HTTP requests related to product listings
type ProductHandler struct {
	productRepository repositories.ProductRepository
	dispatcher        *matching.Dispatcher
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productRepo repositories.ProductRepository, dispatcher *matching.Dispatcher) *ProductHandler {
	return &ProductHandler{
		productRepository: productRepo,
		dispatcher:        dispatcher,
	}
}

// RegisterPublicProductRoutes registers product routes that need no auth
func (h *ProductHandler) RegisterPublicProductRoutes(g *echo.Group) {
	g.GET("/products", h.GetProducts)
	g.GET("/products/search", h.SearchProducts)
	g.GET("/products/featured", h.GetFeaturedProducts)
	g.GET("/products/categories", h.GetCategories)
	g.GET("/products/:id", h.GetProduct)
	g.PUT("/products/:id/views", h.IncrementViews)
}

// RegisterProductRoutes registers product routes that require auth
func (h *ProductHandler) RegisterProductRoutes(g *echo.Group) {
	g.POST("/products", h.CreateProduct)
	g.PUT("/products/:id", h.UpdateProduct)
	g.DELETE("/products/:id", h.DeleteProduct)
	g.GET("/products/seller/my-products", h.GetMyProducts)
	g.GET("/products/favorites", h.GetFavorites)
	g.POST("/products/:id/favorite", h.ToggleFavorite)
	g.DELETE("/products/:id/favorite", h.ToggleFavorite)
}

// GetProducts returns the filtered, paginated product listing
func (h *ProductHandler) GetProducts(c echo.Context) error {
	return h.listProducts(c)
}

// SearchProducts is the dedicated search surface. It shares the listing
// filter, including its city/search parameter precedence.
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	return h.listProducts(c)
}

func (h *ProductHandler) listProducts(c echo.Context) error {
	filter := repositories.ProductFilterFromQuery(c.QueryParams())

	products, total, err := h.productRepository.FindProducts(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	page, limit := filter.PageLimit()
	return c.JSON(http.StatusOK, echo.Map{
		"products":    products,
		"total":       total,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
		"currentPage": page,
	})
}

// GetFeaturedProducts returns the newest featured products
func (h *ProductHandler) GetFeaturedProducts(c echo.Context) error {
	products, err := h.productRepository.GetFeaturedProducts(c.Request().Context(), 10)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// GetCategories returns the fixed category catalog
func (h *ProductHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"categories": models.Categories})
}

// GetProduct retrieves a product by ID and counts the view
func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productRepository.GetProductByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrProductNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if views, err := h.productRepository.IncrementViews(c.Request().Context(), c.Param("id")); err == nil {
		product.Views = views
	}

	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

// IncrementViews bumps a product's view counter
func (h *ProductHandler) IncrementViews(c echo.Context) error {
	views, err := h.productRepository.IncrementViews(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrProductNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"views": views})
}

// CreateProduct creates a new listing. The product waits for admin approval;
// the seller gets a pending notification.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	claims := getUserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if claims.Role != models.RoleSeller && claims.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only sellers can create products")
	}

	var req models.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if !models.ValidCategory(req.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	}
	if req.Location.City == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "City is required")
	}

	currency := req.Currency
	if currency == "" {
		currency = "TL"
	}
	unit := req.Unit
	if unit == "" {
		unit = "kg"
	}
	stock := req.Stock
	if stock == 0 {
		stock = 1
	}
	images := req.Images
	if len(images) == 0 {
		images = []models.ProductImage{{
			URL:       "https://via.placeholder.com/400x300?text=No+Image",
			IsPrimary: true,
			Type:      "image",
		}}
	}

	product := &models.Product{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Currency:     currency,
		Category:     req.Category,
		Images:       images,
		SellerID:     claims.UserID,
		Location:     req.Location,
		IsAvailable:  true,
		Stock:        stock,
		Unit:         unit,
		CategoryData: req.CategoryData,
		Tags:         req.Tags,
	}

	if err := h.productRepository.CreateProduct(c.Request().Context(), product); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Best effort; the listing exists even if the notification fails.
	_ = h.dispatcher.NotifyProductPending(c.Request().Context(), claims.UserID, product.ID, product.Title)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct updates a listing the seller owns
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	claims := getUserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.productRepository.GetProductByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrProductNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if product.SellerID != claims.UserID {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	update := bson.M{}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Description != "" {
		update["description"] = req.Description
	}
	if req.Price != nil {
		update["price"] = *req.Price
	}
	if req.Images != nil {
		update["images"] = req.Images
	}
	if req.Location != nil {
		update["location"] = *req.Location
	}
	if req.Stock != nil {
		update["stock"] = *req.Stock
	}
	if req.Unit != "" {
		update["unit"] = req.Unit
	}
	if req.Tags != nil {
		update["tags"] = req.Tags
	}
	if req.IsAvailable != nil {
		update["is_available"] = *req.IsAvailable
	}

	if err := h.productRepository.UpdateProduct(c.Request().Context(), c.Param("id"), update); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	updated, err := h.productRepository.GetProductByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product updated successfully",
		"product": updated,
	})
}

// DeleteProduct deletes a listing the seller owns
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	claims := getUserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	err := h.productRepository.DeleteProduct(c.Request().Context(), c.Param("id"), claims.UserID)
	if err != nil {
		if err == repositories.ErrProductNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// GetMyProducts returns the seller's own listings
func (h *ProductHandler) GetMyProducts(c echo.Context) error {
	claims := getUserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit := pageParams(c, 10)
	skip := int64((page - 1) * limit)

	products, total, err := h.productRepository.GetSellerProducts(
		c.Request().Context(), claims.UserID, c.QueryParam("status"), skip, int64(limit))
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

// GetFavorites returns the user's favorited products
func (h *ProductHandler) GetFavorites(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, limit := pageParams(c, 20)
	skip := int64((page - 1) * limit)

	products, total, err := h.productRepository.GetFavoriteProducts(c.Request().Context(), currentUserID, skip, int64(limit))
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

// ToggleFavorite adds or removes the product from the user's favorites
func (h *ProductHandler) ToggleFavorite(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	favorited, err := h.productRepository.ToggleFavorite(c.Request().Context(), c.Param("id"), currentUserID)
	if err != nil {
		if err == repositories.ErrProductNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Favorite status updated",
		"favorited": favorited,
	})
}

// pageParams parses page/limit query parameters with defaults
func pageParams(c echo.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
