package handlers

import (
	"net/http"
	"os"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/halkompleksi/backend/internal/middleware"
	"github.com/halkompleksi/backend/internal/models"
	"github.com/halkompleksi/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client) *AuthHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin, middleware.FirebaseAuthMiddleware(h.firebaseAuth))
}

// Signup handles user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if user with this email already exists
	_, err := h.userRepository.GetUserByEmail(req.Email)
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleBuyer
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		City:     req.City,
		Role:     role,
		Password: string(hashedPassword),
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Generate and return JWT for the newly registered user
	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token after signup")
	}

	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// SignIn handles user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Retrieve user by email
	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	// Compare passwords
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// FirebaseLogin exchanges a Firebase ID token, verified by
// FirebaseAuthMiddleware, for a local JWT. Links or creates the local user.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	token, ok := c.Get("firebaseToken").(*auth.Token)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	firebaseUID := token.UID
	email, _ := token.Claims["email"].(string)
	name := ""
	if displayName, ok := token.Claims["name"].(string); ok {
		name = displayName
	}

	// Try to find user by Firebase UID, then by email
	user, err := h.userRepository.GetUserByFirebaseUID(firebaseUID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
		}

		user, err = h.userRepository.GetUserByEmail(email)
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
			}
			// New user, create one
			user = &models.User{
				Name:        name,
				Email:       email,
				Role:        models.RoleBuyer,
				FirebaseUID: firebaseUID,
			}
			if err := h.userRepository.CreateUser(user); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
			}
		} else {
			// User found by email, link their Firebase UID
			user.FirebaseUID = firebaseUID
			if err := h.userRepository.UpdateUser(user); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update user with Firebase UID")
			}
		}
	}

	jwtToken, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": jwtToken, "user": user})
}

// generateJWT creates a signed token carrying the user's ID, email and role
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
