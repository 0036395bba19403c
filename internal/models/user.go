package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User roles
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Phone       string `json:"phone,omitempty"`
	City        string `json:"city,omitempty"`
	Role        string `json:"role" gorm:"size:10;default:buyer;index"`
	Password    string `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	City     string `json:"city,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=buyer seller"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Phone string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	City  string `json:"city,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
