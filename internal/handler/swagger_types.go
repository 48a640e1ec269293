package handler

import (
	"time"

	"tradebook/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"owner@devjyoti.in"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// RegisterRequest represents the self-registration request body.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required" example:"counter@devjyoti.in"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
	FullName string `json:"full_name" binding:"required" example:"Ravi Kumar"`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required" example:"counter@devjyoti.in"`
	Password string          `json:"password" binding:"required" example:"securepassword123"`
	FullName string          `json:"full_name" example:"Ravi Kumar"`
	Role     domain.UserRole `json:"role" binding:"required" example:"staff"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Email    *string          `json:"email" example:"ravi@devjyoti.in"`
	FullName *string          `json:"full_name" example:"Ravi K."`
	Role     *domain.UserRole `json:"role" example:"admin"`
	IsActive *bool            `json:"is_active" example:"true"`
	Password *string          `json:"password" example:"newpassword123"`
}

// ProductRequest represents the create/update product request body.
type ProductRequest struct {
	Name     string `json:"name" binding:"required" example:"Banarasi Silk Saree"`
	Category string `json:"category" example:"Sarees"`
	HSN      string `json:"hsn" example:"5407"`
	Price    string `json:"price" example:"1250.00"`
	Stock    int    `json:"stock" example:"40"`
}

// ConsigneeRequest represents the create/update consignee request body.
type ConsigneeRequest struct {
	Name    string `json:"name" binding:"required" example:"Shree Balaji Traders"`
	Address string `json:"address" example:"Railway Road, Jind"`
	GSTIN   string `json:"gstin" example:"06AAACB1234C1Z5"`
	PAN     string `json:"pan" example:"AAACB1234C"`
	State   string `json:"state" example:"HARYANA"`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2025-01-15T10:30:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
