package handlers

import (
	"care4pets/internal/models"
	"care4pets/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
	}
}

// RegisterRoutes registers the authentication routes. limit guards the
// credential endpoints, auth guards /me.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, limit, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", limit, h.HandleRegister)
	authRoutes.Post("/login", limit, h.HandleLogin)
	authRoutes.Get("/me", auth, h.HandleMe)
	authRoutes.Put("/me", auth, h.HandleUpdateMe)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"max=120"`
	Phone    string `json:"phone" validate:"omitempty,vnphone"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	if err := h.authService.RegisterUser(&user); err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}

	token, user, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.GetUser(actor(c).UserID)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, user)
}

type profileRequest struct {
	FullName string `json:"fullName" validate:"max=120"`
	Phone    string `json:"phone" validate:"omitempty,vnphone"`
}

func (h *AuthHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req profileRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.authService.UpdateProfile(actor(c).UserID, req.FullName, req.Phone)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, user)
}
