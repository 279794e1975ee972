package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tugasku/backend/internal/services"
	"tugasku/backend/internal/validation"
)

type RegisterHandler struct {
	db              *gorm.DB
	registerService services.RegisterService
	tokens          *services.TokenService
	log             *zap.Logger
}

func NewRegisterHandler(db *gorm.DB, registerService services.RegisterService, tokens *services.TokenService, log *zap.Logger) *RegisterHandler {
	return &RegisterHandler{db: db, registerService: registerService, tokens: tokens, log: log}
}

// Register creates an account and returns it together with a fresh token.
func (h *RegisterHandler) Register(c *gin.Context) {
	data, ok := bindJSONMap(c)
	if !ok {
		return
	}

	if err := validation.ValidateUserData(data, false); err != nil {
		respondError(c, h.log, err)
		return
	}

	user, err := h.registerService.RegisterUser(h.db, services.RegistrationInput{
		Username: stringValue(data, "username"),
		Email:    stringValue(data, "email"),
		Password: stringValue(data, "password"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("user registered",
		zap.String("username", user.Username),
		zap.Uint("user_id", user.ID),
	)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user.ToResponse(),
		"token":   token,
	})
}
