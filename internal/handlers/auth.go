package handlers

import (
	"net/http"

	"todohub/internal/service"

	"github.com/gin-gonic/gin"
)

// Field-rule validation (with aggregated messages) belongs to the service
// layer, so these DTOs carry no binding tags beyond JSON names.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Credentials"
// @Success      201   {object}  map[string]interface{}  "user, token"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	result, err := h.services.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err, "auth_register_failed", "email", req.Email)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  map[string]interface{}  "user, token"
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	result, err := h.services.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_login_failed", "email", req.Email)
		}
		h.respondError(c, err, "auth_login_error", "email", req.Email)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/profile [get]
// @Security     BearerAuth
func (h *Handler) profile(c *gin.Context) {
	identity := callerIdentity(c)

	user, err := h.services.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		h.respondError(c, err, "auth_profile_failed", "user_id", identity.ID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
