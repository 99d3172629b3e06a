package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"inventory-tracker/internal/auth"
	"inventory-tracker/internal/products"

	"github.com/gin-gonic/gin"
)

const (
	claimsKey      = "auth.claims"
	bearerPrefix   = "Bearer "
	signOutMessage = "Signed out."
	loginRedirect  = "/login"
)

type Service interface {
	Login(ctx context.Context, email, password string) (auth.Token, error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	SignOut(ctx context.Context, claims *auth.Claims) error
}

type Handler struct {
	service Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{service: svc}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required" example:"clerk@example.com"`
	Password string `json:"password" binding:"required" example:"password1"`
}

type errorResponse struct {
	Error string `json:"error" example:"invalid email or password"`
}

type SignOutData struct {
	Redirect string `json:"redirect" example:"/login"`
}

// Login godoc
// @Summary      Exchange credentials for an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  auth.Token
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to sign in"})
		return
	}

	c.JSON(http.StatusOK, token)
}

// SignOut godoc
// @Summary      Revoke the caller's access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  products.Result[SignOutData]
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  products.Result[SignOutData]
// @Router       /auth/signout [post]
func (h *Handler) SignOut(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	if err := h.service.SignOut(c.Request.Context(), claims); err != nil {
		c.JSON(http.StatusInternalServerError, products.Fail[SignOutData](
			products.Storage("Sign out failed: "+err.Error(), err),
		))
		return
	}

	c.JSON(http.StatusOK, products.Ok(SignOutData{Redirect: loginRedirect}, signOutMessage))
}

// RequireAuth rejects requests without a valid, unrevoked bearer token and
// stores the claims for downstream handlers. Browsers cannot set headers on a
// websocket upgrade, so the token is also accepted as ?access_token=.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "authorization token is required"})
			return
		}

		claims, err := h.service.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrExpiredToken),
				errors.Is(err, auth.ErrRevokedToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
			default:
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorResponse{Error: "cannot verify token"})
			}
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return c.Query("access_token")
}
