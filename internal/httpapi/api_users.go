package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	accountdomain "github.com/streetsource/streetsource-api/internal/domains/accounts/domain"
	accountports "github.com/streetsource/streetsource-api/internal/domains/accounts/ports"
	"github.com/streetsource/streetsource-api/internal/shared/envelope"
)

// usersAPI handles registration and login.
type usersAPI struct {
	service   accountports.Service
	responder *envelope.Responder
}

func newUsersAPI(service accountports.Service, responder *envelope.Responder) *usersAPI {
	return &usersAPI{service: service, responder: responder}
}

type registerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

type loginRequest struct {
	Phone string `json:"phone" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

func toUserResponse(user *accountdomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Phone:     user.Phone,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// Post /api/users/create
func (api *usersAPI) Create(c *gin.Context) {
	var payload registerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	user, token, err := api.service.Register(c.Request.Context(), accountports.RegisterInput{
		Name:  payload.Name,
		Phone: payload.Phone,
		PIN:   payload.PIN,
		Role:  accountdomain.Role(payload.Role),
	})
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	setAccessTokenCookie(c, token)
	envelope.OK(c, http.StatusCreated, authResponse{
		User:        toUserResponse(user),
		AccessToken: token,
	}, "user registered successfully")
}

// Post /api/users/login
func (api *usersAPI) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		envelope.BadRequest(c, err.Error())
		return
	}
	user, token, err := api.service.Login(c.Request.Context(), payload.Phone, payload.PIN)
	if err != nil {
		api.responder.Error(c, err)
		return
	}
	setAccessTokenCookie(c, token)
	envelope.OK(c, http.StatusOK, authResponse{
		User:        toUserResponse(user),
		AccessToken: token,
	}, "login successful")
}

func setAccessTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, token, int((24 * time.Hour).Seconds()), "/", "", false, true)
}
