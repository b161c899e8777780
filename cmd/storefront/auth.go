package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/catering-ecom/internal/httpx"
	"github.com/MikeMC777/catering-ecom/internal/logx"
	"github.com/MikeMC777/catering-ecom/internal/session"
	"github.com/MikeMC777/catering-ecom/internal/user"
)

const maxImageBytes = 5 << 20

// LoginRequest payload for POST /auth/login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"budi@example.com"`
	Password string `json:"password" binding:"required" example:"rahasia123"`
}

// registerHandler godoc
//
//	@Summary	Create a customer account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		session.RegisterInput	true	"account"
//	@Success	201		{object}	session.Session
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse
//	@Router		/auth/register [post]
func registerHandler(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in session.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		sess, err := m.Register(c.Request.Context(), in)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, sess)
		case errors.Is(err, session.ErrInvalidInput):
			httpx.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrAlreadyExists):
			httpx.Error(c, http.StatusConflict, "email already registered")
		default:
			logx.FromContext(c.Request.Context()).Error("register failed", "error", err)
			httpx.InternalError(c)
		}
	}
}

// loginHandler godoc
//
//	@Summary	Sign in with email and password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoginRequest	true	"credentials"
//	@Success	200		{object}	session.Session
//	@Failure	401		{object}	httpx.ErrorResponse
//	@Router		/auth/login [post]
func loginHandler(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in LoginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, http.StatusBadRequest, "email and password are required")
			return
		}
		sess, err := m.Authenticate(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, session.ErrInvalidCredentials) {
				httpx.Error(c, http.StatusUnauthorized, err.Error())
				return
			}
			logx.FromContext(c.Request.Context()).Error("login failed", "error", err)
			httpx.InternalError(c)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// logoutHandler godoc
//
//	@Summary	Revoke the current session
//	@Tags		auth
//	@Security	BearerAuth
//	@Success	204
//	@Router		/auth/logout [post]
func logoutHandler(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.SignOut(c.Request.Context(), httpx.BearerToken(c)); err != nil {
			logx.FromContext(c.Request.Context()).Error("sign out failed", "error", err)
			httpx.InternalError(c)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// meHandler godoc
//
//	@Summary	Profile of the signed-in user
//	@Tags		auth
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	user.User
//	@Failure	401	{object}	httpx.ErrorResponse
//	@Router		/me [get]
func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, httpx.CurrentUser(c))
	}
}

// updateMeHandler godoc
//
//	@Summary	Update name, phone or address
//	@Tags		auth
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		user.Profile	true	"profile fields; empty keeps the current value"
//	@Success	200		{object}	user.User
//	@Router		/me [put]
func updateMeHandler(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p user.Profile
		if err := c.ShouldBindJSON(&p); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		u, err := m.UpdateProfile(c.Request.Context(), httpx.CurrentUser(c).ID, p)
		if err != nil {
			logx.FromContext(c.Request.Context()).Error("update profile failed", "error", err)
			httpx.InternalError(c)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// updateAvatarHandler godoc
//
//	@Summary	Upload a profile picture
//	@Tags		auth
//	@Security	BearerAuth
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		avatar	formData	file	true	"jpg, jpeg, png or webp"
//	@Success	200		{object}	user.User
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/me/avatar [put]
func updateAvatarHandler(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
		fh, err := c.FormFile("avatar")
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "avatar file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "avatar file is unreadable")
			return
		}
		defer f.Close()

		u, err := m.UpdateAvatar(c.Request.Context(), httpx.CurrentUser(c).ID, fh.Filename, f)
		if err != nil {
			if errors.Is(err, session.ErrInvalidInput) {
				httpx.Error(c, http.StatusBadRequest, "avatar must be a jpg, jpeg, png or webp image")
				return
			}
			logx.FromContext(c.Request.Context()).Error("update avatar failed", "error", err)
			httpx.InternalError(c)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
