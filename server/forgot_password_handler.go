package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/models"
	"github.com/nexafin/fincoach/server/response"
	"github.com/nexafin/fincoach/services/jwt"
)

func (s *Server) HandleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.ForgotPassword
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		user, err := s.AuthRepository.FindUserByEmail(request.Email)
		if err != nil || user == nil {
			response.JSON(c, "", http.StatusNotFound, nil, fmt.Errorf("user not found"))
			return
		}

		resetToken, err := jwt.GeneratePasswordResetToken(user.ID, s.Config.JWTSecret)
		if err != nil {
			response.JSON(c, "failed to generate reset token", http.StatusInternalServerError, nil, err)
			return
		}

		baseURL := s.Config.BaseUrl
		if baseURL == "" {
			baseURL = "http://localhost:3002"
		}
		resetLink := fmt.Sprintf("%s/reset-password/%s", baseURL, resetToken)

		if _, err := s.Mail.SendResetPassword(user.Email, resetLink); err != nil {
			response.JSON(c, "connection to mail service interrupted", http.StatusInternalServerError, nil, err)
			return
		}

		response.JSON(c, "Reset Password Link Sent Successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		var request models.ResetPassword
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if request.Password != request.ConfirmPassword {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("passwords do not match", http.StatusBadRequest))
			return
		}

		claims, err := jwt.ValidateAndGetClaims(token, s.Config.JWTSecret)
		if err != nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("invalid or expired reset token", http.StatusUnauthorized))
			return
		}
		if tokenType, ok := claims["type"].(string); !ok || tokenType != "password_reset" {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("invalid reset token", http.StatusUnauthorized))
			return
		}

		idValue, ok := claims["id"].(float64)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("invalid reset token", http.StatusUnauthorized))
			return
		}

		if err := s.AuthService.ResetPassword(uint(idValue), request.Password); err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		response.JSON(c, "Password Reset Successfully", http.StatusOK, nil, nil)
	}
}
