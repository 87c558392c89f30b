package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	errs "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/models"
	"github.com/nexafin/fincoach/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := decode(c, &user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		validate := validator.New()
		if err := validate.Struct(user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		createdUser, err := s.AuthService.SignupUser(&user)
		if err != nil {
			if apiErr, ok := err.(*errs.Error); ok {
				response.JSON(c, "", apiErr.Status, nil, apiErr)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		if s.Mail != nil {
			if _, err := s.Mail.SendWelcomeMessage(createdUser.Email, "Welcome to FinCoach"); err != nil {
				log.Printf("failed to send welcome email: %v", err)
			}
		}

		response.JSON(c, "Signup successful", http.StatusCreated, models.UserResponse{
			ID:       createdUser.ID,
			Fullname: createdUser.Fullname,
			Username: createdUser.Username,
			Email:    createdUser.Email,
		}, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}

		userResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue, exists := c.Get("access_token")
		if !exists {
			respondAndAbort(c, "Access token not found in context", http.StatusInternalServerError, nil, errs.New("Internal server error", http.StatusInternalServerError))
			return
		}

		accessToken, ok := tokenValue.(string)
		if !ok {
			respondAndAbort(c, "Access token is not a string", http.StatusInternalServerError, nil, errs.New("Internal server error", http.StatusInternalServerError))
			return
		}

		user, exists := c.Get("user")
		email := ""
		if exists {
			if u, ok := user.(*models.User); ok {
				email = u.Email
			}
		}

		if err := s.AuthRepository.AddToBlackList(&models.Blacklist{Email: email, Token: accessToken}); err != nil {
			respondAndAbort(c, "Logout failed", http.StatusInternalServerError, nil, errs.New("Internal server error", http.StatusInternalServerError))
			return
		}

		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		user, err := s.AuthService.GetUserProfile(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("unable to fetch profile", http.StatusInternalServerError))
			return
		}

		response.JSON(c, "", http.StatusOK, models.UserResponse{
			ID:           user.ID,
			Fullname:     user.Fullname,
			Username:     user.Username,
			Email:        user.Email,
			ThumbNailURL: user.ThumbNailURL,
		}, nil)
	}
}

func (s *Server) handleEditUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		var details models.EditProfileRequest
		if err := decode(c, &details); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if err := s.AuthService.EditUserProfile(userID, &details); err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("unable to update profile", http.StatusInternalServerError))
			return
		}

		response.JSON(c, "profile updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleUpdateProfileImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("image file is required", http.StatusBadRequest))
			return
		}

		imageURL, err := s.MediaService.UploadProfileImage(fileHeader, userID)
		if err != nil {
			log.Printf("failed to upload profile image: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("unable to upload image", http.StatusInternalServerError))
			return
		}

		if err := s.AuthRepository.UpsertUserImage(userID, imageURL); err != nil {
			log.Printf("failed to store profile image url: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("unable to save image", http.StatusInternalServerError))
			return
		}

		response.JSON(c, "profile image updated", http.StatusOK, gin.H{"thumbnail_url": imageURL}, nil)
	}
}
