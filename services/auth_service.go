package services

import (
	"log"
	"net/http"

	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexafin/fincoach/config"
	"github.com/nexafin/fincoach/db"
	apiError "github.com/nexafin/fincoach/errors"
	"github.com/nexafin/fincoach/models"
	"github.com/nexafin/fincoach/services/jwt"
)

// AuthService interface
type AuthService interface {
	SignupUser(user *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GetUserProfile(userID uint) (*models.User, error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	ResetPassword(userID uint, newPassword string) error
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func (s *authService) SignupUser(user *models.User) (*models.User, error) {
	if err := conform.Strings(user); err != nil {
		log.Printf("SignupUser error conforming input: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	if err := s.authRepo.IsUsernameExist(user.Username); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = ""
	user.IsActive = true

	created, err := s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return created, nil
}

func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		log.Printf("LoginUser error: %v", err)
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	accessToken, refreshToken, err := jwt.GenerateTokenPair(foundUser.Email, s.Config.JWTSecret, false, foundUser.ID, "user")
	if err != nil {
		log.Printf("LoginUser error generating tokens: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:           foundUser.ID,
			Fullname:     foundUser.Fullname,
			Username:     foundUser.Username,
			Email:        foundUser.Email,
			ThumbNailURL: foundUser.ThumbNailURL,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) GetUserProfile(userID uint) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		log.Printf("GetUserProfile error: %v", err)
		return nil, err
	}
	return user, nil
}

func (s *authService) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	if err := conform.Strings(details); err != nil {
		log.Printf("EditUserProfile error conforming input: %v", err)
		return err
	}

	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		log.Printf("EditUserProfile error: %v", err)
		return err
	}

	if details.Fullname != "" {
		user.Fullname = details.Fullname
	}
	if details.Username != "" {
		user.Username = details.Username
	}

	return s.authRepo.UpdateUser(user)
}

func (s *authService) ResetPassword(userID uint, newPassword string) error {
	if err := models.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ResetPassword error hashing password: %v", err)
		return err
	}

	return s.authRepo.UpdatePassword(string(hashedPassword), userID)
}
