package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brainfuel/backend/internal/config"
	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/internal/utils"
	"github.com/brainfuel/backend/pkg/response"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type UserService struct {
	gw        *models.Gateway
	jwtConfig *config.JWTConfig
}

func NewUserService(gw *models.Gateway, jwtCfg *config.JWTConfig) *UserService {
	return &UserService{gw: gw, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Username   string `json:"username" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department"`
	University string `json:"university"`
	Bio        string `json:"bio"`
}

type LoginRequest struct {
	Username string `json:"username"` // username or email
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	University *string `json:"university"`
	Bio        *string `json:"bio"`
	AvatarURL  *string `json:"avatar_url"`
}

// AuthResult is a signed token together with the user it was issued for
type AuthResult struct {
	Token string
	User  *models.User
}

var (
	errUserNotFound       = response.NewNotFound("User not found")
	errInvalidCredentials = response.NewUnauthorized("Invalid credentials")
	errUserExists         = response.NewConflict("Username or email already exists")
	errPasswordTooLong    = response.NewBadRequest("Password is too long")
)

// Register creates an account and signs a token for it
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := validate.Struct(req); err != nil {
		return nil, registerValidationError(err)
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		return nil, errPasswordTooLong
	}

	var existing uint
	found, err := s.gw.QueryOne(ctx, &existing,
		"SELECT id FROM users WHERE username = ? OR email = ?", req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, errUserExists
	}

	hash, err := utils.HashPassword(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errPasswordTooLong
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.gw.Execute(ctx, `
		INSERT INTO users (username, email, password, name, avatar_url, department, university, bio, created_at, updated_at)
		VALUES (?, ?, ?, ?, '', ?, ?, ?, ?, ?)`,
		req.Username, req.Email, hash, req.Name, req.Department, req.University, req.Bio, now, now)
	if err != nil {
		if models.IsUniqueViolation(err) {
			return nil, errUserExists
		}
		return nil, err
	}

	user, err := s.GetProfile(ctx, uint(res.LastInsertID))
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login checks credentials against username or email. Unknown accounts and
// wrong passwords fail with the same error.
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	login := strings.TrimSpace(req.Username)
	if login == "" || req.Password == "" {
		return nil, response.NewBadRequest("Username and password are required")
	}

	var user models.User
	found, err := s.gw.QueryOne(ctx, &user,
		"SELECT * FROM users WHERE username = ? OR email = ? ORDER BY id LIMIT 1", login, login)
	if err != nil {
		return nil, err
	}
	if !found || !utils.CheckPassword(req.Password, user.Password) {
		return nil, errInvalidCredentials
	}
	return s.issue(&user)
}

func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	found, err := s.gw.QueryOne(ctx, &user, "SELECT * FROM users WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errUserNotFound
	}
	return &user, nil
}

// UpdateProfile applies a partial update; updated_at is always refreshed.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, req *UpdateProfileRequest) error {
	var p patch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return response.NewBadRequest("Name cannot be empty")
		}
		p.set("name", name)
	}
	p.setString("department", req.Department)
	p.setString("university", req.University)
	p.setString("bio", req.Bio)
	p.setString("avatar_url", req.AvatarURL)
	p.set("updated_at", time.Now().UTC())

	query, args := p.update("users", "id = ?", id)
	res, err := s.gw.Execute(ctx, query, args...)
	if err != nil {
		return err
	}
	if res.RowsChanged == 0 {
		return errUserNotFound
	}
	return nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(user.ID, user.Username, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func registerValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			if fe.Field() == "Email" && fe.Tag() == "email" {
				return response.NewBadRequest("Invalid email format")
			}
		}
	}
	return response.NewBadRequest("Missing required fields")
}
