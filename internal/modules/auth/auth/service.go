package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ministry-site/core/internal/models"
	jwtpkg "github.com/ministry-site/core/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	signer *jwtpkg.Signer
	cost   int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(db *gorm.DB, signer *jwtpkg.Signer) *Service {
	return &Service{db: db, signer: signer, cost: bcrypt.DefaultCost}
}

// Login verifies a username and password and issues a session token.
// Unknown users and wrong passwords both yield errInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*loginResponse, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same bcrypt work as a real comparison
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := s.signer.Sign(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, err
	}
	return &loginResponse{Token: token, ExpiresAt: expiresAt, User: toUserResponse(&u)}, nil
}

// GetByID returns the user or nil when it does not exist.
func (s *Service) GetByID(ctx context.Context, id uint) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return errUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(current)); err != nil {
		return errWrongPassword
	}
	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(u).Update("password", hash).Error
}

// EnsureAdmin creates the admin user, or resets its password and email when
// reset is set. It reports whether a row was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string, reset bool) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return false, errors.New("username is required and password must be at least 8 characters")
	}
	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}

	var u models.UserModel
	err = s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = models.UserModel{Username: username, Email: email, Password: hash, Role: models.RoleAdmin}
		return true, s.db.WithContext(ctx).Create(&u).Error
	case err != nil:
		return false, err
	case !reset:
		return false, errors.New("user already exists")
	}
	return false, s.db.WithContext(ctx).Model(&u).Updates(map[string]interface{}{
		"password": hash,
		"email":    email,
	}).Error
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}

func toUserResponse(u *models.UserModel) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
