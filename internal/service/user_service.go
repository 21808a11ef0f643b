package service

import (
	"github.com/immobarok/mailbox-backend/internal/domain"
	"github.com/immobarok/mailbox-backend/internal/repository"
)

type UserServiceInterface interface {
	GetByID(id uint) (*domain.UserView, error)
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByID returns the sanitized projection; the stored record never leaves
// the service layer.
func (s *UserService) GetByID(id uint) (*domain.UserView, error) {
	u, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	view := domain.NewUserView(u)
	return &view, nil
}
