package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/immobarok/mailbox-backend/internal/domain"
	"github.com/immobarok/mailbox-backend/internal/observability"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepository interface {
	Create(p *domain.Post) error
	FindByID(id uint) (*domain.Post, error)
	List() ([]domain.Post, error)
}

type GormPostRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository {
	return &GormPostRepository{db: db}
}

// Create persists the post and its images in one transaction via the
// association.
func (r *GormPostRepository) Create(p *domain.Post) error {
	if err := r.db.Create(p).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "post", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "post", "create", "success")
	return nil
}

func (r *GormPostRepository) FindByID(id uint) (*domain.Post, error) {
	var p domain.Post
	err := r.db.Preload("Images").Preload("Author").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "post", "find_by_id", "not_found")
			return nil, ErrPostNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "post", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "post", "find_by_id", "success")
	return &p, nil
}

func (r *GormPostRepository) List() ([]domain.Post, error) {
	var posts []domain.Post
	err := r.db.Preload("Images").Preload("Author").Order("created_at desc").Find(&posts).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "post", "list", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "post", "list", "success")
	return posts, nil
}
