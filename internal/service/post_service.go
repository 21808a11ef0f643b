package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/immobarok/mailbox-backend/internal/domain"
	"github.com/immobarok/mailbox-backend/internal/repository"
)

var ErrPostNotFound = errors.New("post not found")

type PostServiceInterface interface {
	CreatePost(ctx context.Context, authorID uint, title, content string, imageURLs []string) (*domain.Post, error)
	GetByID(ctx context.Context, id uint) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
}

type PostService struct {
	posts repository.PostRepository
}

func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) CreatePost(ctx context.Context, authorID uint, title, content string, imageURLs []string) (*domain.Post, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	images := make([]domain.PostImage, 0, len(imageURLs))
	for _, u := range imageURLs {
		if u == "" {
			continue
		}
		images = append(images, domain.PostImage{URL: u})
	}
	p := &domain.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
		Images:   images,
	}
	if err := s.posts.Create(p); err != nil {
		return nil, err
	}
	return s.posts.FindByID(p.ID)
}

func (s *PostService) GetByID(_ context.Context, id uint) (*domain.Post, error) {
	p, err := s.posts.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PostService) List(_ context.Context) ([]domain.Post, error) {
	return s.posts.List()
}
