package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/lifepost/lifepost/internal/auth/guard"
	commoncrypto "github.com/lifepost/lifepost/internal/common/crypto"
	commonerrors "github.com/lifepost/lifepost/internal/common/errors"
	"github.com/lifepost/lifepost/internal/common/logger"
	"github.com/lifepost/lifepost/internal/common/resilience"
	"github.com/lifepost/lifepost/internal/feed"
	"github.com/lifepost/lifepost/internal/observability/metrics"
	"github.com/lifepost/lifepost/internal/post/domain"
	postrepo "github.com/lifepost/lifepost/internal/post/repository"
	"github.com/lifepost/lifepost/internal/upload"
)

// EventPublisher receives post events for the live feed.
type EventPublisher interface {
	Publish(event feed.Event)
}

// PostService owns the post lifecycle. Reads are public; every mutation runs
// the access guard first: authentication, then ownership for update/delete.
type PostService struct {
	repo        postrepo.Repository
	guard       *guard.Guard
	images      upload.Store
	publisher   EventPublisher
	idGenerator commoncrypto.IDGenerator
	breaker     *resilience.CircuitBreaker
	now         func() time.Time
	log         *logger.Logger
}

func NewPostService(
	repo postrepo.Repository,
	g *guard.Guard,
	images upload.Store,
	publisher EventPublisher,
	idGenerator commoncrypto.IDGenerator,
	breaker *resilience.CircuitBreaker,
	log *logger.Logger,
) *PostService {
	return &PostService{
		repo:        repo,
		guard:       g,
		images:      images,
		publisher:   publisher,
		idGenerator: idGenerator,
		breaker:     breaker,
		now:         time.Now,
		log:         log,
	}
}

// ImageUpload is an uploaded image ready to be stored.
type ImageUpload struct {
	Ext    string
	Reader io.Reader
}

type CreateInput struct {
	Title       string
	Description string
	Image       *ImageUpload
}

type UpdateInput struct {
	Title       string
	Description string
	Image       *ImageUpload
}

func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := s.callStore(ctx, func(ctx context.Context) error {
		found, err := s.repo.FindAll(ctx)
		if err != nil {
			return ErrStorage.WithCause(err)
		}
		posts = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id domain.ID) (domain.Post, error) {
	var post domain.Post
	err := s.callStore(ctx, func(ctx context.Context) error {
		found, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, postrepo.ErrPostNotFound) {
				return ErrPostNotFound
			}
			return ErrStorage.WithCause(err)
		}
		post = found
		return nil
	})
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, input CreateInput) (domain.Post, error) {
	user, err := s.guard.Identity(ctx)
	if err != nil {
		return domain.Post{}, err
	}

	if err := validatePost(input.Title, input.Description); err != nil {
		return domain.Post{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Post{}, ErrStorage.WithCause(err)
	}

	imagePath := ""
	if input.Image != nil {
		imagePath, err = s.images.Store(input.Image.Ext, input.Image.Reader)
		if err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(user.ID),
				"action":  "post_image_store_failed",
			}).Errorf("create post failed: %v", err)
			return domain.Post{}, ErrStorage.WithCause(err)
		}
	}

	post := domain.Post{
		ID:          domain.ID(id),
		Title:       input.Title,
		Author:      user.Name,
		AuthorID:    user.ID,
		Description: input.Description,
		ImagePath:   imagePath,
		CreatedAt:   s.now(),
	}

	err = s.callStore(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, post); err != nil {
			return ErrStorage.WithCause(err)
		}
		return nil
	})
	if err != nil {
		if imagePath != "" {
			if rmErr := s.images.Remove(imagePath); rmErr != nil {
				s.log.Warnf("create post: failed to remove orphaned image %s: %v", imagePath, rmErr)
			}
		}
		return domain.Post{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": string(post.ID),
		"user_id": string(user.ID),
		"action":  "post_created",
	}).Info("post created")

	metrics.PostsCreated.Inc()
	s.publisher.Publish(feed.PostCreated(post))
	return post, nil
}

func (s *PostService) Update(ctx context.Context, id domain.ID, input UpdateInput) (domain.Post, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	if err := s.guard.RequireOwnership(ctx, existing); err != nil {
		s.logDenied(ctx, id, "post_update_denied")
		return domain.Post{}, err
	}

	if err := validatePost(input.Title, input.Description); err != nil {
		return domain.Post{}, err
	}

	imagePath := existing.ImagePath
	if input.Image != nil {
		imagePath, err = s.images.Store(input.Image.Ext, input.Image.Reader)
		if err != nil {
			return domain.Post{}, ErrStorage.WithCause(err)
		}
	}

	var updated domain.Post
	err = s.callStore(ctx, func(ctx context.Context) error {
		post, err := s.repo.Update(ctx, id, postrepo.UpdateFields{
			Title:       input.Title,
			Description: input.Description,
			ImagePath:   imagePath,
		})
		if err != nil {
			if errors.Is(err, postrepo.ErrPostNotFound) {
				return ErrPostNotFound
			}
			return ErrStorage.WithCause(err)
		}
		updated = post
		return nil
	})
	if err != nil {
		if input.Image != nil && imagePath != "" {
			if rmErr := s.images.Remove(imagePath); rmErr != nil {
				s.log.Warnf("update post: failed to remove orphaned image %s: %v", imagePath, rmErr)
			}
		}
		return domain.Post{}, err
	}

	if input.Image != nil && existing.ImagePath != "" && existing.ImagePath != imagePath {
		if rmErr := s.images.Remove(existing.ImagePath); rmErr != nil {
			s.log.Warnf("update post: failed to remove replaced image %s: %v", existing.ImagePath, rmErr)
		}
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": string(id),
		"action":  "post_updated",
	}).Info("post updated")

	metrics.PostsUpdated.Inc()
	s.publisher.Publish(feed.PostUpdated(updated))
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, id domain.ID) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.RequireOwnership(ctx, existing); err != nil {
		s.logDenied(ctx, id, "post_delete_denied")
		return err
	}

	err = s.callStore(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			if errors.Is(err, postrepo.ErrPostNotFound) {
				return ErrPostNotFound
			}
			return ErrStorage.WithCause(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if existing.ImagePath != "" {
		if rmErr := s.images.Remove(existing.ImagePath); rmErr != nil {
			s.log.Warnf("delete post: failed to remove image %s: %v", existing.ImagePath, rmErr)
		}
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": string(id),
		"action":  "post_deleted",
	}).Info("post deleted")

	metrics.PostsDeleted.Inc()
	s.publisher.Publish(feed.PostDeleted(id))
	return nil
}

func (s *PostService) logDenied(ctx context.Context, id domain.ID, action string) {
	s.log.WithFields(ctx, logger.Fields{
		"post_id": string(id),
		"action":  action,
	}).Warn("ownership check denied")
}

func (s *PostService) callStore(ctx context.Context, fn func(context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	err := s.breaker.Call(ctx, fn)
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return ErrServiceUnavailable.WithCause(err)
	}
	return err
}
