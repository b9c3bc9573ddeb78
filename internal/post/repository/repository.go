package repository

import (
	"context"
	"errors"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/lifepost/lifepost/internal/post/domain"
)

var ErrPostNotFound = errors.New("post not found")

type UpdateFields struct {
	Title       string
	Description string
	ImagePath   string
}

type Repository interface {
	Create(ctx context.Context, post domain.Post) error
	FindByID(ctx context.Context, id domain.ID) (domain.Post, error)
	FindAll(ctx context.Context) ([]domain.Post, error)
	Update(ctx context.Context, id domain.ID, fields UpdateFields) (domain.Post, error)
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, post domain.Post) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO posts (id, title, author, author_id, description, image_path, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(post.ID),
		post.Title,
		post.Author,
		string(post.AuthorID),
		post.Description,
		post.ImagePath,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, title, author, author_id, description, image_path, created_at
		 FROM posts WHERE id = $1`,
		string(id),
	)

	var post domain.Post
	err := row.Scan(&post.ID, &post.Title, &post.Author, &post.AuthorID, &post.Description, &post.ImagePath, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, fmt.Errorf("failed to find post by id: %w", err)
	}

	return post, nil
}

func (r *PgRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, title, author, author_id, description, image_path, created_at
		 FROM posts
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.AuthorID, &p.Description, &p.ImagePath, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return posts, nil
}

func (r *PgRepository) Update(ctx context.Context, id domain.ID, fields UpdateFields) (domain.Post, error) {
	row := r.pool.QueryRow(
		ctx,
		`UPDATE posts
		 SET title = $2, description = $3, image_path = $4
		 WHERE id = $1
		 RETURNING id, title, author, author_id, description, image_path, created_at`,
		string(id),
		fields.Title,
		fields.Description,
		fields.ImagePath,
	)

	var post domain.Post
	err := row.Scan(&post.ID, &post.Title, &post.Author, &post.AuthorID, &post.Description, &post.ImagePath, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}
