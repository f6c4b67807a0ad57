package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/content-service/internal/domain"
)

// ArticleFilter captures listing parameters.
type ArticleFilter struct {
	Tag         *string
	AuthorID    *int64
	FavoritedBy *int64
	AuthorIDs   []int64
	Limit       int
	Offset      int
}

// ArticleRepository encapsulates article persistence, including tags and
// favorites.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id int64) error
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	ListWithFilter(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
	ListTags(ctx context.Context) ([]string, error)
	Favorite(ctx context.Context, userID, articleID int64) error
	Unfavorite(ctx context.Context, userID, articleID int64) error
	FavoriteCounts(ctx context.Context, articleIDs []int64) (map[int64]int, error)
	FavoritedSet(ctx context.Context, userID int64, articleIDs []int64) (map[int64]bool, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO articles (slug, title, description, body, author_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		article.Slug,
		article.Title,
		article.Description,
		article.Body,
		article.AuthorID,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt); err != nil {
		return err
	}

	if err := replaceTags(ctx, tx, article.ID, article.Tags); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE articles SET slug=$1, title=$2, description=$3, body=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := tx.Exec(ctx, query,
		article.Slug,
		article.Title,
		article.Description,
		article.Body,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if err := replaceTags(ctx, tx, article.ID, article.Tags); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	const query = `
        SELECT id, slug, title, description, body, author_id, created_at, updated_at
        FROM articles WHERE slug=$1`

	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, slug).Scan(
		&article.ID,
		&article.Slug,
		&article.Title,
		&article.Description,
		&article.Body,
		&article.AuthorID,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tags, err := r.tagsFor(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	article.Tags = tags
	return &article, nil
}

func (r *articleRepository) ListWithFilter(ctx context.Context, filter ArticleFilter) ([]domain.Article, error) {
	conditions := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Tag != nil {
		conditions = append(conditions,
			fmt.Sprintf("a.id IN (SELECT article_id FROM article_tags WHERE tag=%s)", arg(*filter.Tag)))
	}
	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("a.author_id=%s", arg(*filter.AuthorID)))
	}
	if filter.FavoritedBy != nil {
		conditions = append(conditions,
			fmt.Sprintf("a.id IN (SELECT article_id FROM favorites WHERE user_id=%s)", arg(*filter.FavoritedBy)))
	}
	if len(filter.AuthorIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("a.author_id = ANY(%s)", arg(filter.AuthorIDs)))
	}

	query := `
        SELECT a.id, a.slug, a.title, a.description, a.body, a.author_id, a.created_at, a.updated_at
        FROM articles a`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(limit), arg(filter.Offset))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.Slug,
			&article.Title,
			&article.Description,
			&article.Body,
			&article.AuthorID,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range articles {
		tags, err := r.tagsFor(ctx, articles[i].ID)
		if err != nil {
			return nil, err
		}
		articles[i].Tags = tags
	}
	return articles, nil
}

func (r *articleRepository) ListTags(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT tag FROM article_tags ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *articleRepository) Favorite(ctx context.Context, userID, articleID int64) error {
	const query = `
        INSERT INTO favorites (user_id, article_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, userID, articleID)
	return err
}

func (r *articleRepository) Unfavorite(ctx context.Context, userID, articleID int64) error {
	const query = `DELETE FROM favorites WHERE user_id=$1 AND article_id=$2`
	_, err := r.pool.Exec(ctx, query, userID, articleID)
	return err
}

func (r *articleRepository) FavoriteCounts(ctx context.Context, articleIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(articleIDs))
	if len(articleIDs) == 0 {
		return counts, nil
	}

	const query = `
        SELECT article_id, COUNT(*) FROM favorites
        WHERE article_id = ANY($1) GROUP BY article_id`
	rows, err := r.pool.Query(ctx, query, articleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

func (r *articleRepository) FavoritedSet(ctx context.Context, userID int64, articleIDs []int64) (map[int64]bool, error) {
	favorited := make(map[int64]bool, len(articleIDs))
	if len(articleIDs) == 0 {
		return favorited, nil
	}

	const query = `SELECT article_id FROM favorites WHERE user_id=$1 AND article_id = ANY($2)`
	rows, err := r.pool.Query(ctx, query, userID, articleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		favorited[id] = true
	}
	return favorited, rows.Err()
}

func (r *articleRepository) tagsFor(ctx context.Context, articleID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT tag FROM article_tags WHERE article_id=$1 ORDER BY tag`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func replaceTags(ctx context.Context, tx pgx.Tx, articleID int64, tags []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM article_tags WHERE article_id=$1`, articleID); err != nil {
		return err
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO article_tags (article_id, tag) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			articleID, tag); err != nil {
			return err
		}
	}
	return nil
}
