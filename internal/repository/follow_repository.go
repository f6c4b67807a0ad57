package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FollowRepository tracks the follower graph between users.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	ListFolloweeIDs(ctx context.Context, followerID int64) ([]int64, error)
}

type followRepository struct {
	pool *pgxpool.Pool
}

// NewFollowRepository instantiates repository.
func NewFollowRepository(pool *pgxpool.Pool) FollowRepository {
	return &followRepository{pool: pool}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID int64) error {
	const query = `
        INSERT INTO follows (follower_id, followee_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, followerID, followeeID)
	return err
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	const query = `DELETE FROM follows WHERE follower_id=$1 AND followee_id=$2`
	_, err := r.pool.Exec(ctx, query, followerID, followeeID)
	return err
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id=$1 AND followee_id=$2)`
	var following bool
	if err := r.pool.QueryRow(ctx, query, followerID, followeeID).Scan(&following); err != nil {
		return false, err
	}
	return following, nil
}

func (r *followRepository) ListFolloweeIDs(ctx context.Context, followerID int64) ([]int64, error) {
	const query = `SELECT followee_id FROM follows WHERE follower_id=$1`
	rows, err := r.pool.Query(ctx, query, followerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
