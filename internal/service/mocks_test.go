package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]*domain.User{}}
}

func (f *fakeUserRepo) add(user *domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byID[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]*domain.User{}
	for _, id := range ids {
		if user, ok := f.byID[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Active = active
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

type fakeArticleRepo struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]*domain.Article
	favorites map[int64]map[int64]bool // articleID -> userID set
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{
		byID:      map[int64]*domain.Article{},
		favorites: map[int64]map[int64]bool{},
	}
}

func (f *fakeArticleRepo) Create(_ context.Context, article *domain.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	article.ID = f.nextID
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	clone := *article
	f.byID[article.ID] = &clone
	return nil
}

func (f *fakeArticleRepo) Update(_ context.Context, article *domain.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *article
	f.byID[article.ID] = &clone
	return nil
}

func (f *fakeArticleRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	delete(f.favorites, id)
	return nil
}

func (f *fakeArticleRepo) GetBySlug(_ context.Context, slug string) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, article := range f.byID {
		if article.Slug == slug {
			clone := *article
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeArticleRepo) ListWithFilter(_ context.Context, filter repository.ArticleFilter) ([]domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Article
	for _, article := range f.byID {
		if filter.AuthorID != nil && article.AuthorID != *filter.AuthorID {
			continue
		}
		if len(filter.AuthorIDs) > 0 {
			found := false
			for _, id := range filter.AuthorIDs {
				if article.AuthorID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.Tag != nil {
			found := false
			for _, tag := range article.Tags {
				if tag == *filter.Tag {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.FavoritedBy != nil && !f.favorites[article.ID][*filter.FavoritedBy] {
			continue
		}
		out = append(out, *article)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeArticleRepo) ListTags(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]struct{}{}
	var tags []string
	for _, article := range f.byID {
		for _, tag := range article.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func (f *fakeArticleRepo) Favorite(_ context.Context, userID, articleID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.favorites[articleID] == nil {
		f.favorites[articleID] = map[int64]bool{}
	}
	f.favorites[articleID][userID] = true
	return nil
}

func (f *fakeArticleRepo) Unfavorite(_ context.Context, userID, articleID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.favorites[articleID], userID)
	return nil
}

func (f *fakeArticleRepo) FavoriteCounts(_ context.Context, articleIDs []int64) (map[int64]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]int{}
	for _, id := range articleIDs {
		out[id] = len(f.favorites[id])
	}
	return out, nil
}

func (f *fakeArticleRepo) FavoritedSet(_ context.Context, userID int64, articleIDs []int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]bool{}
	for _, id := range articleIDs {
		if f.favorites[id][userID] {
			out[id] = true
		}
	}
	return out, nil
}

var _ repository.ArticleRepository = (*fakeArticleRepo)(nil)

type fakeFollowRepo struct {
	mu      sync.Mutex
	follows map[int64]map[int64]bool // followerID -> followeeID set
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{follows: map[int64]map[int64]bool{}}
}

func (f *fakeFollowRepo) Follow(_ context.Context, followerID, followeeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.follows[followerID] == nil {
		f.follows[followerID] = map[int64]bool{}
	}
	f.follows[followerID][followeeID] = true
	return nil
}

func (f *fakeFollowRepo) Unfollow(_ context.Context, followerID, followeeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.follows[followerID], followeeID)
	return nil
}

func (f *fakeFollowRepo) IsFollowing(_ context.Context, followerID, followeeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.follows[followerID][followeeID], nil
}

func (f *fakeFollowRepo) ListFolloweeIDs(_ context.Context, followerID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id := range f.follows[followerID] {
		ids = append(ids, id)
	}
	return ids, nil
}

var _ repository.FollowRepository = (*fakeFollowRepo)(nil)

type fakeCommentRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{byID: map[int64]*domain.Comment{}}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	clone := *comment
	f.byID[comment.ID] = &clone
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *comment
	return &clone, nil
}

func (f *fakeCommentRepo) ListByArticle(_ context.Context, articleID int64) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Comment
	for _, comment := range f.byID {
		if comment.ArticleID == articleID {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ repository.CommentRepository = (*fakeCommentRepo)(nil)
