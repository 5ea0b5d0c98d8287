package service

import (
	"context"
	"sync"
	"time"

	"github.com/storeapi/backend/internal/db"
	"github.com/storeapi/backend/internal/model"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*model.User
	err    error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; ok {
		return nil, db.ErrDuplicateEmail
	}
	for _, u := range r.users {
		if u.Username == username {
			return nil, db.ErrDuplicateUsername
		}
	}
	r.nextID++
	now := time.Now()
	u := &model.User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[email] = u
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) ConfirmUser(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return db.ErrNotFound
	}
	u.Confirmed = true
	return nil
}

// racyUserRepo hides existing rows from the pre-check so CreateUser is the
// only thing rejecting a duplicate.
type racyUserRepo struct {
	*memUserRepo
}

func (r racyUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, db.ErrNotFound
}

type memPostRepo struct {
	mu       sync.Mutex
	posts    []model.Post
	comments []model.Comment
	likes    []model.Like
}

func (r *memPostRepo) CreatePost(ctx context.Context, userID int64, body string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := model.Post{ID: int64(len(r.posts) + 1), Body: body, UserID: userID}
	r.posts = append(r.posts, p)
	return &p, nil
}

func (r *memPostRepo) likesFor(postID int64) int64 {
	var n int64
	for _, l := range r.likes {
		if l.PostID == postID {
			n++
		}
	}
	return n
}

func (r *memPostRepo) ListPosts(ctx context.Context, sorting model.PostSorting) ([]model.PostWithLikes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.PostWithLikes, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, model.PostWithLikes{Post: p, Likes: r.likesFor(p.ID)})
	}
	return out, nil
}

func (r *memPostRepo) GetPostWithLikes(ctx context.Context, postID int64) (*model.PostWithLikes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == postID {
			return &model.PostWithLikes{Post: p, Likes: r.likesFor(p.ID)}, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *memPostRepo) PostExists(ctx context.Context, postID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return postID > 0 && postID <= int64(len(r.posts)), nil
}

func (r *memPostRepo) CreateComment(ctx context.Context, userID, postID int64, body string) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := model.Comment{ID: int64(len(r.comments) + 1), Body: body, PostID: postID, UserID: userID}
	r.comments = append(r.comments, c)
	return &c, nil
}

func (r *memPostRepo) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memPostRepo) CreateLike(ctx context.Context, userID, postID int64) (*model.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := model.Like{ID: int64(len(r.likes) + 1), PostID: postID, UserID: userID}
	r.likes = append(r.likes, l)
	return &l, nil
}

type memCarRepo struct {
	mu     sync.Mutex
	nextID int64
	cars   map[int64]model.Car
	trips  []model.Trip
}

func newMemCarRepo() *memCarRepo {
	return &memCarRepo{cars: map[int64]model.Car{}}
}

func (r *memCarRepo) ListCars(ctx context.Context, filter model.CarFilter) ([]model.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Car{}
	for id := int64(1); id <= r.nextID; id++ {
		c, ok := r.cars[id]
		if !ok || (filter.Size != "" && c.Size != filter.Size) || c.Doors < filter.MinDoors {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *memCarRepo) GetCar(ctx context.Context, carID int64) (*model.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[carID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &c, nil
}

func (r *memCarRepo) CreateCar(ctx context.Context, in model.CarInput) (*model.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c := model.Car{ID: r.nextID, Size: in.Size, Fuel: in.Fuel, Doors: in.Doors, Transmission: in.Transmission}
	r.cars[c.ID] = c
	return &c, nil
}

func (r *memCarRepo) UpdateCar(ctx context.Context, carID int64, in model.CarInput) (*model.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[carID]; !ok {
		return nil, db.ErrNotFound
	}
	c := model.Car{ID: carID, Size: in.Size, Fuel: in.Fuel, Doors: in.Doors, Transmission: in.Transmission}
	r.cars[carID] = c
	return &c, nil
}

func (r *memCarRepo) DeleteCar(ctx context.Context, carID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[carID]; !ok {
		return db.ErrNotFound
	}
	delete(r.cars, carID)
	kept := r.trips[:0]
	for _, t := range r.trips {
		if t.CarID != carID {
			kept = append(kept, t)
		}
	}
	r.trips = kept
	return nil
}

func (r *memCarRepo) CreateTrip(ctx context.Context, carID int64, in model.TripInput) (*model.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[carID]; !ok {
		return nil, db.ErrNotFound
	}
	t := model.Trip{ID: int64(len(r.trips) + 1), Start: in.Start, End: in.End, Description: in.Description, CarID: carID}
	r.trips = append(r.trips, t)
	return &t, nil
}

func (r *memCarRepo) ListTrips(ctx context.Context, carID int64) ([]model.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Trip{}
	for _, t := range r.trips {
		if t.CarID == carID {
			out = append(out, t)
		}
	}
	return out, nil
}
