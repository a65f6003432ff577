package users

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrDuplicate = errors.New("username already registered")
)

// User is an application account. Role is "user" or "admin"; admins may list
// every stored syllabus.
type User struct {
	ID           string    `bson:"id" json:"userId"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Repository defines persistence operations for users
type Repository interface {
	Insert(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePasswordHash(ctx context.Context, username, hash string) error
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, u *User) error {
	existing, err := r.GetByUsername(ctx, u.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err = r.col.InsertOne(ctx, u)
	return err
}

func (r *MongoRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"username": username},
		bson.M{"$set": bson.M{"passwordHash": hash, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUnknownUser
	}
	return nil
}

// MemoryRepository keeps users in a map; used in tests and when no MongoDB is
// configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	byName map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byName: map[string]*User{}}
}

func (r *MemoryRepository) Insert(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[u.Username]; ok {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	r.byName[u.Username] = &cp
	return nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byName[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byName[username]
	if !ok {
		return ErrUnknownUser
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}
