package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	authDomain "github.com/vivento/vivento/internal/auth/domain"
	sharedDomain "github.com/vivento/vivento/internal/shared/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// AuthRepoMongoDB implementa CredentialStore y ProfileRepository sobre las
// colecciones credentials y users.
type AuthRepoMongoDB struct {
	credsColl *mongo.Collection
	usersColl *mongo.Collection
}

// NewAuthRepoMongoDB es el constructor. Crea el índice único de email que
// hace atómico el "email ya registrado".
func NewAuthRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*AuthRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	db := client.Database(dbName)
	r := &AuthRepoMongoDB{
		credsColl: db.Collection("credentials"),
		usersColl: db.Collection("users"),
	}

	_, err := r.credsColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create email index: %w", err)
	}

	return r, nil
}

// --- Structs de BSON para el mapeo ---

type mongoCredencial struct {
	UID          string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"passwordHash,omitempty"`
}

type mongoUser struct {
	UID         string    `bson:"_id"`
	Username    string    `bson:"username"`
	Email       string    `bson:"email"`
	UserType    string    `bson:"userType"`
	DisplayName string    `bson:"displayName,omitempty"`
	PhotoURL    string    `bson:"photoURL,omitempty"`
	IsActive    bool      `bson:"isActive"`
	IsVerified  bool      `bson:"isVerified"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// --- CredentialStore ---

func (r *AuthRepoMongoDB) Create(ctx context.Context, c *authDomain.Credencial) error {
	_, err := r.credsColl.InsertOne(ctx, mongoCredencial{
		UID:          c.UID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return authDomain.ErrEmailEnUso
		}
		return wrap(err)
	}
	return nil
}

func (r *AuthRepoMongoDB) GetByEmail(ctx context.Context, email string) (*authDomain.Credencial, error) {
	var mc mongoCredencial
	err := r.credsColl.FindOne(ctx, bson.M{"email": email}).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, authDomain.ErrCredencialNotFound
		}
		return nil, wrap(err)
	}
	return &authDomain.Credencial{UID: mc.UID, Email: mc.Email, PasswordHash: mc.PasswordHash}, nil
}

// --- ProfileRepository ---

// CreateProfile escribe el documento users/{uid} con timestamps de servidor.
func (r *AuthRepoMongoDB) CreateProfile(ctx context.Context, u *authDomain.User) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"username":    u.Username,
			"email":       u.Email,
			"userType":    string(u.UserType),
			"displayName": u.DisplayName,
			"photoURL":    u.PhotoURL,
			"isActive":    u.IsActive,
			"isVerified":  u.IsVerified,
		},
		"$currentDate": bson.M{"createdAt": true, "updatedAt": true},
	}
	_, err := r.usersColl.UpdateOne(ctx, bson.M{"_id": u.UID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (r *AuthRepoMongoDB) GetByUID(ctx context.Context, uid string) (*authDomain.User, error) {
	var mu mongoUser
	err := r.usersColl.FindOne(ctx, bson.M{"_id": uid}).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, wrap(err)
	}
	return fromMongoUser(&mu), nil
}

// --- Helpers de Mapeo y Conversión ---

func fromMongoUser(mu *mongoUser) *authDomain.User {
	return &authDomain.User{
		UID:         mu.UID,
		Username:    mu.Username,
		Email:       mu.Email,
		UserType:    authDomain.UserType(mu.UserType),
		DisplayName: mu.DisplayName,
		PhotoURL:    mu.PhotoURL,
		IsActive:    mu.IsActive,
		IsVerified:  mu.IsVerified,
		CreatedAt:   mu.CreatedAt,
		UpdatedAt:   mu.UpdatedAt,
	}
}

func wrap(err error) error {
	return fmt.Errorf("%w: %v", sharedDomain.ErrAlmacenNoDisponible, err)
}

// profileAdapter expone la colección users como ProfileRepository sin
// mezclar las dos interfaces en un mismo método Create.
type profileAdapter struct {
	repo *AuthRepoMongoDB
}

func (a profileAdapter) Create(ctx context.Context, u *authDomain.User) error {
	return a.repo.CreateProfile(ctx, u)
}

func (a profileAdapter) GetByUID(ctx context.Context, uid string) (*authDomain.User, error) {
	return a.repo.GetByUID(ctx, uid)
}

// Profiles devuelve la vista ProfileRepository del repositorio.
func (r *AuthRepoMongoDB) Profiles() authDomain.ProfileRepository {
	return profileAdapter{repo: r}
}

// Verificación estática de las interfaces.
var (
	_ authDomain.CredentialStore   = (*AuthRepoMongoDB)(nil)
	_ authDomain.ProfileRepository = profileAdapter{}
)
