package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/closetly/closetly-backend/internal/users"
	"github.com/closetly/closetly-backend/pkg/config"
	"github.com/closetly/closetly-backend/pkg/db/models"
	"github.com/closetly/closetly-backend/pkg/security"
)

type fakeUserRepo struct {
	createFunc          func(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	findByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	findByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	updateLastLoginFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
	updateFunc          func(ctx context.Context, user *models.User) error
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, dto)
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findByEmailFunc != nil {
		return f.findByEmailFunc(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.findByIDFunc != nil {
		return f.findByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if f.updateLastLoginFunc != nil {
		return f.updateLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, user)
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
		MinLength:        6,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "closetly-test",
		TTLDays:         7,
		RememberTTLDays: 30,
	}
}

func mustHash(password string) string {
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		panic(err)
	}
	return hash
}
