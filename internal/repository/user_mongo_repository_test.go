package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialapi/internal/model"
)

// newMongoTestDB connects to MONGODB_TEST_URI and returns a throwaway database.
func newMongoTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("socialapi_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	require.NoError(t, EnsureMongoIndexes(ctx, db))
	return db
}

func TestMongoUserRepository_Lifecycle(t *testing.T) {
	db := newMongoTestDB(t)
	repo := NewMongoUserRepository(db)
	ctx := context.Background()

	user := &model.User{Username: "Alice", Email: "alice@example.com", PasswordHash: "pw", OTPHash: "otp"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)

	dup := &model.User{Username: "Other", Email: "alice@example.com", PasswordHash: "pw"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateEmail)

	public, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, public.ID)
	assert.Empty(t, public.PasswordHash)
	assert.Empty(t, public.OTPHash)

	full, err := repo.FindByIDWithCredentials(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pw", full.PasswordHash)
	assert.Equal(t, "otp", full.OTPHash)
	assert.False(t, full.IsVerified)

	full.OTPHash = ""
	full.IsVerified = true
	require.NoError(t, repo.Update(ctx, full))

	reloaded, err := repo.FindByIDWithCredentials(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.OTPHash)
	assert.True(t, reloaded.IsVerified)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Update(ctx, &model.User{ID: "missing", Email: "x@example.com"}), ErrNotFound)
}
