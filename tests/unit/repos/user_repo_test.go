package repos

import (
	"context"
	"testing"
	"time"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
	"nftflow-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		user := &domain.User{
			Name:         "Alice",
			Email:        "alice@test.com",
			PasswordHash: "hash",
			Role:         domain.UserRoleMember,
		}

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.Name, user.Email, user.PasswordHash, user.Role, user.Balance).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(1, time.Now()))

		err := repo.Create(ctx, user)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), user.ID)
	})
}

func TestUserRepository_AddBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Credit", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET balance = balance").
			WithArgs(int64(500), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AddBalance(ctx, 1, 500)
		assert.NoError(t, err)
	})

	t.Run("OverdraftRejected", func(t *testing.T) {
		// The WHERE clause guards the balance; zero rows means the debit
		// would have overdrawn.
		mock.ExpectExec("UPDATE users SET balance = balance").
			WithArgs(int64(-500), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AddBalance(ctx, 1, -500)
		assert.ErrorIs(t, err, repository.ErrInsufficientBalance)
	})
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)

	mock.ExpectQuery("SELECT id, name, email, password_hash, role, balance, created_on FROM users").
		WithArgs("ghost@test.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "balance", "created_on"}))

	_, err = repo.GetByEmail(context.Background(), "ghost@test.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
