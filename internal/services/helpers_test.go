package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"agency-desk-backend/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, st *memory.Store, name string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     name + "@example.com",
		Role:      role,
		Phone:     "9876543210",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

// requireKind fails unless err is a service error of the given kind and
// its message contains substr.
func requireKind(t *testing.T, err error, kind services.ErrorKind, substr string) {
	t.Helper()
	require.Error(t, err)
	svcErr, ok := services.AsError(err)
	require.True(t, ok, "expected a service error, got %v", err)
	assert.Equal(t, kind, svcErr.Kind, svcErr.Message)
	assert.Contains(t, svcErr.Message, substr)
}

func ptr[T any](v T) *T { return &v }

// steppingClock returns strictly increasing times so list ordering is
// deterministic.
func steppingClock() func() time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	var n int
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}
