package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecochef/ecochef/backend/internal/testhelpers"
)

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	store := NewMongoStore(testhelpers.SetupTestMongo(t))
	require.NoError(t, store.EnsureIndexes(context.Background()))

	testStoreContract(t, store)
}
