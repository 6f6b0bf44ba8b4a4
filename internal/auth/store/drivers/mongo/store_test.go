package mongo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"github.com/aussiebroadwan/tubetab/internal/auth/store/drivers/mongo"
	"github.com/aussiebroadwan/tubetab/internal/auth/store/storetest"
	"github.com/aussiebroadwan/tubetab/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupMongoContainer starts a throwaway MongoDB and returns its URI.
func setupMongoContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor: wait.ForLog("Waiting for connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}

	uri := setupMongoContainer(t)

	storetest.Run(t, func(t *testing.T) store.Store {
		// A fresh database per subtest keeps them independent
		name := "tubetab_" + idx.New().String()
		st, err := mongo.NewStore(context.Background(), uri, name)
		require.NoError(t, err)
		require.NoError(t, st.ApplyMigrations())
		t.Cleanup(func() { _ = st.Close() })
		return st
	})
}
