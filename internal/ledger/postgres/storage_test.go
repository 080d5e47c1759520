package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger/storetest"
)

// startPostgres runs a throwaway Postgres container and returns its URL.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("wordle_test"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		tcpostgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":      "wordle-ledger",
			"test-name": t.Name(),
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate test container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return url
}

func TestStorageSuite(t *testing.T) {
	url := startPostgres(t)

	suite.Run(t, &storetest.Suite{
		NewStore: func(t *testing.T) ledger.Store {
			ctx := context.Background()
			st, err := Open(ctx, url)
			require.NoError(t, err)
			_, err = st.pool.Exec(ctx, `TRUNCATE games`)
			require.NoError(t, err)
			return st
		},
	})
}
