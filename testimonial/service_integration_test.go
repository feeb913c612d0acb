package testimonial_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/atelier/driver"
	"goflare.io/atelier/driver/pgtest"
	"goflare.io/atelier/models"
	"goflare.io/atelier/testimonial"
)

func TestService_ConcurrentToggles(t *testing.T) {
	pool := pgtest.Start(t)
	logger := zap.NewNop()
	repo := testimonial.NewRepository(pool, logger)
	svc := testimonial.NewService(repo, driver.NewTransactionManager(pool, logger), logger)
	ctx := t.Context()

	tm := &models.Testimonial{Name: "Ana", Text: "Lindo trabalho", Active: true}
	require.NoError(t, svc.Create(ctx, tm))

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = svc.ToggleActive(ctx, tm.ID)
		}()
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, nil, tm.ID)
	require.NoError(t, err)
	require.False(t, got.Active, "three toggles flip the flag once")
}
