package clockstate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeheart/lumina/internal/testharness/mock"
	"github.com/timeheart/lumina/pkg/clockstate"
	"github.com/timeheart/lumina/pkg/timeinfo"
)

var anniversary = timeinfo.Sample{Minutes: 20, Hours: 20, Days: 31, Months: 5, Years: 21}

func TestNewStartsZeroed(t *testing.T) {
	st := clockstate.New(anniversary)

	assert.Equal(t, anniversary, st.Anniversary())
	assert.Equal(t, timeinfo.Sample{}, st.Current())
	assert.False(t, st.Matches())
	assert.False(t, st.Held())
}

func TestRefreshStoresSample(t *testing.T) {
	now := timeinfo.Sample{Seconds: 10, Minutes: 20, Hours: 20, Days: 31, Months: 5, Years: 22}
	st := clockstate.New(anniversary)

	e, err := st.Refresh(context.Background(), mock.NewSource(now))

	require.NoError(t, err)
	assert.Equal(t, timeinfo.Elapsed{Seconds: 10, Years: 1}, e)
	assert.Equal(t, now, st.Current())
	assert.True(t, st.Matches())
}

func TestRefreshKeepsSampleOnError(t *testing.T) {
	first := timeinfo.Sample{Minutes: 21, Hours: 20, Days: 31, Months: 5, Years: 21}
	src := mock.NewSource(first)
	src.Fail(mock.ErrBus)
	st := clockstate.New(anniversary)

	_, err := st.Refresh(context.Background(), src)
	require.NoError(t, err)

	e, err := st.Refresh(context.Background(), src)

	assert.ErrorIs(t, err, mock.ErrBus)
	assert.Equal(t, first, st.Current())
	assert.Equal(t, timeinfo.Elapsed{Minutes: 1}, e)
}

func TestMatchIgnoresSeconds(t *testing.T) {
	src := mock.NewSource(timeinfo.Sample{Seconds: 59, Minutes: 20, Hours: 20, Days: 31, Months: 5, Years: 30})
	st := clockstate.New(anniversary)

	_, err := st.Refresh(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, st.Matches())
}

func TestLockHeldDuringRead(t *testing.T) {
	st := clockstate.New(anniversary)
	src := mock.NewSource(anniversary)
	var heldDuringRead bool
	src.OnRead = func() { heldDuringRead = st.Held() }

	_, err := st.Refresh(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, heldDuringRead)
	assert.False(t, st.Held())
}

func TestHoldObserver(t *testing.T) {
	clock := mock.NewClock(time.Date(2021, 5, 31, 0, 0, 0, 0, time.UTC))
	var holds []time.Duration
	var st *clockstate.State
	st = clockstate.New(anniversary,
		clockstate.WithClock(clock.Now),
		clockstate.WithHoldObserver(func(d time.Duration) {
			assert.False(t, st.Held(), "observer runs after unlock")
			holds = append(holds, d)
		}),
	)

	src := mock.NewSource(anniversary)
	src.OnRead = func() { clock.Sleep(3 * time.Millisecond) }

	_, err := st.Refresh(context.Background(), src)
	require.NoError(t, err)
	st.Matches()
	st.Current()

	assert.Equal(t, []time.Duration{3 * time.Millisecond, 0, 0}, holds)
}

func TestConcurrentAccess(t *testing.T) {
	st := clockstate.New(anniversary)
	src := mock.NewSource(anniversary)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = st.Refresh(context.Background(), src)
				st.Matches()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, src.Reads())
	assert.True(t, st.Matches())
}
