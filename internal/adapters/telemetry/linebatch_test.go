package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pbuild/internal/adapters/telemetry"
)

type chunks struct {
	mu  sync.Mutex
	got []string
}

func (c *chunks) add(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, string(data))
}

func (c *chunks) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.got...)
}

func TestLineBatcher_GroupsLinesPerInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &chunks{}
		lb := telemetry.NewLineBatcher(0, 50*time.Millisecond, c.add)
		defer func() { _ = lb.Close() }()

		_, err := lb.Write([]byte("compiling app\n"))
		require.NoError(t, err)
		_, err = lb.Write([]byte("bundle.js 12kB\n"))
		require.NoError(t, err)
		assert.Empty(t, c.all())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"compiling app\nbundle.js 12kB\n"}, c.all())
	})
}

func TestLineBatcher_HoldsPartialLine(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &chunks{}
		lb := telemetry.NewLineBatcher(0, 50*time.Millisecond, c.add)
		defer func() { _ = lb.Close() }()

		_, _ = lb.Write([]byte("step 1\nstep"))
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"step 1\n"}, c.all())

		_, _ = lb.Write([]byte(" 2\n"))
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"step 1\n", "step 2\n"}, c.all())
	})
}

func TestLineBatcher_FlushesStalePartialLine(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &chunks{}
		lb := telemetry.NewLineBatcher(0, 50*time.Millisecond, c.add)
		defer func() { _ = lb.Close() }()

		_, _ = lb.Write([]byte("Continue? [y/N] "))
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, c.all())

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"Continue? [y/N] "}, c.all())
	})
}

func TestLineBatcher_FlushesOnSize(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &chunks{}
		lb := telemetry.NewLineBatcher(8, time.Hour, c.add)
		defer func() { _ = lb.Close() }()

		_, err := lb.Write([]byte("0123\n456789"))
		require.NoError(t, err)
		assert.Equal(t, []string{"0123\n"}, c.all(), "the partial line stays buffered")

		_, err = lb.Write([]byte("abc"))
		require.NoError(t, err)
		assert.Equal(t, []string{"0123\n", "456789abc"}, c.all(), "an overlong line goes out whole")
	})
}

func TestLineBatcher_CloseFlushesAndRejectsWrites(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &chunks{}
		lb := telemetry.NewLineBatcher(0, time.Hour, c.add)

		_, err := lb.Write([]byte("tail"))
		require.NoError(t, err)
		require.NoError(t, lb.Close())
		require.NoError(t, lb.Close())
		assert.Equal(t, []string{"tail"}, c.all())

		_, err = lb.Write([]byte("late"))
		require.Error(t, err)
		assert.Len(t, c.all(), 1)
	})
}
