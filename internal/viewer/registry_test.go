package viewer

import (
	"sync"
	"testing"

	"github.com/JonMunkholm/tsimport/internal/table"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OpenAssignsOffsets(t *testing.T) {
	r := NewRegistry(nil)

	a := r.Open(&table.Table{Name: "a"})
	b := r.Open(&table.Table{Name: "b"})

	assert.Equal(t, 1, a.Seq)
	assert.Equal(t, 20, a.Offset)
	assert.Equal(t, 2, b.Seq)
	assert.Equal(t, 40, b.Offset)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_CloseEvicts(t *testing.T) {
	var counts []int
	r := NewRegistry(func(n int) { counts = append(counts, n) })

	a := r.Open(&table.Table{Name: "a"})
	require.True(t, r.Close(a.ID))
	assert.False(t, r.Close(a.ID), "second close is a no-op")

	_, ok := r.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 0}, counts)

	c := r.Open(&table.Table{Name: "c"})
	assert.Equal(t, 2, c.Seq, "sequence numbers are not reused")
}

func TestRegistry_ListOrdered(t *testing.T) {
	r := NewRegistry(nil)
	for i := 0; i < 5; i++ {
		r.Open(&table.Table{})
	}
	list := r.List()
	require.Len(t, list, 5)
	for i, e := range list {
		assert.Equal(t, i+1, e.Seq)
	}

	assert.False(t, r.Close(uuid.New()))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := r.Open(&table.Table{})
			r.Close(e.ID)
		}()
	}
	wg.Wait()
	assert.Zero(t, r.Len())
}

func TestRegistry_ConcurrentNotifyEndsAtFinalCount(t *testing.T) {
	var mu sync.Mutex
	last := -1
	r := NewRegistry(func(n int) {
		mu.Lock()
		last = n
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := r.Open(&table.Table{})
			r.Close(e.ID)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, last, "last notification must match the open count")
}
