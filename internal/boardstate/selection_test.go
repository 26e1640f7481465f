package boardstate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oe149499/whiteboard/internal/ids"
)

// ====================================================================
// Basic take/release semantics
// ====================================================================

func TestSelectionIndex_TakeUnselectedSucceeds(t *testing.T) {
	t.Parallel()
	s := NewSelectionIndex()
	s.Insert(ids.ItemID(1))

	assert.Equal(t, Successful, s.TakeItem(ids.ClientID(1), ids.ItemID(1)))
	assert.True(t, s.CheckOwned(ids.ClientID(1), ids.ItemID(1)))
}

func TestSelectionIndex_TakeNonExistentFails(t *testing.T) {
	t.Parallel()
	s := NewSelectionIndex()
	assert.Equal(t, NonExistent, s.TakeItem(ids.ClientID(1), ids.ItemID(99)))
}

func TestSelectionIndex_TakeOccupiedByOtherFails(t *testing.T) {
	t.Parallel()
	s := NewSelectionIndex()
	s.Insert(ids.ItemID(1))
	s.TakeItem(ids.ClientID(1), ids.ItemID(1))

	assert.Equal(t, Occupied, s.TakeItem(ids.ClientID(2), ids.ItemID(1)))
}

func TestSelectionIndex_TakeAlreadyOwnedByCallerReportsAlreadyOwned(t *testing.T) {
	t.Parallel()
	s := NewSelectionIndex()
	s.Insert(ids.ItemID(1))
	s.TakeItem(ids.ClientID(1), ids.ItemID(1))

	assert.Equal(t, AlreadyOwned, s.TakeItem(ids.ClientID(1), ids.ItemID(1)))
}

func TestSelectionIndex_ReleaseReturnsToUnselected(t *testing.T) {
	t.Parallel()
	s := NewSelectionIndex()
	s.Insert(ids.ItemID(1))
	s.TakeItem(ids.ClientID(1), ids.ItemID(1))
	s.Release(ids.ClientID(1), ids.ItemID(1))

	assert.False(t, s.CheckOwned(ids.ClientID(1), ids.ItemID(1)))
	assert.Equal(t, Successful, s.TakeItem(ids.ClientID(2), ids.ItemID(1)))
}

func TestSelectionIndex_ReleaseByNonOwnerIsNoop(t *testing.T) {
	t.Parallel()
	s := NewSelectionIndex()
	s.Insert(ids.ItemID(1))
	s.TakeItem(ids.ClientID(1), ids.ItemID(1))
	s.Release(ids.ClientID(2), ids.ItemID(1))

	assert.True(t, s.CheckOwned(ids.ClientID(1), ids.ItemID(1)))
}

func TestSelectionIndex_ReleaseAllClearsOnlyThatClient(t *testing.T) {
	t.Parallel()
	s := NewSelectionIndex()
	s.Insert(ids.ItemID(1))
	s.Insert(ids.ItemID(2))
	s.Insert(ids.ItemID(3))
	s.TakeItem(ids.ClientID(1), ids.ItemID(1))
	s.TakeItem(ids.ClientID(1), ids.ItemID(2))
	s.TakeItem(ids.ClientID(2), ids.ItemID(3))

	released := s.ReleaseAll(ids.ClientID(1))
	assert.ElementsMatch(t, []ids.ItemID{ids.ItemID(1), ids.ItemID(2)}, released)
	assert.True(t, s.CheckOwned(ids.ClientID(2), ids.ItemID(3)))
}

func TestSelectionIndex_RemoveDropsEntry(t *testing.T) {
	t.Parallel()
	s := NewSelectionIndex()
	s.Insert(ids.ItemID(1))
	s.Remove(ids.ItemID(1))

	assert.Equal(t, NonExistent, s.TakeItem(ids.ClientID(1), ids.ItemID(1)))
}

// ====================================================================
// Selection exclusivity under contention: exactly one winner per item
// ====================================================================

func TestSelectionIndex_ConcurrentTakeHasExactlyOneWinner(t *testing.T) {
	s := NewSelectionIndex()
	s.Insert(ids.ItemID(1))

	const n = 50
	var wg sync.WaitGroup
	results := make([]TakeOutcome, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.TakeItem(ids.ClientID(i+1), ids.ItemID(1))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, r := range results {
		if r == Successful {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
}
