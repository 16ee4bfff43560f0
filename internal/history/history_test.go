package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendKeepsOrder(t *testing.T) {
	l := NewLog()
	require.Equal(t, 0, l.Len())

	l.Append(Report{Query: "Acme", Summary: "one"})
	l.Append(Report{Query: "Globex", Summary: "two"})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Acme", entries[0].Query)
	assert.Equal(t, "Globex", entries[1].Query)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestAppendKeepsGivenTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLog()
	l.Append(Report{Query: "Acme", CreatedAt: ts})

	r, ok := l.Get(0)
	require.True(t, ok)
	assert.Equal(t, ts, r.CreatedAt)
}

func TestEntriesIsACopy(t *testing.T) {
	l := NewLog()
	l.Append(Report{Query: "Acme"})

	entries := l.Entries()
	entries[0].Query = "changed"

	r, _ := l.Get(0)
	assert.Equal(t, "Acme", r.Query)
}

func TestGetOutOfRange(t *testing.T) {
	l := NewLog()
	l.Append(Report{Query: "Acme"})

	_, ok := l.Get(-1)
	assert.False(t, ok)
	_, ok = l.Get(1)
	assert.False(t, ok)
}

func TestConcurrentAppend(t *testing.T) {
	l := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Append(Report{Query: fmt.Sprintf("q%d", i)})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, l.Len())
}
