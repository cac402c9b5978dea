package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"evdeger/server/internal/models"
)

func TestNewListingQueue(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestListingQueue_Push(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(2, logger)

	// Test successful push
	batch := []*models.Listing{{District: "Kadıköy", Price: 3200000}}
	err := q.Push(batch)
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	// Test queue full
	for i := 0; i < 2; i++ {
		_ = q.Push([]*models.Listing{{District: "Kadıköy"}})
	}
	err = q.Push(batch)
	assert.Equal(t, ErrQueueFull, err)

	// Test closed queue
	q.Close()
	err = q.Push(batch)
	assert.Equal(t, ErrQueueClosed, err)
}

func TestListingQueue_Subscribe(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)

	var processed []*models.Listing
	var mu sync.Mutex

	q.Subscribe(func(listings []*models.Listing) error {
		mu.Lock()
		processed = append(processed, listings...)
		mu.Unlock()
		return nil
	})

	q.Start()

	batch := []*models.Listing{
		{Neighborhood: "Etiler", Price: 5000000},
		{Neighborhood: "Levent", Price: 4250000},
	}
	err := q.Push(batch)
	assert.NoError(t, err)

	// Wait for processing
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 2, len(processed))
	assert.Equal(t, "Etiler", processed[0].Neighborhood)
	assert.Equal(t, "Levent", processed[1].Neighborhood)
	mu.Unlock()
}

func TestListingQueue_Close(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)

	err := q.Close()
	assert.NoError(t, err)
	assert.True(t, q.IsClosed())

	// Second close is a no-op
	err = q.Close()
	assert.NoError(t, err)
}

func TestListingQueue_MultipleHandlers(t *testing.T) {
	logger := logrus.New()
	q := NewListingQueue(10, logger)

	var wg sync.WaitGroup
	handledBatches := 0
	var mu sync.Mutex

	for i := 0; i < 3; i++ {
		wg.Add(1)
		q.Subscribe(func(listings []*models.Listing) error {
			mu.Lock()
			handledBatches++
			mu.Unlock()
			wg.Done()
			return nil
		})
	}

	q.Start()

	err := q.Push([]*models.Listing{{District: "Beşiktaş"}})
	assert.NoError(t, err)

	wg.Wait()

	mu.Lock()
	assert.Equal(t, 3, handledBatches)
	mu.Unlock()
}
