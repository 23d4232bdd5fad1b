package acknowledgments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/diwise/hazard-alerts/pkg/types"
	"github.com/matryer/is"
)

var dispatched = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestAcknowledgeWithinWindowIsOnTime(t *testing.T) {
	is := is.New(t)
	l := New(newMemoryStorage(testAlert(90)), time.Second)

	ack, created, err := l.Acknowledge(context.Background(), "alert-1", "user-1", dispatched.Add(30*time.Second))
	is.NoErr(err)
	is.True(created)
	is.True(ack.OnTime)
	is.Equal("user-1", ack.UserID)
}

func TestAcknowledgeAtExpiryIsOnTime(t *testing.T) {
	is := is.New(t)
	l := New(newMemoryStorage(testAlert(90)), time.Second)

	ack, _, err := l.Acknowledge(context.Background(), "alert-1", "user-1", dispatched.Add(90*time.Second))
	is.NoErr(err)
	is.True(ack.OnTime)
}

func TestLateAcknowledgmentIsRecordedAsLate(t *testing.T) {
	is := is.New(t)
	l := New(newMemoryStorage(testAlert(90)), time.Second)

	ack, created, err := l.Acknowledge(context.Background(), "alert-1", "user-1", dispatched.Add(120*time.Second))
	is.NoErr(err)
	is.True(created)
	is.True(!ack.OnTime)
}

func TestFirstAcknowledgmentWins(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	l := New(newMemoryStorage(testAlert(90)), time.Second)

	first, _, err := l.Acknowledge(ctx, "alert-1", "user-1", dispatched.Add(10*time.Second))
	is.NoErr(err)

	second, created, err := l.Acknowledge(ctx, "alert-1", "user-1", dispatched.Add(200*time.Second))
	is.NoErr(err)
	is.True(!created)
	is.Equal(first, second)
	is.True(second.OnTime) // a late repeat must not overwrite the on-time record
}

func TestConcurrentAcknowledgmentsStoreOneRecord(t *testing.T) {
	is := is.New(t)
	storage := newMemoryStorage(testAlert(90))
	l := New(storage, time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, created, err := l.Acknowledge(context.Background(), "alert-1", "user-1", dispatched.Add(time.Duration(i)*time.Second))
			is.NoErr(err)
			if created {
				mu.Lock()
				createdCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	is.Equal(1, createdCount)
	is.Equal(1, storage.count())
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	is := is.New(t)
	l := New(newMemoryStorage(), time.Second)

	_, _, err := l.Acknowledge(context.Background(), "missing", "user-1", dispatched)
	is.True(errors.Is(err, types.ErrAlertNotFound))
}

func TestAcknowledgeRequiresUser(t *testing.T) {
	is := is.New(t)
	l := New(newMemoryStorage(testAlert(90)), time.Second)

	_, _, err := l.Acknowledge(context.Background(), "alert-1", "", dispatched)
	is.True(errors.Is(err, types.ErrUnauthenticated))
}

func TestHasAcknowledged(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	l := New(newMemoryStorage(testAlert(90)), time.Second)

	acked, err := l.HasAcknowledged(ctx, "alert-1", "user-1")
	is.NoErr(err)
	is.True(!acked)

	_, _, err = l.Acknowledge(ctx, "alert-1", "user-1", dispatched)
	is.NoErr(err)

	acked, err = l.HasAcknowledged(ctx, "alert-1", "user-1")
	is.NoErr(err)
	is.True(acked)

	acked, err = l.HasAcknowledged(ctx, "alert-1", "user-2")
	is.NoErr(err)
	is.True(!acked)

	_, err = l.HasAcknowledged(ctx, "missing", "user-1")
	is.True(errors.Is(err, types.ErrAlertNotFound))
}

func TestStorageFailureIsPropagated(t *testing.T) {
	is := is.New(t)

	storage := &LedgerStorageMock{
		GetAcknowledgmentFunc: func(ctx context.Context, alertID, userID string) (types.Acknowledgment, bool, error) {
			return types.Acknowledgment{}, false, nil
		},
		GetAlertFunc: func(ctx context.Context, alertID string) (types.Alert, error) {
			return testAlert(90), nil
		},
		AddAcknowledgmentFunc: func(ctx context.Context, ack types.Acknowledgment) (types.Acknowledgment, bool, error) {
			return types.Acknowledgment{}, false, types.ErrStorageUnavailable
		},
	}

	l := New(storage, time.Second)
	_, created, err := l.Acknowledge(context.Background(), "alert-1", "user-1", dispatched)
	is.True(errors.Is(err, types.ErrStorageUnavailable))
	is.True(!created)
	is.Equal(1, len(storage.AddAcknowledgmentCalls()))
}

func TestStorageCallsAreBoundedByTimeout(t *testing.T) {
	is := is.New(t)

	storage := &LedgerStorageMock{
		GetAcknowledgmentFunc: func(ctx context.Context, alertID, userID string) (types.Acknowledgment, bool, error) {
			<-ctx.Done()
			return types.Acknowledgment{}, false, types.ErrStorageUnavailable
		},
	}

	l := New(storage, 10*time.Millisecond)
	_, _, err := l.Acknowledge(context.Background(), "alert-1", "user-1", dispatched)
	is.True(errors.Is(err, types.ErrStorageUnavailable))
}

func testAlert(ttl int) types.Alert {
	return types.Alert{
		ID:           "alert-1",
		Title:        "Flash Flood Warning",
		Severity:     types.SeverityDanger,
		DispatchedAt: dispatched,
		TTLSeconds:   ttl,
	}
}

type memoryStorage struct {
	mu     sync.Mutex
	alerts map[string]types.Alert
	acks   map[string]types.Acknowledgment
}

func newMemoryStorage(alerts ...types.Alert) *memoryStorage {
	m := &memoryStorage{
		alerts: map[string]types.Alert{},
		acks:   map[string]types.Acknowledgment{},
	}
	for _, a := range alerts {
		m.alerts[a.ID] = a
	}
	return m
}

func (m *memoryStorage) GetAlert(ctx context.Context, alertID string) (types.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.alerts[alertID]
	if !ok {
		return types.Alert{}, types.ErrAlertNotFound
	}
	return a, nil
}

func (m *memoryStorage) AddAcknowledgment(ctx context.Context, ack types.Acknowledgment) (types.Acknowledgment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := ack.AlertID + "/" + ack.UserID
	if existing, ok := m.acks[key]; ok {
		return existing, false, nil
	}
	m.acks[key] = ack
	return ack, true, nil
}

func (m *memoryStorage) GetAcknowledgment(ctx context.Context, alertID, userID string) (types.Acknowledgment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.acks[alertID+"/"+userID]
	return a, ok, nil
}

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.acks)
}
