package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fleetops/config"
	kafkaMocks "fleetops/infras/kafka/mocks"
	otelMocks "fleetops/infras/otel/mocks"
	"fleetops/infras/recordstore"
	bookingMocks "fleetops/internal/domains/booking/mocks"
	"fleetops/internal/domains/booking/model"
	"fleetops/internal/domains/booking/model/dto"
	"fleetops/internal/domains/booking/schedule"
	"fleetops/internal/domains/booking/service"
	transitionMocks "fleetops/internal/domains/transition/mocks"
	transitionModel "fleetops/internal/domains/transition/model"
	transitionDto "fleetops/internal/domains/transition/model/dto"
	"fleetops/shared/cache"
	cacheMocks "fleetops/shared/cache/mocks"
	"fleetops/shared/failure"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var surveyor = model.Actor{ID: "u-7", Role: "surveyor"}

const (
	generationKey     = "booking:generation"
	collectionPattern = "booking:collection:*"
)

func collectionKey(generation int64) string {
	return fmt.Sprintf("booking:collection:%d:surveyor:u-7", generation)
}

// memoryCache backs the cache mock with an in-memory store so the last known
// state carries over between calls.
type memoryCache struct {
	mu         sync.Mutex
	generation int64
	entries    map[string][]model.Booking
	saves      int
	parked     chan struct{}
	release    chan struct{}
}

func newMemoryCache(bookings []model.Booking) *memoryCache {
	m := &memoryCache{entries: map[string][]model.Booking{}}
	if bookings != nil {
		m.entries[collectionKey(0)] = bookings
	}

	return m
}

func (m *memoryCache) wire(mock *cacheMocks.MockRedisCache) {
	mock.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, value any) error {
			m.mu.Lock()
			defer m.mu.Unlock()

			if key == generationKey {
				if m.generation == 0 {
					return fmt.Errorf("cache miss for %s: %w", key, cache.Nil)
				}

				*value.(*int64) = m.generation

				return nil
			}

			bookings, ok := m.entries[key]
			if !ok {
				return fmt.Errorf("cache miss for %s: %w", key, cache.Nil)
			}

			*value.(*[]model.Booking) = append([]model.Booking(nil), bookings...)

			return nil
		}).
		AnyTimes()

	mock.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), 3600).
		DoAndReturn(func(_ context.Context, key string, value any, _ int) error {
			m.mu.Lock()
			parked, release := m.parked, m.release
			m.parked, m.release = nil, nil
			m.mu.Unlock()

			if parked != nil {
				close(parked)
				<-release
			}

			m.mu.Lock()
			defer m.mu.Unlock()

			m.entries[key] = append([]model.Booking(nil), value.([]model.Booking)...)
			m.saves++

			return nil
		}).
		AnyTimes()

	mock.EXPECT().
		Increment(gomock.Any(), generationKey).
		DoAndReturn(func(context.Context, string) (int64, error) {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.generation++

			return m.generation, nil
		}).
		AnyTimes()

	mock.EXPECT().
		Clear(gomock.Any(), collectionPattern).
		DoAndReturn(func(context.Context, string) error {
			m.mu.Lock()
			defer m.mu.Unlock()

			for key := range m.entries {
				if strings.HasPrefix(key, "booking:collection:") {
					delete(m.entries, key)
				}
			}

			return nil
		}).
		AnyTimes()
}

// holdNextSave parks the next Save until release is closed. parked is closed
// once that Save has started.
func (m *memoryCache) holdNextSave() (parked, release chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parked, m.release = make(chan struct{}), make(chan struct{})

	return m.parked, m.release
}

// current is the collection readers see under the current generation.
func (m *memoryCache) current() []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]model.Booking(nil), m.entries[collectionKey(m.generation)]...)
}

func (m *memoryCache) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saves
}

func (m *memoryCache) currentGeneration() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.generation
}

type fixture struct {
	svc         service.Booking
	repo        *bookingMocks.MockBooking
	transitions *transitionMocks.MockTransitionService
	kafka       *kafkaMocks.MockClient
	cache       *cacheMocks.MockRedisCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := fixture{
		repo:        bookingMocks.NewMockBooking(ctrl),
		transitions: transitionMocks.NewMockTransitionService(ctrl),
		kafka:       kafkaMocks.NewMockClient(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topics.Transitions = "booking.transitions"

	f.svc = service.New(f.repo, f.transitions, f.kafka, cfg, f.cache, otelMocks.NewOtel())

	return f
}

// sideEffects counts the journal records and Kafka publishes issued from the
// service's background goroutines.
type sideEffects struct {
	records   atomic.Int32
	publishes atomic.Int32
}

func (f fixture) quietSideEffects() *sideEffects {
	effects := &sideEffects{}

	f.transitions.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, transitionDto.RecordTransitionRequest) error {
			effects.records.Add(1)

			return nil
		}).
		AnyTimes()
	f.kafka.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, ...any) error {
			effects.publishes.Add(1)

			return nil
		}).
		AnyTimes()

	return effects
}

func (e *sideEffects) wait(t *testing.T, records, publishes int32) {
	t.Helper()

	require.Eventually(t, func() bool {
		return e.records.Load() == records && e.publishes.Load() == publishes
	}, time.Second, time.Millisecond)
}

func inspection(id string, status model.Status) model.Booking {
	return model.Booking{
		ID:            id,
		Kind:          model.KindInspection,
		Status:        status,
		VesselRef:     model.VesselRef{Name: "MV Aurora", Number: "IMO 9321483"},
		Requester:     model.ActorRef{ID: "o-1", Name: "Harbor Owner", Role: "owner"},
		Counterpart:   &model.ActorRef{ID: "u-7", Name: "Sam Surveyor", Role: "surveyor"},
		ScheduledDate: "2025-03-14",
		ScheduledTime: "9:00 AM",
		SurveyType:    "Hull",
		Location:      "Dock 4",
	}
}

func TestBookingService_AcceptThenAcceptAgainIsStale(t *testing.T) {
	f := newFixture(t)
	effects := f.quietSideEffects()

	memory := newMemoryCache([]model.Booking{inspection("b-1", model.StatusPending)})
	memory.wire(f.cache)

	f.repo.EXPECT().Accept(gomock.Any(), "b-1").Return(inspection("b-1", model.StatusAccepted), nil).Times(1)
	f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return([]model.Booking{inspection("b-1", model.StatusAccepted)}, nil).Times(1)

	res, err := f.svc.Accept(context.Background(), surveyor, "b-1")

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, model.StatusAccepted, res[0].Status)
	assert.Equal(t, res, memory.current())

	_, err = f.svc.Accept(context.Background(), surveyor, "b-1")

	var stale *model.StaleTransitionError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, model.StatusAccepted, stale.Status)

	effects.wait(t, 2, 1)
}

func TestBookingService_DeclineAfterAcceptIsStale(t *testing.T) {
	f := newFixture(t)
	effects := f.quietSideEffects()

	memory := newMemoryCache([]model.Booking{inspection("b-1", model.StatusAccepted)})
	memory.wire(f.cache)

	_, err := f.svc.Decline(context.Background(), surveyor, "b-1")

	var stale *model.StaleTransitionError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, model.ActionDecline, stale.Action)

	effects.wait(t, 1, 0)
}

// A collection fetched before a transition must not replace the resynced
// one, however late its cache write lands.
func TestBookingService_LateCollectionSave(t *testing.T) {
	t.Run("after accept", func(t *testing.T) {
		f := newFixture(t)
		effects := f.quietSideEffects()

		memory := newMemoryCache(nil)
		memory.wire(f.cache)

		gomock.InOrder(
			f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return([]model.Booking{inspection("b-1", model.StatusPending)}, nil),
			f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return([]model.Booking{inspection("b-1", model.StatusAccepted)}, nil),
		)
		f.repo.EXPECT().Accept(gomock.Any(), "b-1").Return(inspection("b-1", model.StatusAccepted), nil).Times(1)

		parked, release := memory.holdNextSave()

		board, err := f.svc.GetAll(context.Background(), surveyor)
		require.NoError(t, err)
		require.Len(t, board, 1)
		assert.Equal(t, model.StatusPending, board[0].Status)

		select {
		case <-parked:
		case <-time.After(time.Second):
			t.Fatal("collection was not saved")
		}

		_, err = f.svc.Accept(context.Background(), surveyor, "b-1")
		require.NoError(t, err)

		close(release)
		require.Eventually(t, func() bool { return memory.savedCount() == 2 }, time.Second, time.Millisecond)

		board, err = f.svc.GetAll(context.Background(), surveyor)
		require.NoError(t, err)
		require.Len(t, board, 1)
		assert.Equal(t, model.StatusAccepted, board[0].Status)

		_, err = f.svc.Accept(context.Background(), surveyor, "b-1")

		var stale *model.StaleTransitionError
		require.ErrorAs(t, err, &stale)

		effects.wait(t, 2, 1)
	})

	t.Run("after a store change", func(t *testing.T) {
		f := newFixture(t)

		memory := newMemoryCache(nil)
		memory.wire(f.cache)

		gomock.InOrder(
			f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return([]model.Booking{inspection("b-1", model.StatusPending)}, nil),
			f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return([]model.Booking{inspection("b-1", model.StatusDeclined)}, nil),
		)

		parked, release := memory.holdNextSave()

		_, err := f.svc.GetAll(context.Background(), surveyor)
		require.NoError(t, err)

		select {
		case <-parked:
		case <-time.After(time.Second):
			t.Fatal("collection was not saved")
		}

		f.svc.HandleStoreChange(context.Background(), kafkaGo.Message{
			Key:   []byte("b-1"),
			Value: []byte(`{"bookingId":"b-1","status":"Declined"}`),
		})

		close(release)
		require.Eventually(t, func() bool { return memory.savedCount() == 1 }, time.Second, time.Millisecond)

		board, err := f.svc.GetAll(context.Background(), surveyor)
		require.NoError(t, err)
		require.Len(t, board, 1)
		assert.Equal(t, model.StatusDeclined, board[0].Status)
	})
}

func TestBookingService_TransitionErrors(t *testing.T) {
	transportErr := errors.New("dial tcp: connection refused")

	tests := []struct {
		name            string
		action          model.Action
		setupMock       func(f fixture)
		wantStale       bool
		wantReason      string
		wantCause       error
		wantPublished   int32
		wantInvalidated bool
	}{
		{
			name:   "store conflict",
			action: model.ActionAccept,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Accept(gomock.Any(), "b-1").Return(model.Booking{}, &recordstore.Error{StatusCode: 409, Reason: "already declined"})
			},
			wantStale: true,
		},
		{
			name:   "store answers with another status",
			action: model.ActionAccept,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Accept(gomock.Any(), "b-1").Return(inspection("b-1", model.StatusDeclined), nil)
			},
			wantStale: true,
		},
		{
			name:   "store failure with reason",
			action: model.ActionDecline,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Decline(gomock.Any(), "b-1").Return(model.Booking{}, &recordstore.Error{StatusCode: 422, Reason: "booking is locked"})
			},
			wantReason: "booking is locked",
		},
		{
			name:   "transport failure",
			action: model.ActionAccept,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Accept(gomock.Any(), "b-1").Return(model.Booking{}, transportErr)
			},
			wantCause: transportErr,
		},
		{
			name:   "resync failure",
			action: model.ActionAccept,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Accept(gomock.Any(), "b-1").Return(inspection("b-1", model.StatusAccepted), nil)
				f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return(nil, transportErr).Times(1)
			},
			wantReason:      "booking was updated but the refreshed list could not be loaded",
			wantCause:       transportErr,
			wantPublished:   1,
			wantInvalidated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			effects := f.quietSideEffects()

			memory := newMemoryCache(nil)
			memory.wire(f.cache)
			tt.setupMock(f)

			var err error
			if tt.action == model.ActionDecline {
				_, err = f.svc.Decline(context.Background(), surveyor, "b-1")
			} else {
				_, err = f.svc.Accept(context.Background(), surveyor, "b-1")
			}

			effects.wait(t, 1, tt.wantPublished)

			require.Error(t, err)

			if tt.wantInvalidated {
				assert.Equal(t, int64(1), memory.currentGeneration())
			} else {
				assert.Zero(t, memory.currentGeneration())
			}

			if tt.wantStale {
				var stale *model.StaleTransitionError
				assert.ErrorAs(t, err, &stale)

				return
			}

			var failed *model.TransitionFailedError
			require.ErrorAs(t, err, &failed)
			assert.Equal(t, tt.wantReason, failed.Reason)

			if tt.wantCause != nil {
				assert.ErrorIs(t, err, tt.wantCause)
			}
		})
	}
}

func TestBookingService_JournalsAndPublishes(t *testing.T) {
	f := newFixture(t)

	memory := newMemoryCache([]model.Booking{inspection("b-1", model.StatusPending)})
	memory.wire(f.cache)

	recorded := make(chan transitionDto.RecordTransitionRequest, 1)
	published := make(chan string, 1)

	f.repo.EXPECT().Decline(gomock.Any(), "b-1").Return(inspection("b-1", model.StatusDeclined), nil)
	f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return([]model.Booking{inspection("b-1", model.StatusDeclined)}, nil)
	f.transitions.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req transitionDto.RecordTransitionRequest) error {
			recorded <- req

			return nil
		})
	f.kafka.EXPECT().
		SendMessages(gomock.Any(), "booking.transitions", gomock.Any()).
		DoAndReturn(func(_ context.Context, topic string, _ ...any) error {
			published <- topic

			return nil
		})

	_, err := f.svc.Decline(context.Background(), surveyor, "b-1")
	require.NoError(t, err)

	select {
	case req := <-recorded:
		assert.Equal(t, transitionModel.OutcomeApplied, req.Outcome)
		assert.Equal(t, "Pending", req.FromStatus)
		assert.Equal(t, "Declined", req.ToStatus)
		assert.Equal(t, "surveyor", req.ActorRole)
	case <-time.After(time.Second):
		t.Fatal("transition was not journaled")
	}

	select {
	case topic := <-published:
		assert.Equal(t, "booking.transitions", topic)
	case <-time.After(time.Second):
		t.Fatal("transition was not published")
	}
}

// A pending booking for tomorrow 9:00 AM is hidden from an accepted-only
// board; once accepted it shows up as upcoming with a positive countdown.
func TestBookingService_AcceptedBookingBecomesUpcoming(t *testing.T) {
	f := newFixture(t)
	effects := f.quietSideEffects()

	memory := newMemoryCache([]model.Booking{inspection("b-1", model.StatusPending)})
	memory.wire(f.cache)

	resolver := schedule.NewResolver(time.UTC)
	now := time.Date(2025, 3, 13, 15, 0, 0, 0, time.UTC)
	req := dto.ListBookingsRequest{}

	bookings, err := f.svc.GetAll(context.Background(), surveyor)
	require.NoError(t, err)

	var before dto.BookingBoardResponse
	before.FromModels(bookings, resolver, req, surveyor.Role, now)
	assert.Empty(t, before.Upcoming)
	assert.Empty(t, before.Active)

	f.repo.EXPECT().Accept(gomock.Any(), "b-1").Return(inspection("b-1", model.StatusAccepted), nil)
	f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return([]model.Booking{inspection("b-1", model.StatusAccepted)}, nil)

	bookings, err = f.svc.Accept(context.Background(), surveyor, "b-1")
	require.NoError(t, err)

	var after dto.BookingBoardResponse
	after.FromModels(bookings, resolver, req, surveyor.Role, now)

	require.Len(t, after.Upcoming, 1)
	assert.Empty(t, after.Active)

	row := after.Upcoming[0]
	assert.Equal(t, "b-1", row.ID)
	assert.Equal(t, "upcoming", row.Classification)
	assert.Equal(t, "18h 0m 0s", row.Countdown.Label)
	assert.Contains(t, []string{"normal", "warning"}, row.Countdown.Urgency)
	assert.Equal(t, "Sam Surveyor", row.Counterpart)

	effects.wait(t, 1, 1)
}

func TestBookingService_GetAll(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)
		memory := newMemoryCache([]model.Booking{inspection("b-1", model.StatusPending)})
		memory.wire(f.cache)

		res, err := f.svc.GetAll(context.Background(), surveyor)

		require.NoError(t, err)
		assert.Len(t, res, 1)
	})

	t.Run("cache miss fetches and stores", func(t *testing.T) {
		f := newFixture(t)
		memory := newMemoryCache(nil)
		memory.wire(f.cache)

		f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return([]model.Booking{inspection("b-2", model.StatusAccepted)}, nil)

		res, err := f.svc.GetAll(context.Background(), surveyor)

		require.NoError(t, err)
		assert.Len(t, res, 1)
		require.Eventually(t, func() bool { return memory.savedCount() == 1 }, time.Second, time.Millisecond)
		assert.Equal(t, res, memory.current())
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		memory := newMemoryCache(nil)
		memory.wire(f.cache)

		f.repo.EXPECT().GetAllForRole(gomock.Any(), surveyor).Return(nil, errors.New("timeout"))

		_, err := f.svc.GetAll(context.Background(), surveyor)

		assert.Error(t, err)
	})
}

func TestBookingService_Get(t *testing.T) {
	f := newFixture(t)
	memory := newMemoryCache([]model.Booking{inspection("b-1", model.StatusPending)})
	memory.wire(f.cache)

	res, err := f.svc.Get(context.Background(), surveyor, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "b-1", res.ID)

	_, err = f.svc.Get(context.Background(), surveyor, "missing")
	require.Error(t, err)
	assert.Equal(t, 404, failure.GetCode(err))
}

func TestBookingService_HandleStoreChange(t *testing.T) {
	change := kafkaGo.Message{
		Key:   []byte("b-1"),
		Value: []byte(`{"bookingId":"b-1","status":"Declined"}`),
	}

	t.Run("invalidates cached collections", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.cache.EXPECT().Increment(gomock.Any(), generationKey).Return(int64(4), nil),
			f.cache.EXPECT().Clear(gomock.Any(), collectionPattern).Return(nil),
		)

		f.svc.HandleStoreChange(context.Background(), change)
	})

	t.Run("clears even when the generation cannot move", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Increment(gomock.Any(), generationKey).Return(int64(0), errors.New("connection refused"))
		f.cache.EXPECT().Clear(gomock.Any(), collectionPattern).Return(nil)

		f.svc.HandleStoreChange(context.Background(), change)
	})

	t.Run("ignores undecodable messages", func(t *testing.T) {
		f := newFixture(t)

		f.svc.HandleStoreChange(context.Background(), kafkaGo.Message{Value: []byte("not json")})
	})
}
