package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"conferenceplanner/internal/domain"
	"conferenceplanner/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	createErr error // if set, Create returns this error
	updateErr error // if set, Update returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	e.Version = 1
	f.nextID++
	stored := *e
	f.byID[e.ID] = &stored
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	e.Version++
	stored := *e
	f.byID[e.ID] = &stored
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) ListByRoomAndTime(ctx context.Context, roomID string, startTime time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.RoomID == roomID && e.StartTime.Equal(startTime) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByNameAndDate(ctx context.Context, name string, date time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		ey, em, ed := e.StartTime.Date()
		dy, dm, dd := date.Date()
		if ey == dy && em == dm && ed == dd && strings.EqualFold(e.Name, name) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests. conflicts fails that
// many UpdateFavorites calls with ErrVersionConflict before letting one through.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	conflicts int
	updates   int
	createErr error // if set, Create returns this error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	u.ID = fmt.Sprintf("user-%d", len(f.byID)+1)
	u.Version = 1
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.Favorites = append([]string(nil), u.Favorites...)
	return &cp, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) UpdateFavorites(ctx context.Context, userID string, favorites []string, version int64) error {
	f.updates++
	if f.conflicts > 0 {
		f.conflicts--
		return domain.ErrVersionConflict
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if u.Version != version {
		return domain.ErrVersionConflict
	}
	u.Favorites = append([]string(nil), favorites...)
	u.Version++
	return nil
}

func (f *fakeUserRepo) ListByFavoriteEvent(ctx context.Context, eventID string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byID {
		if u.IsFavorite(eventID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountFavorites(ctx context.Context, eventIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, id := range eventIDs {
		for _, u := range f.byID {
			if u.IsFavorite(id) {
				counts[id]++
			}
		}
	}
	return counts, nil
}

// fakeEmailService records cancellation notices; other methods no-op.
type fakeEmailService struct {
	cancelErr error
	cancelled []*domain.EventCancelledEmailData
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	return nil
}

func (f *fakeEmailService) SendEventCancelled(ctx context.Context, data *domain.EventCancelledEmailData) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, data)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testValidator(repo domain.EventRepository) *validation.EventValidator {
	window := validation.Window{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 7, 23, 59, 59, 0, time.UTC),
	}
	return validation.NewEventValidator(repo, window)
}

func schedulableEvent() *domain.Event {
	return &domain.Event{
		Name:        "Kickoff",
		Description: "Opening talk",
		Speakers:    []string{"Dana Scully"},
		RoomID:      "r1",
		StartTime:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		BeamerCode:  1234,
		BeamerCheck: 70,
		Price:       49.99,
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, newFakeUserRepo(), testValidator(repo), nil, testLogger())

		ev := schedulableEvent()
		fieldErrs, err := svc.Create(ctx, ev)
		require.NoError(t, err)
		require.Empty(t, fieldErrs)
		require.NotEmpty(t, ev.ID)
		assert.False(t, ev.CreatedAt.IsZero())
		assert.False(t, ev.UpdatedAt.IsZero())
		_, ok := repo.byID[ev.ID]
		assert.True(t, ok)
	})

	t.Run("field errors block persistence", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, newFakeUserRepo(), testValidator(repo), nil, testLogger())

		ev := schedulableEvent()
		ev.Price = 5.00
		fieldErrs, err := svc.Create(ctx, ev)
		require.NoError(t, err)
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, domain.CodePriceOutOfRange, fieldErrs[0].Code)
		assert.Empty(t, repo.byID)
	})

	t.Run("lost race on room slot maps to field error", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.createErr = fmt.Errorf("create event: %w",
			&domain.UniqueViolationError{Constraint: constraintRoomTime})
		svc := NewEventService(repo, newFakeUserRepo(), testValidator(repo), nil, testLogger())

		fieldErrs, err := svc.Create(ctx, schedulableEvent())
		require.NoError(t, err)
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, domain.CodeRoomUnavailable, fieldErrs[0].Code)
		assert.Equal(t, "room", fieldErrs[0].Field)
	})

	t.Run("lost race on name maps to field error", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.createErr = &domain.UniqueViolationError{Constraint: constraintNameDate}
		svc := NewEventService(repo, newFakeUserRepo(), testValidator(repo), nil, testLogger())

		fieldErrs, err := svc.Create(ctx, schedulableEvent())
		require.NoError(t, err)
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, domain.CodeNameExists, fieldErrs[0].Code)
	})

	t.Run("unrelated repo error passes through", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.createErr = errors.New("db down")
		svc := NewEventService(repo, newFakeUserRepo(), testValidator(repo), nil, testLogger())

		fieldErrs, err := svc.Create(ctx, schedulableEvent())
		require.Error(t, err)
		assert.Empty(t, fieldErrs)
	})
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, newFakeUserRepo(), testValidator(repo), nil, testLogger())

		ev := schedulableEvent()
		ev.ID = "missing"
		_, err := svc.Update(ctx, ev)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("success preserves creation stamp and version", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, newFakeUserRepo(), testValidator(repo), nil, testLogger())

		ev := schedulableEvent()
		_, err := svc.Create(ctx, ev)
		require.NoError(t, err)
		created := ev.CreatedAt

		upd := schedulableEvent()
		upd.ID = ev.ID
		upd.Description = "Revised abstract"
		fieldErrs, err := svc.Update(ctx, upd)
		require.NoError(t, err)
		require.Empty(t, fieldErrs)
		assert.Equal(t, created, upd.CreatedAt)
		assert.Equal(t, int64(2), upd.Version)
	})

	t.Run("moving onto an occupied slot fails", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, newFakeUserRepo(), testValidator(repo), nil, testLogger())

		first := schedulableEvent()
		_, err := svc.Create(ctx, first)
		require.NoError(t, err)

		second := schedulableEvent()
		second.Name = "Closing"
		second.StartTime = first.StartTime.Add(2 * time.Hour)
		_, err = svc.Create(ctx, second)
		require.NoError(t, err)

		moved := schedulableEvent()
		moved.ID = second.ID
		moved.Name = second.Name
		fieldErrs, err := svc.Update(ctx, moved)
		require.NoError(t, err)
		require.Len(t, fieldErrs, 1)
		assert.Equal(t, domain.CodeRoomUnavailable, fieldErrs[0].Code)
	})
}

func TestEventService_List(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()

	seed := func(name, roomID string, start time.Time, price float64) *domain.Event {
		e := schedulableEvent()
		e.Name = name
		e.RoomID = roomID
		e.StartTime = start
		e.Price = price
		require.NoError(t, repo.Create(ctx, e))
		return e
	}

	day2 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	a := seed("Alpha Testing", "r1", day2, 20)
	b := seed("Beta Release", "r2", day2, 40)
	c := seed("Gamma Rays", "r1", day3, 60)

	users := newFakeUserRepo(
		&domain.User{ID: "u1", Favorites: []string{b.ID}, Version: 1},
		&domain.User{ID: "u2", Favorites: []string{b.ID, c.ID}, Version: 1},
	)
	svc := NewEventService(repo, users, testValidator(repo), nil, testLogger())

	t.Run("no filter sorts by start time", func(t *testing.T) {
		got, err := svc.List(ctx, domain.EventFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, c.ID, got[2].ID)
	})

	t.Run("filter by room", func(t *testing.T) {
		got, err := svc.List(ctx, domain.EventFilter{RoomID: "r1"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("filter by max price", func(t *testing.T) {
		max := 40.0
		got, err := svc.List(ctx, domain.EventFilter{MaxPrice: &max})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("filter by date range", func(t *testing.T) {
		from := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
		got, err := svc.List(ctx, domain.EventFilter{DateFrom: &from})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, c.ID, got[0].ID)
	})

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		got, err := svc.List(ctx, domain.EventFilter{Search: "alpha"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, a.ID, got[0].ID)
	})

	t.Run("search matches speakers", func(t *testing.T) {
		got, err := svc.List(ctx, domain.EventFilter{Search: "scully"})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("sort by price descending", func(t *testing.T) {
		got, err := svc.List(ctx, domain.EventFilter{Sort: domain.SortPriceDesc})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, c.ID, got[0].ID)
		assert.Equal(t, a.ID, got[2].ID)
	})

	t.Run("sort by popularity", func(t *testing.T) {
		got, err := svc.List(ctx, domain.EventFilter{Sort: domain.SortPopularity})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, b.ID, got[0].ID)
	})
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, newFakeUserRepo(), testValidator(repo), nil, testLogger())
		require.ErrorIs(t, svc.Delete(ctx, "missing"), domain.ErrNotFound)
	})

	t.Run("notifies users who favorited the event", func(t *testing.T) {
		repo := newFakeEventRepo()
		ev := schedulableEvent()
		require.NoError(t, repo.Create(ctx, ev))

		users := newFakeUserRepo(
			&domain.User{ID: "u1", Username: "alice", Email: "alice@example.com", Favorites: []string{ev.ID}, Version: 1},
			&domain.User{ID: "u2", Username: "bob", Favorites: []string{ev.ID}, Version: 1}, // no email address
			&domain.User{ID: "u3", Username: "carol", Email: "carol@example.com", Version: 1},
		)
		email := &fakeEmailService{}
		svc := NewEventService(repo, users, testValidator(repo), email, testLogger())

		require.NoError(t, svc.Delete(ctx, ev.ID))
		_, ok := repo.byID[ev.ID]
		assert.False(t, ok)
		require.Len(t, email.cancelled, 1)
		assert.Equal(t, "alice@example.com", email.cancelled[0].Email)
		assert.Equal(t, "Kickoff", email.cancelled[0].EventName)
	})

	t.Run("mail failure does not undo the delete", func(t *testing.T) {
		repo := newFakeEventRepo()
		ev := schedulableEvent()
		require.NoError(t, repo.Create(ctx, ev))

		users := newFakeUserRepo(
			&domain.User{ID: "u1", Username: "alice", Email: "alice@example.com", Favorites: []string{ev.ID}, Version: 1},
		)
		email := &fakeEmailService{cancelErr: errors.New("ses throttled")}
		svc := NewEventService(repo, users, testValidator(repo), email, testLogger())

		require.NoError(t, svc.Delete(ctx, ev.ID))
		_, ok := repo.byID[ev.ID]
		assert.False(t, ok)
	})
}

func TestEventService_FavoriteCounts(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	users := newFakeUserRepo(
		&domain.User{ID: "u1", Favorites: []string{"e1", "e2"}, Version: 1},
		&domain.User{ID: "u2", Favorites: []string{"e1"}, Version: 1},
	)
	svc := NewEventService(repo, users, testValidator(repo), nil, testLogger())

	counts, err := svc.FavoriteCounts(ctx, []string{"e1", "e2", "e3"})
	require.NoError(t, err)
	assert.Equal(t, 2, counts["e1"])
	assert.Equal(t, 1, counts["e2"])
	assert.Zero(t, counts["e3"])
}
