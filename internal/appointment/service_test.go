package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
	"github.com/medifront/frontdesk-backend/internal/store"
)

type allPatients struct{}

func (allPatients) Exists(context.Context, string) (bool, error) { return true, nil }

type failingRepo struct {
	inner Repository
	fail  bool
}

func (r *failingRepo) LoadAll(ctx context.Context) ([]*Appointment, error) {
	return r.inner.LoadAll(ctx)
}

func (r *failingRepo) ReplaceAll(ctx context.Context, records []*Appointment) error {
	if r.fail {
		return errors.New("disk full")
	}
	return r.inner.ReplaceAll(ctx, records)
}

func d(s string) dates.Date {
	parsed, err := dates.Parse(s)
	if err != nil {
		panic(err)
	}
	return parsed
}

type fixture struct {
	svc   Service
	clock *clock.Fixed
	repo  *failingRepo
	store *store.MemoryStore
}

// newFixture pins the clock at 10:00 on 2024-06-01.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	repo := &failingRepo{inner: NewSnapshotRepository(st)}
	clk := clock.NewFixed(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	return &fixture{
		svc:   NewService(repo, allPatients{}, clk),
		clock: clk,
		repo:  repo,
		store: st,
	}
}

func (f *fixture) book(t *testing.T, patient, date, hhmm string) *Appointment {
	t.Helper()
	appt, err := f.svc.Book(context.Background(), BookRequest{
		PatientID: patient,
		Date:      d(date),
		Time:      hhmm,
	})
	require.NoError(t, err)
	return appt
}

func TestBookAndSlotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t, "P1", "2024-06-02", "09:30")
	assert.Equal(t, StatusPending, appt.Status)

	// Exact same slot is taken, regardless of patient.
	_, err := f.svc.Book(ctx, BookRequest{PatientID: "P2", Date: d("2024-06-02"), Time: "09:30"})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Adjacent slots and the same time on another day are free.
	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P2", Date: d("2024-06-02"), Time: "10:00"})
	assert.NoError(t, err)
	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P2", Date: d("2024-06-03"), Time: "09:30"})
	assert.NoError(t, err)
}

func TestBookValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, BookRequest{PatientID: "P1", Date: d("2024-06-02"), Time: "0930"})
	assert.Error(t, err)

	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P1", Date: d("2024-06-02"), Time: "25:00"})
	assert.Error(t, err)

	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P1", Date: d("2024-05-31"), Time: "09:30"})
	assert.ErrorIs(t, err, ErrPastDate)

	// The clock reads 10:00; earlier today is gone, the current minute and
	// later today are bookable.
	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P1", Date: d("2024-06-01"), Time: "09:30"})
	assert.ErrorIs(t, err, ErrPastTime)

	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P1", Date: d("2024-06-01"), Time: "09:59"})
	assert.ErrorIs(t, err, ErrPastTime)

	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P1", Date: d("2024-06-01"), Time: "10:00"})
	assert.NoError(t, err)

	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P1", Date: d("2024-06-01"), Time: "16:30"})
	assert.NoError(t, err)
}

func TestCancelFreesTheSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t, "P1", "2024-06-02", "09:30")

	got, err := f.svc.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	// Cancelled bookings no longer hold the slot.
	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P2", Date: d("2024-06-02"), Time: "09:30"})
	assert.NoError(t, err)

	// Cancelling twice hits the terminal guard.
	_, err = f.svc.Cancel(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestRescheduleExcludesOwnSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t, "P1", "2024-06-02", "09:30")
	f.book(t, "P2", "2024-06-02", "10:00")

	// Moving onto another booking conflicts, and changes nothing.
	_, err := f.svc.Reschedule(ctx, appt.ID, d("2024-06-02"), "10:00")
	require.ErrorIs(t, err, ErrSlotTaken)
	got, err := f.svc.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "09:30", got.Time)

	// Re-confirming its own slot is not a conflict.
	got, err = f.svc.Reschedule(ctx, appt.ID, d("2024-06-02"), "09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", got.Time)

	// A genuine move frees the old slot.
	got, err = f.svc.Reschedule(ctx, appt.ID, d("2024-06-03"), "11:00")
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(d("2024-06-03")))
	assert.Equal(t, "11:00", got.Time)

	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P3", Date: d("2024-06-02"), Time: "09:30"})
	assert.NoError(t, err)
}

func TestRescheduleGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t, "P1", "2024-06-02", "09:30")

	_, err := f.svc.Reschedule(ctx, appt.ID, d("2024-05-01"), "09:30")
	assert.ErrorIs(t, err, ErrPastDate)

	_, err = f.svc.Reschedule(ctx, "missing", d("2024-06-03"), "09:30")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	_, err = f.svc.Reschedule(ctx, appt.ID, d("2024-06-03"), "09:30")
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t, "P1", "2024-06-02", "09:30")

	got, err := f.svc.SetStatus(ctx, appt.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	got, err = f.svc.SetStatus(ctx, appt.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	// Completed is terminal.
	_, err = f.svc.SetStatus(ctx, appt.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrTerminalStatus)

	_, err = f.svc.SetStatus(ctx, appt.ID, Status("Waitlisted"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDeleteOnlyTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t, "P1", "2024-06-02", "09:30")

	err := f.svc.Delete(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrNotTerminal)

	_, err = f.svc.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, appt.ID))

	_, err = f.svc.GetByID(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookedTimesSkipsCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, "P1", "2024-06-02", "09:00")
	cancelled := f.book(t, "P2", "2024-06-02", "09:30")
	f.book(t, "P3", "2024-06-03", "09:00")
	_, err := f.svc.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	times, err := f.svc.BookedTimes(ctx, d("2024-06-02"))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, times)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, "P1", "2024-06-02", "09:00")
	a2 := f.book(t, "P1", "2024-06-03", "09:00")
	f.book(t, "P2", "2024-06-02", "10:00")
	_, err := f.svc.SetStatus(ctx, a2.ID, StatusConfirmed)
	require.NoError(t, err)

	byPatient, err := f.svc.List(ctx, Filter{PatientID: "P1"})
	require.NoError(t, err)
	assert.Len(t, byPatient, 2)

	day := d("2024-06-02")
	byDay, err := f.svc.List(ctx, Filter{Date: &day})
	require.NoError(t, err)
	assert.Len(t, byDay, 2)

	confirmed, err := f.svc.List(ctx, Filter{Status: string(StatusConfirmed)})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, a2.ID, confirmed[0].ID)
}

func TestFailedPersistRollsBackBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.repo.fail = true
	_, err := f.svc.Book(ctx, BookRequest{PatientID: "P1", Date: d("2024-06-02"), Time: "09:30"})
	require.Error(t, err)

	// The slot is free again.
	f.repo.fail = false
	_, err = f.svc.Book(ctx, BookRequest{PatientID: "P2", Date: d("2024-06-02"), Time: "09:30"})
	assert.NoError(t, err)
}

func TestLoadRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t, "P1", "2024-06-02", "09:30")

	reloaded := NewService(NewSnapshotRepository(f.store), allPatients{}, f.clock)
	require.NoError(t, reloaded.Load(ctx))

	got, err := reloaded.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "P1", got.PatientID)
	assert.Equal(t, "09:30", got.Time)
	assert.True(t, got.Date.Equal(d("2024-06-02")))

	// Conflicts hold across the reload.
	_, err = reloaded.Book(ctx, BookRequest{PatientID: "P2", Date: d("2024-06-02"), Time: "09:30"})
	assert.ErrorIs(t, err, ErrSlotTaken)
}
