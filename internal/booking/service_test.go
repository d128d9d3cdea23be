package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"screening-backend/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo, *notify.MemorySender) {
	t.Helper()
	repo := NewMemoryRepo()
	repo.AddCandidate(Candidate{ID: "cand-1", Name: "Ann", Phone: "380664374069", Position: "Backend Engineer", UserID: "rec-1"})
	sender := notify.NewMemorySender()
	svc := NewService(repo, notify.NewNotifier(sender, "https://app.example.com"), nil)
	svc.clock = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc, repo, sender
}

func smsRequest() SMSConfirmRequest {
	return SMSConfirmRequest{CandidateID: "cand-1", UserID: "rec-1", SelectedDate: "2024-03-05", SelectedTime: "14:00"}
}

func TestConfirmViaSMS_BooksAndSends(t *testing.T) {
	svc, repo, sender := newTestService(t)

	res, err := svc.ConfirmViaSMS(context.Background(), smsRequest())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Ann", res.CandidateName)
	assert.Equal(t, "380664374069", res.CandidatePhone)
	require.NotNil(t, res.BookingID)
	assert.NotEmpty(t, res.SMS.SID)

	bookings := repo.Bookings()
	require.Len(t, bookings, 1)
	assert.Equal(t, *res.BookingID, bookings[0].ID)
	assert.Equal(t, StatusScheduled, bookings[0].Status)
	assert.Equal(t, "booked via SMS confirmation", bookings[0].Notes)
	assert.Equal(t, "2024-03-05T14:00:00.000Z", bookings[0].Datetime.String())

	msgs := sender.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "+380664374069", msgs[0].To)
	assert.Contains(t, msgs[0].Body, "Tuesday, March 5, 2024 at 14:00")
	assert.Contains(t, msgs[0].Body, "Backend Engineer")
}

func TestConfirmViaSMS_InsertFailureStillSendsSMS(t *testing.T) {
	svc, repo, sender := newTestService(t)
	repo.InsertErr = errors.New("connection reset")

	res, err := svc.ConfirmViaSMS(context.Background(), smsRequest())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Nil(t, res.BookingID)
	assert.NotEmpty(t, res.SMS.SID)
	assert.Equal(t, 1, repo.Inserts)
	assert.Len(t, sender.Messages(), 1)
}

func TestConfirmViaSMS_PlaceholderPhone(t *testing.T) {
	svc, repo, sender := newTestService(t)
	repo.AddCandidate(Candidate{ID: "cand-2", Name: "Bob", Phone: PlaceholderPhone, UserID: "rec-1"})

	req := smsRequest()
	req.CandidateID = "cand-2"
	_, err := svc.ConfirmViaSMS(context.Background(), req)

	var pe *PhoneUnavailableError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Bob", pe.CandidateName)
	assert.Zero(t, repo.Inserts)
	assert.Empty(t, sender.Messages())
}

func TestConfirmViaSMS_MissingPhone(t *testing.T) {
	svc, repo, sender := newTestService(t)
	repo.AddCandidate(Candidate{ID: "cand-3", Name: "Cy", UserID: "rec-1"})

	req := smsRequest()
	req.CandidateID = "cand-3"
	_, err := svc.ConfirmViaSMS(context.Background(), req)

	var pe *PhoneUnavailableError
	require.ErrorAs(t, err, &pe)
	assert.Zero(t, repo.Inserts)
	assert.Empty(t, sender.Messages())
}

func TestConfirmViaSMS_CandidateScopedToUser(t *testing.T) {
	svc, _, sender := newTestService(t)

	req := smsRequest()
	req.UserID = "rec-other"
	_, err := svc.ConfirmViaSMS(context.Background(), req)
	assert.ErrorIs(t, err, ErrCandidateNotFound)
	assert.Empty(t, sender.Messages())
}

func TestConfirmViaSMS_ReusesExistingBooking(t *testing.T) {
	svc, repo, sender := newTestService(t)

	first, err := svc.ConfirmViaSMS(context.Background(), smsRequest())
	require.NoError(t, err)
	second, err := svc.ConfirmViaSMS(context.Background(), smsRequest())
	require.NoError(t, err)

	require.NotNil(t, first.BookingID)
	require.NotNil(t, second.BookingID)
	assert.Equal(t, *first.BookingID, *second.BookingID)
	assert.Equal(t, 1, repo.Inserts)
	assert.Len(t, sender.Messages(), 2)
}

func TestConfirmViaSMS_SMSFailureKeepsBooking(t *testing.T) {
	svc, repo, sender := newTestService(t)
	sender.Err = errors.New("twilio 21211")

	res, err := svc.ConfirmViaSMS(context.Background(), smsRequest())
	assert.ErrorIs(t, err, ErrSMSFailed)
	assert.ErrorIs(t, err, notify.ErrProvider)
	assert.False(t, res.Success)
	require.NotNil(t, res.BookingID)
	assert.Len(t, repo.Bookings(), 1)
}

func TestConfirmViaSMS_InvalidDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	req := smsRequest()
	req.SelectedDate = "05/03/2024"
	_, err := svc.ConfirmViaSMS(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestJobTitleResolution(t *testing.T) {
	cases := []struct {
		name     string
		assigned string
		position string
		lookErr  error
		want     string
	}{
		{name: "assignment wins", assigned: "Staff SRE", position: "Backend Engineer", want: "Staff SRE"},
		{name: "position fallback", position: "Backend Engineer", want: "Backend Engineer"},
		{name: "literal fallback", want: "Position"},
		{name: "lookup error swallowed", position: "QA", lookErr: errors.New("timeout"), want: "QA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := NewMemoryRepo()
			repo.JobTitleErr = tc.lookErr
			c := Candidate{ID: "c", Name: "N", Phone: "+1555", Position: tc.position, UserID: "u"}
			repo.AddCandidate(c)
			if tc.assigned != "" {
				repo.AssignJob("c", tc.assigned)
			}
			sender := notify.NewMemorySender()
			svc := NewService(repo, notify.NewNotifier(sender, "https://app.example.com"), nil)

			assert.Equal(t, tc.want, svc.jobTitle(context.Background(), c))

			_, err := svc.ConfirmViaSMS(context.Background(), SMSConfirmRequest{
				CandidateID: "c", UserID: "u", SelectedDate: "2024-03-05", SelectedTime: "09:30",
			})
			require.NoError(t, err)
			require.Len(t, sender.Messages(), 1)
			assert.Contains(t, sender.Messages()[0].Body, "the "+tc.want+" position")
		})
	}
}

type fakeGuard struct {
	held     map[string]bool
	err      error
	released []string
}

func (g *fakeGuard) Acquire(ctx context.Context, key string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.held[key] {
		return false, nil
	}
	g.held[key] = true
	return true, nil
}

func (g *fakeGuard) Release(ctx context.Context, key string) error {
	delete(g.held, key)
	g.released = append(g.released, key)
	return nil
}

func TestConfirmViaSMS_GuardBusy(t *testing.T) {
	svc, repo, sender := newTestService(t)
	at, err := ComposeInstant("2024-03-05", "14:00")
	require.NoError(t, err)
	g := &fakeGuard{held: map[string]bool{guardKey("cand-1", "rec-1", at): true}}
	svc.guard = g

	_, err = svc.ConfirmViaSMS(context.Background(), smsRequest())
	assert.ErrorIs(t, err, ErrBookingInProgress)
	assert.Zero(t, repo.Inserts)
	assert.Empty(t, sender.Messages())
}

func TestConfirmViaSMS_GuardReleased(t *testing.T) {
	svc, _, _ := newTestService(t)
	g := &fakeGuard{held: map[string]bool{}}
	svc.guard = g

	_, err := svc.ConfirmViaSMS(context.Background(), smsRequest())
	require.NoError(t, err)
	assert.Len(t, g.released, 1)
	assert.Empty(t, g.held)
}

func TestConfirmViaSMS_GuardErrorProceeds(t *testing.T) {
	svc, repo, _ := newTestService(t)
	svc.guard = &fakeGuard{held: map[string]bool{}, err: errors.New("redis down")}

	res, err := svc.ConfirmViaSMS(context.Background(), smsRequest())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, repo.Inserts)
}

func TestCreateBooking(t *testing.T) {
	svc, repo, _ := newTestService(t)
	at, err := ParseInstant("2024-03-10T10:00:00Z")
	require.NoError(t, err)

	b, err := svc.CreateBooking(context.Background(), CreateRequest{CandidateID: "cand-1", UserID: "rec-1", Datetime: at})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusScheduled, b.Status)

	// no duplicate check on the direct path
	_, err = svc.CreateBooking(context.Background(), CreateRequest{CandidateID: "cand-1", UserID: "rec-1", Datetime: at, Status: "tentative"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Inserts)
}

func TestCreateBooking_Ownership(t *testing.T) {
	svc, _, _ := newTestService(t)
	at := NewInstant(time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC))

	_, err := svc.CreateBooking(context.Background(), CreateRequest{CandidateID: "cand-1", UserID: "rec-2", Datetime: at})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.CreateBooking(context.Background(), CreateRequest{CandidateID: "ghost", UserID: "rec-1", Datetime: at})
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	_, err = svc.CreateBooking(context.Background(), CreateRequest{CandidateID: "cand-1", UserID: "rec-1"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateBooking_StorageError(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.InsertErr = errors.New("unique violation")
	at := NewInstant(time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC))

	_, err := svc.CreateBooking(context.Background(), CreateRequest{CandidateID: "cand-1", UserID: "rec-1", Datetime: at})
	assert.ErrorIs(t, err, ErrStorage)
}

func TestFindExistingBookingReturnsFirstID(t *testing.T) {
	repo := NewMemoryRepo()
	at := NewInstant(time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC))
	first, err := repo.InsertBooking(context.Background(), Booking{CandidateID: "c", UserID: "u", Datetime: at, Status: StatusScheduled})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, ok, err := repo.FindExistingBooking(context.Background(), "c", "u", at)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, first.ID, got.ID)
	}
}

func TestCandidateInfoAndAvailability(t *testing.T) {
	svc, repo, _ := newTestService(t)

	info, err := svc.CandidateInfo(context.Background(), "cand-1", "rec-1")
	require.NoError(t, err)
	assert.Equal(t, CandidateInfo{ID: "cand-1", Name: "Ann", Phone: "380664374069", Position: "Backend Engineer"}, info)

	_, err = svc.CandidateInfo(context.Background(), "cand-1", "rec-2")
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	past := NewInstant(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	future := NewInstant(time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC))
	for _, b := range []Booking{
		{CandidateID: "cand-1", UserID: "rec-1", Datetime: past, Status: StatusScheduled},
		{CandidateID: "cand-1", UserID: "rec-1", Datetime: future, Status: StatusScheduled},
		{CandidateID: "cand-1", UserID: "rec-1", Datetime: future, Status: "cancelled"},
		{CandidateID: "cand-1", UserID: "rec-2", Datetime: future, Status: StatusScheduled},
	} {
		_, err := repo.InsertBooking(context.Background(), b)
		require.NoError(t, err)
	}

	slots, err := svc.Availability(context.Background(), "rec-1")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Datetime.Equal(future))
}
