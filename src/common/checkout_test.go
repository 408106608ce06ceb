package common

import (
	"context"
	"sync"
	"testing"
	"time"

	"descubre/src/models"
	"descubre/src/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Notify(message string, severity types.Severity, duration ...time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

func (f *fakeNotifier) count(message string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.messages {
		if m == message {
			n++
		}
	}
	return n
}

type fakeInventory struct {
	ticketTypes []models.TicketType
	err         error
}

func (f *fakeInventory) TicketTypes(ctx context.Context, eventID uint) ([]models.TicketType, error) {
	return f.ticketTypes, f.err
}

type fakeIdentity struct {
	ident *Identity
	err   error
}

func (f *fakeIdentity) Provision(ctx context.Context, name, email string) (*Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.ident != nil {
		return f.ident, nil
	}
	return &Identity{UserID: 1, Name: name, Email: email, Token: "token"}, nil
}

type fakeBooker struct {
	mu      sync.Mutex
	calls   int
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeBooker) Book(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.Booking{
		ID:         uuid.New(),
		EventID:    req.EventID,
		Tickets:    req.Tickets,
		TotalPrice: req.TotalPrice,
		Status:     types.BOOKING_CONFIRMED,
	}, nil
}

func (f *fakeBooker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func uptr(v uint) *uint { return &v }

func testTicketTypes() []models.TicketType {
	return []models.TicketType{
		{ID: uuid.New(), EventID: 1, Name: "General", Price: 1000, Quantity: 50, Active: true},
		{ID: uuid.New(), EventID: 1, Name: "VIP", Price: 2000, MaxQuantity: uptr(4), Quantity: 20, Active: true},
	}
}

func newTestManager(inv *fakeInventory, booker *fakeBooker) (*Manager, *fakeNotifier) {
	notifier := &fakeNotifier{}
	if inv == nil {
		inv = &fakeInventory{ticketTypes: testTicketTypes()}
	}
	if booker == nil {
		booker = &fakeBooker{}
	}
	return NewManager(inv, &fakeIdentity{}, booker, notifier), notifier
}

// stopBackgroundTimer detaches the wall-clock countdown so tests can drive
// ticks deterministically.
func stopBackgroundTimer(s *Session) {
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
}

func fillContactAndCard(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.SetContact("Ana García", "ana@example.com"))
	require.NoError(t, s.SetCard(CreditCard{
		Number:     "4111111111111111",
		Expiry:     "12/99",
		CVV:        "123",
		HolderName: "Ana García",
	}))
}

func TestOpenDefaults(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	view := s.Snapshot()
	assert.Equal(t, types.CHECKOUT_RUNNING, view.State)
	assert.Equal(t, 300, view.Remaining)
	assert.Equal(t, 1, view.Draft.Tickets)
	assert.True(t, view.Draft.Insurance)
	assert.Equal(t, view.TicketTypes[0].ID.String(), view.Draft.TicketTypeID)
}

func TestOpenSkipsSoldOutTypes(t *testing.T) {
	tts := testTicketTypes()
	tts[0].Quantity = 0
	m, _ := newTestManager(&fakeInventory{ticketTypes: tts}, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	assert.Equal(t, tts[1].ID.String(), s.Snapshot().Draft.TicketTypeID)
}

func TestOpenSurvivesInventoryFailure(t *testing.T) {
	m, _ := newTestManager(&fakeInventory{err: assert.AnError}, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	view := s.Snapshot()
	assert.Equal(t, types.CHECKOUT_RUNNING, view.State)
	assert.Empty(t, view.TicketTypes)
	assert.Empty(t, view.Draft.TicketTypeID)
	assert.Nil(t, view.Breakdown)
}

func TestCountdownWarningThreshold(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	for i := 0; i < 179; i++ {
		require.True(t, s.tick())
	}
	view := s.Snapshot()
	assert.Equal(t, 121, view.Remaining)
	assert.False(t, view.Warning)

	require.True(t, s.tick())
	view = s.Snapshot()
	assert.Equal(t, 120, view.Remaining)
	assert.True(t, view.Warning)
	assert.Equal(t, types.CHECKOUT_WARNING, view.State)
}

func TestExtendClearsWarning(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	for i := 0; i < 180; i++ {
		s.tick()
	}
	require.True(t, s.Snapshot().Warning)

	require.NoError(t, s.Extend())
	view := s.Snapshot()
	assert.Equal(t, 240, view.Remaining)
	assert.False(t, view.Warning)
	assert.Equal(t, types.CHECKOUT_RUNNING, view.State)

	// The warning threshold re-arms after an extension.
	for i := 0; i < 120; i++ {
		s.tick()
	}
	assert.True(t, s.Snapshot().Warning)
}

func TestExpiryNotifiesOnce(t *testing.T) {
	m, notifier := newTestManager(nil, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	for i := 0; i < 300; i++ {
		s.tick()
	}
	view := s.Snapshot()
	assert.Equal(t, types.CHECKOUT_EXPIRED, view.State)
	assert.Equal(t, 0, view.Remaining)
	assert.False(t, view.Warning)
	assert.False(t, s.Active())
	assert.Equal(t, 1, notifier.count(msgCheckoutExpired))

	// Further ticks and mutations are rejected without more notifications.
	assert.False(t, s.tick())
	assert.ErrorIs(t, s.SetQuantity(2), ErrSessionClosed)
	assert.ErrorIs(t, s.Extend(), ErrSessionClosed)
	assert.Equal(t, 1, notifier.count(msgCheckoutExpired))
}

func TestCancelResetsDraft(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	require.NoError(t, s.SetContact("Ana", "ana@example.com"))
	require.NoError(t, s.SetQuantity(3))
	require.NoError(t, s.Cancel())

	view := s.Snapshot()
	assert.Equal(t, types.CHECKOUT_CANCELED, view.State)
	assert.Empty(t, view.Draft.Name)
	assert.Equal(t, 1, view.Draft.Tickets)
	assert.True(t, view.Draft.Insurance)
	assert.ErrorIs(t, s.Cancel(), ErrSessionClosed)
}

func TestSetQuantityBounds(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	// General: 50 available, no per-order cap, so the fallback of 10 rules.
	assert.NoError(t, s.SetQuantity(10))
	assert.Error(t, s.SetQuantity(11))
	assert.Error(t, s.SetQuantity(0))
	assert.Error(t, s.SetQuantity(-1))
}

func TestSelectTicketTypeReclampsQuantity(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	require.NoError(t, s.SetQuantity(8))
	vip := s.Snapshot().TicketTypes[1]
	require.NoError(t, s.SelectTicketType(vip.ID.String()))

	// VIP caps orders at 4 tickets.
	assert.Equal(t, 4, s.Snapshot().Draft.Tickets)
	assert.Error(t, s.SetQuantity(5))

	assert.ErrorIs(t, s.SelectTicketType(uuid.NewString()), ErrTicketTypeNotFound)
}

func TestApplyDiscount(t *testing.T) {
	m, notifier := newTestManager(nil, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	require.NoError(t, s.SetQuantity(2))

	require.NoError(t, s.ApplyDiscount("save10"))
	assert.Equal(t, float64(200), s.Snapshot().Draft.DiscountApplied)

	// A new code replaces the previous amount instead of stacking.
	require.NoError(t, s.ApplyDiscount("WELCOME25"))
	assert.Equal(t, float64(500), s.Snapshot().Draft.DiscountApplied)

	// An unknown code warns and leaves the applied amount untouched.
	require.NoError(t, s.ApplyDiscount("BOGUS"))
	assert.Equal(t, float64(500), s.Snapshot().Draft.DiscountApplied)
	assert.Equal(t, 1, notifier.count(msgInvalidDiscount))

	require.NoError(t, s.ApplyDiscount(""))
	assert.Equal(t, 1, notifier.count(msgInvalidDiscount))
}

func TestFullDiscountTotalKeepsFees(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	require.NoError(t, s.SetInsurance(false))
	require.NoError(t, s.ApplyDiscount("FREE100"))

	b := s.Breakdown()
	require.NotNil(t, b)
	assert.Equal(t, float64(1000), b.Subtotal)
	assert.Equal(t, float64(1000), b.Discount)
	assert.Equal(t, float64(50), b.Total)
}

func TestSubmitRequiresContact(t *testing.T) {
	booker := &fakeBooker{}
	m, notifier := newTestManager(nil, booker)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 1, notifier.count(msgMissingIdentity))
	assert.Equal(t, 0, booker.callCount())
}

func TestSubmitRejectsInvalidCard(t *testing.T) {
	booker := &fakeBooker{}
	m, _ := newTestManager(nil, booker)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	require.NoError(t, s.SetContact("Ana", "ana@example.com"))
	require.NoError(t, s.SetCard(CreditCard{Number: "1234", Expiry: "13/9", CVV: "1"}))

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 0, booker.callCount())

	errs := s.Snapshot().Draft.CardErrors
	assert.False(t, errs.Valid())
	assert.NotEmpty(t, errs.Number)
	assert.NotEmpty(t, errs.HolderName)
}

func TestSubmitBlockedByAvailability(t *testing.T) {
	tts := testTicketTypes()
	tts[0].Quantity = 2
	booker := &fakeBooker{}
	m, _ := newTestManager(&fakeInventory{ticketTypes: tts}, booker)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	fillContactAndCard(t, s)
	require.NoError(t, s.SetQuantity(2))
	s.mu.Lock()
	s.draft.Tickets = 3
	s.mu.Unlock()

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, 0, booker.callCount())
}

func TestSubmitSuccess(t *testing.T) {
	booker := &fakeBooker{}
	m, notifier := newTestManager(nil, booker)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	fillContactAndCard(t, s)
	require.NoError(t, s.SetQuantity(2))

	booking, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, uint(2), booking.Tickets)

	view := s.Snapshot()
	assert.Equal(t, types.CHECKOUT_COMPLETED, view.State)
	assert.Equal(t, "token", view.Token)
	assert.NotNil(t, view.Booking)
	assert.False(t, s.Active())
	assert.Equal(t, 1, notifier.count(msgBookingConfirmed))

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, 1, booker.callCount())
}

func TestSubmitAvailabilityErrorRefreshesInventory(t *testing.T) {
	tts := testTicketTypes()
	booker := &fakeBooker{err: &availabilityError{}}
	inv := &fakeInventory{ticketTypes: tts}
	m, notifier := newTestManager(inv, booker)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	fillContactAndCard(t, s)
	require.NoError(t, s.SetQuantity(5))

	// The refresh after the rejected booking sees a reduced inventory.
	refreshed := testTicketTypes()
	refreshed[0].ID = tts[0].ID
	refreshed[0].Quantity = 3
	inv.ticketTypes = refreshed

	_, err := s.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, notifier.count(msgNotEnoughTickets))

	view := s.Snapshot()
	assert.True(t, s.Active())
	assert.Equal(t, uint(3), view.TicketTypes[0].Quantity)
	assert.Equal(t, 3, view.Draft.Tickets)
}

type availabilityError struct{}

func (availabilityError) Error() string { return AvailabilityErrorSubstring }

func TestSubmitDiscardedAfterExpiry(t *testing.T) {
	booker := &fakeBooker{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	m, notifier := newTestManager(nil, booker)
	s := m.Open(context.Background(), 1)
	stopBackgroundTimer(s)

	fillContactAndCard(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()

	<-booker.entered
	s.mu.Lock()
	s.remaining = 1
	s.mu.Unlock()
	s.tick()
	require.False(t, s.Active())
	close(booker.release)

	err := <-done
	assert.ErrorIs(t, err, ErrCheckoutExpired)

	view := s.Snapshot()
	assert.Equal(t, types.CHECKOUT_EXPIRED, view.State)
	assert.Nil(t, view.Booking)
	assert.Equal(t, 1, notifier.count(msgCheckoutExpired))
	assert.Equal(t, 0, notifier.count(msgBookingConfirmed))
}

func TestSweepDropsClosedSessions(t *testing.T) {
	m, _ := newTestManager(nil, nil)
	active := m.Open(context.Background(), 1)
	closed := m.Open(context.Background(), 1)
	stopBackgroundTimer(active)
	stopBackgroundTimer(closed)
	require.NoError(t, closed.Cancel())

	m.Sweep()

	_, ok := m.Get(active.ID)
	assert.True(t, ok)
	_, ok = m.Get(closed.ID)
	assert.False(t, ok)
}
