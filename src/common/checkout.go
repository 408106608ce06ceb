package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"descubre/src/config"
	"descubre/src/models"
	"descubre/src/types"

	"github.com/google/uuid"
)

// Collaborator contracts consumed by a checkout session. The gorm-backed
// implementations live in this package; tests inject fakes.
type InventorySource interface {
	TicketTypes(ctx context.Context, eventID uint) ([]models.TicketType, error)
}

type BookingService interface {
	Book(ctx context.Context, req BookingRequest) (*models.Booking, error)
}

type IdentityService interface {
	Provision(ctx context.Context, name, email string) (*Identity, error)
}

type BookingRequest struct {
	EventID      uint
	TicketTypeID uuid.UUID
	Tickets      uint
	UserID       uint
	UserName     string
	UserEmail    string
	TotalPrice   float64
}

type Identity struct {
	UserID  uint
	Name    string
	Email   string
	Token   string
	Created bool
}

var (
	ErrSessionClosed        = errors.New("checkout session is no longer active")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrValidationFailed     = errors.New("validation failed")
	ErrCheckoutExpired      = errors.New("checkout session expired")
	ErrNoTicketType         = errors.New("no ticket type selected")
	ErrTicketTypeNotFound   = errors.New("ticket type not found")
	ErrSoldOut              = errors.New("ticket type is sold out")
)

const (
	msgCheckoutExpired   = "El tiempo para completar la reserva ha expirado. Por favor, inténtalo de nuevo."
	msgInvalidDiscount   = "Código de descuento inválido. Por favor, verifica el código e inténtalo de nuevo."
	msgMissingIdentity   = "Debes proporcionar tu nombre y email para hacer una reserva"
	msgNoTicketType      = "Por favor selecciona un tipo de entrada"
	msgNotEnoughTickets  = "Lo siento, no hay suficientes entradas disponibles para esta cantidad solicitada."
	msgSignupRateLimited = "Demasiados intentos de creación de cuenta. Espera al menos 46 segundos antes de intentar de nuevo."
	msgSignupFailed      = "Error al crear la cuenta. Por favor, inténtalo de nuevo."
	msgBookingFailed     = "Error al procesar la reserva. Por favor, inténtalo de nuevo."
	msgBookingConfirmed  = "Se ha creado la reserva exitosamente"
)

// BookingDraft is the transient state of one checkout attempt. Card data
// is kept raw until submission-time validation.
type BookingDraft struct {
	Name            string
	Email           string
	TicketTypeID    string
	Tickets         int
	DiscountApplied float64
	Insurance       bool
	Card            CreditCard
	CardErrors      CardErrors
}

// Session manages the lifecycle of one booking attempt for one event:
// idle -> running -> {warning, expired, cancelled, completed}. The
// countdown runs on its own goroutine at one-second cadence and is stopped
// on every transition out of running/warning; re-opening always starts a
// fresh schedule. The session context is cancelled on expiry and passed to
// the booking call so an in-flight submission cannot commit afterwards.
type Session struct {
	ID      string
	EventID uint

	mu           sync.Mutex
	state        types.CheckoutState
	remaining    int
	warningShown bool
	draft        BookingDraft
	ticketTypes  []models.TicketType
	booking      *models.Booking
	identityRes  *Identity
	submitting   bool
	timerStop    chan struct{}
	timerStopped bool

	ctx    context.Context
	cancel context.CancelFunc

	notifier  Notifier
	inventory InventorySource
	identity  IdentityService
	booker    BookingService
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	inventory InventorySource
	identity  IdentityService
	booker    BookingService
	notifier  Notifier
}

func NewManager(inventory InventorySource, identity IdentityService, booker BookingService, notifier Notifier) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		inventory: inventory,
		identity:  identity,
		booker:    booker,
		notifier:  notifier,
	}
}

// Open starts a checkout session for an event: loads the ticket inventory
// (a failed read degrades to an empty list), auto-selects the first active
// type with availability and starts the reservation countdown.
func (m *Manager) Open(ctx context.Context, eventID uint) *Session {
	ticketTypes, err := m.inventory.TicketTypes(ctx, eventID)
	if err != nil {
		log.Printf("Error loading ticket types for event %d: %s\n", eventID, err.Error())
		ticketTypes = nil
	}

	sctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:          uuid.NewString(),
		EventID:     eventID,
		state:       types.CHECKOUT_RUNNING,
		remaining:   config.CHECKOUT_DURATION_SECONDS,
		ticketTypes: ticketTypes,
		draft: BookingDraft{
			Tickets:   1,
			Insurance: true,
		},
		timerStop: make(chan struct{}),
		ctx:       sctx,
		cancel:    cancel,
		notifier:  m.notifier,
		inventory: m.inventory,
		identity:  m.identity,
		booker:    m.booker,
	}
	for _, t := range ticketTypes {
		if t.Active && t.Quantity > 0 {
			s.draft.TicketTypeID = t.ID.String()
			break
		}
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	go s.runTimer()
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Sweep drops sessions that reached a terminal state. Scheduled
// periodically; a client re-opening checkout always gets a fresh session.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if !s.Active() {
			delete(m.sessions, id)
		}
	}
}

func (s *Session) runTimer() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.timerStop:
			return
		case <-ticker.C:
			if !s.tick() {
				return
			}
		}
	}
}

// tick advances the countdown by one second. Returns false once the
// session leaves running/warning so the timer goroutine exits.
func (s *Session) tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return false
	}
	s.remaining--
	if s.remaining == config.CHECKOUT_WARNING_SECONDS {
		s.warningShown = true
		s.state = types.CHECKOUT_WARNING
	}
	if s.remaining <= 0 {
		s.remaining = 0
		s.expireLocked()
		return false
	}
	return true
}

func (s *Session) activeLocked() bool {
	return s.state == types.CHECKOUT_RUNNING || s.state == types.CHECKOUT_WARNING
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *Session) expireLocked() {
	s.state = types.CHECKOUT_EXPIRED
	s.warningShown = false
	s.stopTimerLocked()
	s.cancel()
	s.notifier.Notify(msgCheckoutExpired, types.SEVERITY_WARNING)
}

func (s *Session) stopTimerLocked() {
	if !s.timerStopped {
		close(s.timerStop)
		s.timerStopped = true
	}
}

// Extend adds a fixed increment to the remaining time and clears the
// warning flag. It does not reset the full duration.
func (s *Session) Extend() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ErrSessionClosed
	}
	s.remaining += config.CHECKOUT_EXTENSION_SECONDS
	s.warningShown = false
	s.state = types.CHECKOUT_RUNNING
	return nil
}

// Cancel is the user-initiated abandonment: stops the countdown, clears
// the draft and returns the session to its pre-checkout shape.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ErrSessionClosed
	}
	s.state = types.CHECKOUT_CANCELED
	s.warningShown = false
	s.stopTimerLocked()
	s.cancel()
	s.draft = BookingDraft{Tickets: 1, Insurance: true}
	return nil
}

func (s *Session) selectedLocked() *models.TicketType {
	if s.draft.TicketTypeID == "" {
		return nil
	}
	for i := range s.ticketTypes {
		if s.ticketTypes[i].ID.String() == s.draft.TicketTypeID {
			return &s.ticketTypes[i]
		}
	}
	return nil
}

func maxSelectable(t *models.TicketType) int {
	max := uint(config.MAX_TICKETS_FALLBACK)
	if t.MaxQuantity != nil && *t.MaxQuantity > 0 {
		max = *t.MaxQuantity
	}
	if t.Quantity < max {
		max = t.Quantity
	}
	return int(max)
}

// SelectTicketType sets the current ticket type. Sold-out types may be
// selected for inspection; the quantity is re-clamped into the new type's
// valid range when it has availability.
func (s *Session) SelectTicketType(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ErrSessionClosed
	}
	var target *models.TicketType
	for i := range s.ticketTypes {
		if s.ticketTypes[i].ID.String() == id {
			target = &s.ticketTypes[i]
			break
		}
	}
	if target == nil {
		return ErrTicketTypeNotFound
	}
	s.draft.TicketTypeID = id
	if target.Quantity > 0 {
		max := maxSelectable(target)
		if s.draft.Tickets < 1 {
			s.draft.Tickets = 1
		}
		if s.draft.Tickets > max {
			s.draft.Tickets = max
		}
	}
	return nil
}

// SetQuantity validates the requested count against the selected type:
// 1..min(available_quantity, max_quantity or the fallback cap).
func (s *Session) SetQuantity(tickets int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ErrSessionClosed
	}
	t := s.selectedLocked()
	if t == nil {
		return ErrNoTicketType
	}
	if t.Quantity == 0 {
		return ErrSoldOut
	}
	max := maxSelectable(t)
	if tickets < 1 || tickets > max {
		return fmt.Errorf("quantity must be between 1 and %d", max)
	}
	s.draft.Tickets = tickets
	return nil
}

func (s *Session) SetContact(name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ErrSessionClosed
	}
	s.draft.Name = name
	s.draft.Email = email
	return nil
}

func (s *Session) SetInsurance(selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ErrSessionClosed
	}
	s.draft.Insurance = selected
	return nil
}

func (s *Session) SetCard(card CreditCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ErrSessionClosed
	}
	card.Number = FormatCardNumber(card.Number)
	card.Expiry = FormatExpiry(card.Expiry)
	s.draft.Card = card
	s.draft.CardErrors = CardErrors{}
	return nil
}

// ApplyDiscount resolves a code against the fixed rate table using the
// current subtotal. A recognized code replaces any previously applied
// amount; an unrecognized one emits a warning and leaves state unchanged.
// Applying with no ticket type selected is a no-op.
func (s *Session) ApplyDiscount(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeLocked() {
		return ErrSessionClosed
	}
	code = NormalizeDiscountCode(code)
	t := s.selectedLocked()
	if code == "" || t == nil {
		return nil
	}
	rate, ok := discountRates[code]
	if !ok {
		s.notifier.Notify(msgInvalidDiscount, types.SEVERITY_WARNING)
		return nil
	}
	subtotal := t.Price * float64(s.draft.Tickets)
	s.draft.DiscountApplied = math.Round(subtotal * rate)
	return nil
}

func (s *Session) breakdownLocked() *PriceBreakdown {
	t := s.selectedLocked()
	if t == nil {
		return nil
	}
	return CalculatePriceBreakdown(t.Price, s.draft.Tickets, s.draft.Insurance, s.draft.DiscountApplied)
}

// Breakdown recomputes the price breakdown from the current draft. Returns
// nil when no ticket type is selected.
func (s *Session) Breakdown() *PriceBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breakdownLocked()
}

func (s *Session) refreshInventoryLocked() {
	ticketTypes, err := s.inventory.TicketTypes(context.Background(), s.EventID)
	if err != nil {
		log.Printf("Error refreshing ticket types for event %d: %s\n", s.EventID, err.Error())
		return
	}
	s.ticketTypes = ticketTypes
	if t := s.selectedLocked(); t != nil && t.Quantity > 0 {
		if max := maxSelectable(t); s.draft.Tickets > max {
			s.draft.Tickets = max
		}
	}
}

// Submit runs the client-side preconditions, provisions an identity when
// needed and invokes the booking service. The result is only committed
// while the session is still active: a response that arrives after expiry
// or cancellation is discarded.
func (s *Session) Submit(ctx context.Context) (*models.Booking, error) {
	s.mu.Lock()
	if !s.activeLocked() {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	if strings.TrimSpace(s.draft.Name) == "" || strings.TrimSpace(s.draft.Email) == "" {
		s.mu.Unlock()
		s.notifier.Notify(msgMissingIdentity, types.SEVERITY_WARNING)
		return nil, ErrValidationFailed
	}
	t := s.selectedLocked()
	if t == nil {
		s.mu.Unlock()
		s.notifier.Notify(msgNoTicketType, types.SEVERITY_WARNING)
		return nil, ErrValidationFailed
	}
	if t.Quantity == 0 || uint(s.draft.Tickets) > t.Quantity {
		s.mu.Unlock()
		return nil, ErrValidationFailed
	}
	s.draft.CardErrors = ValidateCreditCard(s.draft.Card, time.Now())
	if !s.draft.CardErrors.Valid() {
		s.mu.Unlock()
		return nil, ErrValidationFailed
	}

	breakdown := s.breakdownLocked()
	req := BookingRequest{
		EventID:      s.EventID,
		TicketTypeID: t.ID,
		Tickets:      uint(s.draft.Tickets),
		UserName:     s.draft.Name,
		UserEmail:    s.draft.Email,
		TotalPrice:   breakdown.Total,
	}
	name, email := s.draft.Name, s.draft.Email
	s.submitting = true
	sessionCtx := s.ctx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	// Provisioning persists even if the booking call below fails; the
	// account side effect is deliberate and documented.
	ident, err := s.identity.Provision(sessionCtx, name, email)
	if err != nil {
		if strings.Contains(err.Error(), RateLimitErrorSubstring) {
			s.notifier.Notify(msgSignupRateLimited, types.SEVERITY_WARNING)
		} else {
			log.Printf("Error provisioning identity for %s: %s\n", email, err.Error())
			s.notifier.Notify(msgSignupFailed, types.SEVERITY_ERROR)
		}
		return nil, err
	}
	req.UserID = ident.UserID

	booking, err := s.booker.Book(sessionCtx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil || !s.activeLocked() {
		// The timer won while the call was in flight; the result must
		// not overwrite the forced cancellation.
		return nil, ErrCheckoutExpired
	}
	if err != nil {
		if strings.Contains(err.Error(), AvailabilityErrorSubstring) {
			s.notifier.Notify(msgNotEnoughTickets, types.SEVERITY_WARNING)
			s.refreshInventoryLocked()
			return nil, err
		}
		log.Printf("Error creating booking: %s\n", err.Error())
		s.notifier.Notify(msgBookingFailed, types.SEVERITY_ERROR)
		return nil, err
	}

	s.identityRes = ident
	s.booking = booking
	s.state = types.CHECKOUT_COMPLETED
	s.warningShown = false
	s.stopTimerLocked()
	s.cancel()
	s.notifier.Notify(msgBookingConfirmed, types.SEVERITY_SUCCESS, 8*time.Second)
	return booking, nil
}

type DraftView struct {
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	TicketTypeID    string     `json:"ticket_type_id,omitempty"`
	Tickets         int        `json:"tickets"`
	DiscountApplied float64    `json:"discount_applied"`
	Insurance       bool       `json:"insurance"`
	CardErrors      CardErrors `json:"card_errors,omitempty"`
}

type SessionView struct {
	ID          string              `json:"id"`
	EventID     uint                `json:"event_id"`
	State       types.CheckoutState `json:"state"`
	Remaining   int                 `json:"time_remaining"`
	Warning     bool                `json:"timer_warning"`
	Draft       DraftView           `json:"draft"`
	TicketTypes []models.TicketType `json:"ticket_types"`
	Breakdown   *PriceBreakdown     `json:"price_breakdown,omitempty"`
	Booking     *models.Booking     `json:"booking,omitempty"`
	Token       string              `json:"token,omitempty"`
}

// Snapshot projects the current state for the API; the UI renders it
// without deriving any state of its own.
func (s *Session) Snapshot() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := SessionView{
		ID:        s.ID,
		EventID:   s.EventID,
		State:     s.state,
		Remaining: s.remaining,
		Warning:   s.warningShown,
		Draft: DraftView{
			Name:            s.draft.Name,
			Email:           s.draft.Email,
			TicketTypeID:    s.draft.TicketTypeID,
			Tickets:         s.draft.Tickets,
			DiscountApplied: s.draft.DiscountApplied,
			Insurance:       s.draft.Insurance,
			CardErrors:      s.draft.CardErrors,
		},
		TicketTypes: s.ticketTypes,
		Breakdown:   s.breakdownLocked(),
		Booking:     s.booking,
	}
	if s.identityRes != nil {
		view.Token = s.identityRes.Token
	}
	return view
}
