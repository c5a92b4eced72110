package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "turnero/database/repository/booking"
	catalogRepo "turnero/database/repository/catalog"
	"turnero/models"
	"turnero/services/messaging"
	"turnero/services/payment"
	"turnero/services/scheduling"

	"go.uber.org/zap"
)

// Reminders schedules a courtesy message ahead of a confirmed appointment.
type Reminders interface {
	ScheduleReminder(ctx context.Context, booking *models.Booking) error
}

// Engine drives one finite-state booking conversation per customer, one
// inbound message at a time. Messages from the same customer are processed
// strictly in arrival order; different customers never block each other.
type Engine struct {
	Sessions    SessionStore
	Catalog     catalogRepo.CatalogRepository
	Bookings    bookingRepo.BookingRepository
	Calendar    *scheduling.Calendar
	Allocator   *scheduling.Allocator
	Sender      messaging.Sender
	Payments    payment.Linker // nil when the deployment takes no online payments
	Reminders   Reminders      // nil disables reminders
	BusinessID  string
	PreviewDays int
	Now         func() time.Time
	Logger      *zap.Logger

	locks sync.Map // customerID -> *sync.Mutex
}

func (e *Engine) lockFor(customerID string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(customerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// now is the engine's clock. Without an injected one it still resolves in
// the calendar's timezone so both agree on which day "today" is.
func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	if e.Calendar != nil && e.Calendar.Location != nil {
		return time.Now().In(e.Calendar.Location)
	}
	return time.Now()
}

// HandleMessage processes one inbound message from a customer and sends the
// reply over the channel. Storage failures reset the session to the menu
// with nothing partially committed; transport failures do not roll the
// session back, since the customer-visible state may still be consistent on
// retry.
func (e *Engine) HandleMessage(ctx context.Context, customerID, text string) error {
	mu := e.lockFor(customerID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := e.Sessions.Get(ctx, customerID)
	if err != nil {
		e.Logger.Error("session load failed", zap.String("customer", customerID), zap.Error(err))
		return err
	}
	isNew := sess == nil
	if isNew {
		sess = &models.Session{
			CustomerID: customerID,
			BusinessID: e.BusinessID,
			Step:       models.StepMenu,
			CreatedAt:  e.now(),
		}
	}
	sess.LastActive = e.now()

	var handleErr error
	switch {
	case isNew:
		handleErr = e.send(ctx, customerID, renderMenu())
	case isMenuCommand(text):
		sess.ClearSelections()
		sess.Step = models.StepMenu
		handleErr = e.send(ctx, customerID, renderMenu())
	case isBackCommand(text) && sess.Step != models.StepMenu:
		handleErr = e.goBack(ctx, sess)
	default:
		handleErr = e.dispatch(ctx, sess, text)
	}

	var storageErr *models.StorageError
	var notFound *models.NotFoundError
	if errors.As(handleErr, &storageErr) || errors.As(handleErr, &notFound) {
		sess.ClearSelections()
		sess.Step = models.StepMenu
		_ = e.send(ctx, customerID, renderGenericFailure())
	}

	// Every write refreshes the TTL, so active conversations stay alive and
	// abandoned ones expire.
	if err := e.Sessions.Put(ctx, sess); err != nil {
		e.Logger.Error("session save failed", zap.String("customer", customerID), zap.Error(err))
		if handleErr == nil {
			handleErr = err
		}
	}
	return handleErr
}

// dispatch is the total transition function: every step has a handler for
// every input class.
func (e *Engine) dispatch(ctx context.Context, sess *models.Session, text string) error {
	switch sess.Step {
	case models.StepMenu:
		return e.handleMenu(ctx, sess, text)
	case models.StepViewingServices, models.StepSelectingService:
		return e.handleServiceSelection(ctx, sess, text)
	case models.StepSelectingDate:
		return e.handleDateSelection(ctx, sess, text)
	case models.StepSelectingTime:
		return e.handleTimeSelection(ctx, sess, text)
	case models.StepEnteringName:
		return e.handleNameEntry(ctx, sess, text)
	case models.StepConfirmingBooking:
		return e.handleConfirmation(ctx, sess, text)
	}
	sess.Step = models.StepMenu
	return e.send(ctx, sess.CustomerID, renderMenu())
}

// goBack regresses to the previous step, discarding only what the current
// step was collecting, and re-renders the prior prompt.
func (e *Engine) goBack(ctx context.Context, sess *models.Session) error {
	switch sess.Step {
	case models.StepViewingServices, models.StepSelectingService:
		sess.ClearSelections()
		sess.Step = models.StepMenu
		return e.send(ctx, sess.CustomerID, renderMenu())

	case models.StepSelectingDate:
		sess.ServiceID = ""
		sess.ServiceName = ""
		sess.DurationMin = 0
		sess.Amount = 0
		sess.Currency = ""
		sess.MultiResource = false
		sess.RequiresPayment = false
		sess.ShownDates = nil
		sess.Step = models.StepSelectingService
		return e.presentServices(ctx, sess)

	case models.StepSelectingTime:
		sess.Date = ""
		sess.ShownTimes = nil
		sess.Step = models.StepSelectingDate
		if len(sess.ShownDates) == 0 {
			return e.presentDates(ctx, sess)
		}
		return e.send(ctx, sess.CustomerID, renderDateList(sess.ShownDates))

	case models.StepEnteringName:
		// Re-list the previously computed slot list rather than recomputing;
		// the commit-time re-check still guards against staleness.
		sess.StartMin = 0
		sess.Step = models.StepSelectingTime
		if len(sess.ShownTimes) == 0 {
			return e.presentTimes(ctx, sess)
		}
		return e.send(ctx, sess.CustomerID, renderTimeList(sess.Date, sess.ShownTimes))

	case models.StepConfirmingBooking:
		sess.Name = ""
		sess.Step = models.StepEnteringName
		return e.send(ctx, sess.CustomerID, renderNamePrompt())
	}
	return e.send(ctx, sess.CustomerID, renderMenu())
}

func (e *Engine) send(ctx context.Context, customerID, text string) error {
	if err := e.Sender.Send(ctx, customerID, text); err != nil {
		e.Logger.Warn("outbound send failed", zap.String("customer", customerID), zap.Error(err))
		return err
	}
	return nil
}
