package conversation

import (
	"context"
	"errors"
	"fmt"

	"turnero/models"
	"turnero/utils"

	"go.uber.org/zap"
)

func (e *Engine) handleMenu(ctx context.Context, sess *models.Session, text string) error {
	idx, ok := parseIndex(text)
	if !ok {
		return e.send(ctx, sess.CustomerID, renderMenu())
	}
	switch idx {
	case 1:
		sess.Step = models.StepSelectingService
		return e.presentServices(ctx, sess)
	case 2:
		sess.Step = models.StepViewingServices
		return e.presentServices(ctx, sess)
	}
	return e.send(ctx, sess.CustomerID, renderInvalidOption())
}

// handleServiceSelection covers both ViewingServices and SelectingService:
// in either, a numeric reply begins booking that service.
func (e *Engine) handleServiceSelection(ctx context.Context, sess *models.Session, text string) error {
	idx, ok := parseIndex(text)
	if !ok || idx < 1 || idx > len(sess.ShownServices) {
		return e.send(ctx, sess.CustomerID, renderInvalidOption())
	}
	choice := sess.ShownServices[idx-1]

	svc, err := e.Catalog.GetServiceByID(ctx, choice.ServiceID)
	if err != nil {
		return err
	}

	// Whether this flow is payment-gated is decided here, once, from the
	// selected service; it does not change mid-flow.
	sess.ServiceID = svc.ID
	sess.ServiceName = svc.Name
	sess.DurationMin = svc.DurationMin
	sess.Amount = svc.Price
	sess.Currency = svc.Currency
	sess.MultiResource = svc.MultiResource
	sess.RequiresPayment = svc.RequiresPayment

	sess.Step = models.StepSelectingDate
	return e.presentDates(ctx, sess)
}

func (e *Engine) handleDateSelection(ctx context.Context, sess *models.Session, text string) error {
	var date string
	if idx, ok := parseIndex(text); ok {
		if idx < 1 || idx > len(sess.ShownDates) {
			return e.send(ctx, sess.CustomerID, renderInvalidOption())
		}
		date = sess.ShownDates[idx-1]
	} else {
		parsed, err := parseDate(text, e.now())
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			return e.send(ctx, sess.CustomerID,
				fmt.Sprintf("Esa fecha no me sirve (%s). Probá con día/mes, 'hoy' o 'mañana'.", validationErr.Message))
		}
		if err != nil {
			return err
		}
		date = parsed
	}

	svc, poolSize, err := e.serviceAndPool(ctx, sess)
	if err != nil {
		return err
	}
	slots, err := e.Calendar.AvailableSlots(ctx, sess.BusinessID, svc, date, poolSize)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		return e.send(ctx, sess.CustomerID, renderNoTimes(date))
	}

	sess.Date = date
	sess.ShownTimes = slots
	sess.Step = models.StepSelectingTime
	return e.send(ctx, sess.CustomerID, renderTimeList(date, slots))
}

func (e *Engine) handleTimeSelection(ctx context.Context, sess *models.Session, text string) error {
	var startMin int
	if idx, ok := parseIndex(text); ok {
		if idx < 1 || idx > len(sess.ShownTimes) {
			return e.send(ctx, sess.CustomerID, renderInvalidOption())
		}
		startMin = sess.ShownTimes[idx-1]
	} else if literal, ok := parseTimeOfDay(text); ok {
		found := false
		for _, t := range sess.ShownTimes {
			if t == literal {
				found = true
				break
			}
		}
		if !found {
			return e.send(ctx, sess.CustomerID,
				fmt.Sprintf("Las %s no están disponibles ese día. %s", utils.FormatClock(literal), renderTimeList(sess.Date, sess.ShownTimes)))
		}
		startMin = literal
	} else {
		return e.send(ctx, sess.CustomerID, renderInvalidOption())
	}

	sess.StartMin = startMin
	sess.Step = models.StepEnteringName
	return e.send(ctx, sess.CustomerID, renderNamePrompt())
}

func (e *Engine) handleNameEntry(ctx context.Context, sess *models.Session, text string) error {
	name, err := parseName(text)
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return e.send(ctx, sess.CustomerID, "Necesito un nombre válido para la reserva. ¿A nombre de quién va?")
	}
	if err != nil {
		return err
	}
	sess.Name = name
	sess.Step = models.StepConfirmingBooking
	return e.send(ctx, sess.CustomerID, renderSummary(sess))
}

func (e *Engine) handleConfirmation(ctx context.Context, sess *models.Session, text string) error {
	switch {
	case isAffirmative(text):
		return e.commit(ctx, sess)
	case isNegative(text):
		sess.ClearSelections()
		sess.Step = models.StepMenu
		return e.send(ctx, sess.CustomerID, renderCancelled())
	}
	return e.send(ctx, sess.CustomerID, renderSummary(sess))
}

// commit re-validates availability at the last possible moment, allocates a
// unit for multi-resource services and writes the booking through the
// atomic ledger guard. The advisory re-check keeps the conversation honest;
// the ledger's transaction is the actual correctness boundary.
func (e *Engine) commit(ctx context.Context, sess *models.Session) error {
	svc, poolSize, err := e.serviceAndPool(ctx, sess)
	if err != nil {
		return err
	}

	free, err := e.Calendar.IsSlotAvailable(ctx, sess.BusinessID, svc, sess.Date, sess.StartMin, poolSize)
	if err != nil {
		return err
	}
	if !free {
		return e.regressToTimes(ctx, sess, svc, poolSize)
	}

	var unitID, unitName string
	if svc.MultiResource {
		unit, err := e.Allocator.AssignUnit(ctx, svc, sess.Date, sess.StartMin)
		if err != nil {
			return err
		}
		if unit == nil {
			return e.regressToTimes(ctx, sess, svc, poolSize)
		}
		unitID = unit.ID
		unitName = unit.Name
	}

	draft := models.BookingDraft{
		BusinessID:      sess.BusinessID,
		ServiceID:       svc.ID,
		CustomerID:      sess.CustomerID,
		CustomerName:    sess.Name,
		Date:            sess.Date,
		StartMin:        sess.StartMin,
		DurationMin:     svc.DurationMin,
		ResourceUnitID:  unitID,
		Amount:          svc.Price,
		Currency:        svc.Currency,
		RequiresPayment: sess.RequiresPayment,
	}
	booking, err := e.Bookings.CreateAtomic(ctx, draft, poolSize)
	var conflict *models.ConflictError
	if errors.As(err, &conflict) {
		// Lost the race between the advisory check and the insert.
		return e.regressToTimes(ctx, sess, svc, poolSize)
	}
	if err != nil {
		return err
	}

	if sess.RequiresPayment && e.Payments != nil {
		url, linkErr := e.Payments.CreatePaymentLink(ctx, booking, svc)
		sess.ClearSelections()
		sess.Step = models.StepMenu
		if linkErr != nil {
			e.Logger.Error("payment link creation failed",
				zap.String("bookingID", booking.ID), zap.Error(linkErr))
			return e.send(ctx, sess.CustomerID,
				"Tu turno quedó reservado pero no pudimos generar el enlace de pago. Te lo enviamos en breve.")
		}
		return e.send(ctx, sess.CustomerID, renderPaymentLink(booking, url))
	}

	if e.Reminders != nil {
		if err := e.Reminders.ScheduleReminder(ctx, booking); err != nil {
			e.Logger.Warn("reminder scheduling failed",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}
	sess.ClearSelections()
	sess.Step = models.StepMenu
	return e.send(ctx, sess.CustomerID, renderConfirmed(booking, unitName))
}

// regressToTimes reports a lost slot and drops the customer back into time
// selection with a freshly recomputed list; if the whole day filled up, back
// into date selection.
func (e *Engine) regressToTimes(ctx context.Context, sess *models.Session, svc *models.Service, poolSize int) error {
	if err := e.send(ctx, sess.CustomerID, renderSlotTaken()); err != nil {
		return err
	}
	slots, err := e.Calendar.AvailableSlots(ctx, sess.BusinessID, svc, sess.Date, poolSize)
	if err != nil {
		return err
	}
	sess.StartMin = 0
	if len(slots) == 0 {
		date := sess.Date
		sess.Date = ""
		sess.ShownTimes = nil
		sess.Step = models.StepSelectingDate
		return e.send(ctx, sess.CustomerID, renderNoTimes(date))
	}
	sess.ShownTimes = slots
	sess.Step = models.StepSelectingTime
	return e.send(ctx, sess.CustomerID, renderTimeList(sess.Date, slots))
}

func (e *Engine) presentServices(ctx context.Context, sess *models.Session) error {
	services, err := e.Catalog.GetActiveServices(ctx, sess.BusinessID)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		sess.Step = models.StepMenu
		return e.send(ctx, sess.CustomerID, "Todavía no hay servicios configurados. Escribí 'menu' más tarde.")
	}
	choices := make([]models.ServiceChoice, len(services))
	details := make([]string, len(services))
	for i, svc := range services {
		choices[i] = models.ServiceChoice{ServiceID: svc.ID, Name: svc.Name}
		details[i] = fmt.Sprintf("%d min", svc.DurationMin)
		if svc.Price > 0 {
			details[i] += fmt.Sprintf(", %s %.2f", svc.Currency, svc.Price)
		}
	}
	sess.ShownServices = choices
	return e.send(ctx, sess.CustomerID, renderServiceList(choices, details))
}

func (e *Engine) presentDates(ctx context.Context, sess *models.Session) error {
	svc, poolSize, err := e.serviceAndPool(ctx, sess)
	if err != nil {
		return err
	}
	dates, err := e.Calendar.DatePreview(ctx, sess.BusinessID, svc, poolSize, e.PreviewDays)
	if err != nil {
		return err
	}
	sess.ShownDates = dates
	if len(dates) == 0 {
		return e.send(ctx, sess.CustomerID, renderNoDates())
	}
	return e.send(ctx, sess.CustomerID, renderDateList(dates))
}

func (e *Engine) presentTimes(ctx context.Context, sess *models.Session) error {
	svc, poolSize, err := e.serviceAndPool(ctx, sess)
	if err != nil {
		return err
	}
	slots, err := e.Calendar.AvailableSlots(ctx, sess.BusinessID, svc, sess.Date, poolSize)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		date := sess.Date
		sess.Date = ""
		sess.Step = models.StepSelectingDate
		return e.send(ctx, sess.CustomerID, renderNoTimes(date))
	}
	sess.ShownTimes = slots
	return e.send(ctx, sess.CustomerID, renderTimeList(sess.Date, slots))
}

func (e *Engine) serviceAndPool(ctx context.Context, sess *models.Session) (*models.Service, int, error) {
	svc, err := e.Catalog.GetServiceByID(ctx, sess.ServiceID)
	if err != nil {
		return nil, 0, err
	}
	poolSize, err := e.Allocator.PoolSize(ctx, svc)
	if err != nil {
		return nil, 0, err
	}
	return svc, poolSize, nil
}
