package conversation

import (
	"fmt"
	"strings"
	"time"

	"turnero/models"
	"turnero/utils"
)

// Customer-facing texts. The bot speaks Spanish; navigation keywords are
// accepted in both Spanish and English (see parser.go).

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Lun",
	time.Tuesday:   "Mar",
	time.Wednesday: "Mié",
	time.Thursday:  "Jue",
	time.Friday:    "Vie",
	time.Saturday:  "Sáb",
	time.Sunday:    "Dom",
}

func renderMenu() string {
	return "¡Hola! 👋 Soy el asistente de reservas.\n" +
		"1. Reservar un turno\n" +
		"2. Ver servicios\n" +
		"Respondé con el número de la opción."
}

func renderServiceList(services []models.ServiceChoice, details []string) string {
	var b strings.Builder
	b.WriteString("Estos son nuestros servicios:\n")
	for i, svc := range services {
		b.WriteString(fmt.Sprintf("%d. %s", i+1, svc.Name))
		if i < len(details) && details[i] != "" {
			b.WriteString(" — " + details[i])
		}
		b.WriteString("\n")
	}
	b.WriteString("Respondé con el número para reservar, o escribí 'menu' para volver.")
	return b.String()
}

func renderDateList(dates []string) string {
	var b strings.Builder
	b.WriteString("¿Para qué día? Días con disponibilidad:\n")
	for i, date := range dates {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, formatDateLabel(date)))
	}
	b.WriteString("También podés escribir una fecha (día/mes), 'hoy' o 'mañana'.")
	return b.String()
}

func renderNoDates() string {
	return "No hay disponibilidad en los próximos días 😔. Escribí una fecha (día/mes) para consultar otro día, o 'menu' para volver."
}

func renderTimeList(date string, times []int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Horarios disponibles para el %s:\n", formatDateLabel(date)))
	for i, t := range times {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, utils.FormatClock(t)))
	}
	b.WriteString("Respondé con el número o un horario (HH:MM). 'volver' para cambiar el día.")
	return b.String()
}

func renderNoTimes(date string) string {
	return fmt.Sprintf("No quedan horarios para el %s 😔. Elegí otro día (día/mes, 'hoy' o 'mañana'), o 'menu' para volver.", formatDateLabel(date))
}

func renderNamePrompt() string {
	return "¿A nombre de quién hacemos la reserva?"
}

func renderSummary(sess *models.Session) string {
	var b strings.Builder
	b.WriteString("Confirmá tu reserva:\n")
	b.WriteString(fmt.Sprintf("• Servicio: %s\n", sess.ServiceName))
	b.WriteString(fmt.Sprintf("• Día: %s\n", formatDateLabel(sess.Date)))
	b.WriteString(fmt.Sprintf("• Hora: %s\n", utils.FormatClock(sess.StartMin)))
	b.WriteString(fmt.Sprintf("• Nombre: %s\n", sess.Name))
	if sess.Amount > 0 {
		b.WriteString(fmt.Sprintf("• Precio: %s %.2f\n", sess.Currency, sess.Amount))
	}
	b.WriteString("¿Confirmás? (sí/no)")
	return b.String()
}

func renderSlotTaken() string {
	return "Uy, ese horario se acaba de ocupar 😔. Te paso los horarios que siguen libres:"
}

func renderConfirmed(booking *models.Booking, unitName string) string {
	msg := fmt.Sprintf("¡Listo! ✅ Tu turno quedó confirmado para el %s a las %s.",
		formatDateLabel(booking.Date), utils.FormatClock(booking.StartMin))
	if unitName != "" {
		msg += fmt.Sprintf(" Te asignamos: %s.", unitName)
	}
	return msg + " Escribí 'menu' si necesitás algo más."
}

func renderPaymentLink(booking *models.Booking, url string) string {
	return fmt.Sprintf("Tu turno del %s a las %s quedó reservado. Para confirmarlo, completá el pago acá:\n%s",
		formatDateLabel(booking.Date), utils.FormatClock(booking.StartMin), url)
}

func RenderPaymentApproved(booking *models.Booking) string {
	return fmt.Sprintf("¡Pago recibido! ✅ Tu turno del %s a las %s está confirmado.",
		formatDateLabel(booking.Date), utils.FormatClock(booking.StartMin))
}

func RenderPaymentRejected() string {
	return "El pago no se pudo procesar 😔. Tu reserva sigue pendiente; podés reintentar el pago con el mismo enlace."
}

func RenderReminder(booking *models.Booking) string {
	return fmt.Sprintf("⏰ Te recordamos tu turno de hoy a las %s a nombre de %s. ¡Te esperamos!",
		utils.FormatClock(booking.StartMin), booking.CustomerName)
}

func renderCancelled() string {
	return "Reserva cancelada. Escribí 'menu' cuando quieras empezar de nuevo."
}

func renderInvalidOption() string {
	return "No entendí esa opción 🤔. Respondé con uno de los números de la lista, 'volver' o 'menu'."
}

func renderGenericFailure() string {
	return "Tuvimos un problema procesando tu pedido 😔. No se realizó ninguna reserva. Escribí 'menu' para empezar de nuevo."
}

func formatDateLabel(date string) string {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %02d/%02d", weekdayNames[day.Weekday()], day.Day(), int(day.Month()))
}
