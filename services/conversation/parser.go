package conversation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"turnero/models"
)

// Free-text parsing for the chat channel, isolated from message handling so
// it stays pure and testable. Dates follow the DD/MM-first locale of the
// target market: "5/3" means March 5th, never May 3rd.

const dateLayout = "2006-01-02"

func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	replacer := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u")
	return replacer.Replace(s)
}

func isMenuCommand(text string) bool {
	switch normalize(text) {
	case "menu", "cancelar", "cancel", "inicio", "salir":
		return true
	}
	return false
}

func isBackCommand(text string) bool {
	switch normalize(text) {
	case "volver", "atras", "back":
		return true
	}
	return false
}

func isAffirmative(text string) bool {
	switch normalize(text) {
	case "si", "sí", "yes", "ok", "confirmar", "confirmo", "dale":
		return true
	}
	return false
}

func isNegative(text string) bool {
	return normalize(text) == "no"
}

// parseIndex resolves a bare number as a 1-based index into a shown list.
func parseIndex(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return n, true
}

var dateLiteralRe = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})(?:[/\-.](\d{2,4}))?$`)

// parseDate resolves relative keywords ("hoy", "mañana") and day/month[/year]
// literals against the given reference time. Year defaults to the current
// one; a resolved date strictly before today is rejected.
func parseDate(text string, now time.Time) (string, error) {
	switch normalize(text) {
	case "hoy", "today":
		return now.Format(dateLayout), nil
	case "manana", "mañana", "tomorrow":
		return now.AddDate(0, 0, 1).Format(dateLayout), nil
	}

	m := dateLiteralRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", models.NewValidationError("date", "expected a day/month date, 'hoy' or 'mañana'")
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := now.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", models.NewValidationError("date", "day or month out of range")
	}
	parsed := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	// Reject impossible dates like 31/02 that time.Date silently rolls over.
	if parsed.Day() != day || parsed.Month() != time.Month(month) {
		return "", models.NewValidationError("date", "no such calendar date")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if parsed.Before(today) {
		return "", models.NewValidationError("date", "date is in the past")
	}
	return parsed.Format(dateLayout), nil
}

var timeLiteralRe = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})(?:\s*(?:hs|h))?$`)

// parseTimeOfDay resolves an HH:MM literal into minutes from midnight.
func parseTimeOfDay(text string) (int, bool) {
	m := timeLiteralRe.FindStringSubmatch(normalize(text))
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return 0, false
	}
	return h*60 + min, true
}

// parseName validates a customer display name: non-empty, not a bare
// number, at least two characters.
func parseName(text string) (string, error) {
	name := strings.TrimSpace(text)
	if len([]rune(name)) < 2 {
		return "", models.NewValidationError("name", "too short")
	}
	if _, numeric := parseIndex(name); numeric {
		return "", models.NewValidationError("name", "expected a name, got a number")
	}
	return name, nil
}
