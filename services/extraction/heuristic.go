package extraction

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"turnero/models"
)

const (
	copyAskDateTime = "¿Qué día y a qué hora querés el turno? Ej: \"martes 10:30\" o \"15/10 14:00\"."
	copyAskService  = "¿Para qué servicio? Ej: \"consulta general\" o \"control\"."
)

var (
	dateRe = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})(?:[/\-](\d{2,4}))?\b`)
	timeRe = regexp.MustCompile(`\b(\d{1,2})(?:[:.h](\d{2}))?\s*(am|pm|hs)?\b`)

	weekdays = map[string]time.Weekday{
		"domingo":   time.Sunday,
		"lunes":     time.Monday,
		"martes":    time.Tuesday,
		"miércoles": time.Wednesday,
		"miercoles": time.Wednesday,
		"jueves":    time.Thursday,
		"viernes":   time.Friday,
		"sábado":    time.Saturday,
		"sabado":    time.Saturday,
	}
)

// HeuristicExtractor resolves Spanish (es-AR) booking utterances with rules:
// hoy/mañana/weekday keywords, dd/MM dates, H[:MM][am|pm|hs] times, service
// name matching and modality vocabulary.
type HeuristicExtractor struct{}

func NewHeuristicExtractor() *HeuristicExtractor { return &HeuristicExtractor{} }

func (h *HeuristicExtractor) Extract(_ context.Context, text string, in Input) models.ExtractionResult {
	loc := loadLocation(in.Timezone)
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(loc)

	low := strings.ToLower(strings.TrimSpace(text))
	res := models.ExtractionResult{Missing: []string{}}

	res.Modality = resolveModality(low)

	service, matched := resolveService(low, in.Services)
	res.Service = service
	if matched != nil {
		res.DurationMin = matched.DurationMin
	}

	if start, ok := resolveLocalStart(low, now, loc); ok {
		res.LocalStart = &start
	}

	// "servicio" is missing only when more than one enabled service exists
	// and none matched. Date/time takes priority for the single clarifying
	// question.
	if res.Service == "" && len(in.Services) > 1 {
		res.Missing = append(res.Missing, models.MissingService)
	}
	if res.LocalStart == nil {
		res.Missing = append(res.Missing, models.MissingDateTime)
		res.Clarify = copyAskDateTime
	} else if res.Service == "" && len(in.Services) > 1 {
		res.Clarify = copyAskService
	}

	return res
}

func loadLocation(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation("America/Argentina/Buenos_Aires"); err == nil {
		return loc
	}
	return time.UTC
}

func resolveModality(low string) models.Modality {
	switch {
	case strings.Contains(low, "virtual"), strings.Contains(low, "videollamada"), strings.Contains(low, "online"):
		return models.ModalityRemote
	case strings.Contains(low, "presencial"), strings.Contains(low, "consultorio"):
		return models.ModalityInPerson
	}
	return ""
}

// resolveService matches by case-insensitive substring in either direction.
// With a single enabled service it is assumed; with several, an ambiguous or
// absent match stays unresolved.
func resolveService(low string, services []models.ServiceOffering) (string, *models.ServiceOffering) {
	if len(services) == 1 {
		return services[0].Name, &services[0]
	}
	var found *models.ServiceOffering
	for i := range services {
		name := strings.ToLower(services[i].Name)
		if strings.Contains(low, name) || (low != "" && strings.Contains(name, low)) {
			if found != nil {
				return "", nil // ambiguous
			}
			found = &services[i]
		}
	}
	if found == nil {
		return "", nil
	}
	return found.Name, found
}

func resolveLocalStart(low string, now time.Time, loc *time.Location) (time.Time, bool) {
	var day time.Time
	haveDay := false

	switch {
	case strings.Contains(low, "hoy"):
		day, haveDay = truncateToDay(now), true
	case strings.Contains(low, "mañana"), strings.Contains(low, "manana"):
		day, haveDay = truncateToDay(now).AddDate(0, 0, 1), true
	default:
		for name, wd := range weekdays {
			if strings.Contains(low, name) {
				day, haveDay = nextWeekday(truncateToDay(now), wd), true
				break
			}
		}
	}

	// An explicit dd/MM (optional year) overrides keyword matches.
	rest := low
	if m := dateRe.FindStringSubmatch(low); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y := now.Year()
		if m[3] != "" {
			y, _ = strconv.Atoi(m[3])
			if y < 100 {
				y += 2000
			}
		}
		if mo >= 1 && mo <= 12 && d >= 1 && d <= 31 {
			day, haveDay = time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc), true
			// Drop the date digits so the time scan cannot mistake them.
			rest = strings.Replace(low, m[0], " ", 1)
		}
	}

	h, min, haveTime := resolveTime(rest)
	if !haveDay || !haveTime {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, min, 0, 0, loc), true
}

func resolveTime(s string) (int, int, bool) {
	for _, m := range timeRe.FindAllStringSubmatch(s, -1) {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "pm":
			if h < 12 {
				h += 12
			}
		case "am":
			if h == 12 {
				h = 0
			}
		}
		if h >= 0 && h <= 23 && min >= 0 && min <= 59 {
			return h, min, true
		}
	}
	return 0, 0, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// nextWeekday returns the next strictly future occurrence: naming today's
// weekday resolves seven days ahead, never same day.
func nextWeekday(from time.Time, day time.Weekday) time.Time {
	diff := (int(day) - int(from.Weekday()) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return from.AddDate(0, 0, diff)
}
