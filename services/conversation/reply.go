package conversation

import (
	"fmt"
	"strings"
	"time"

	"turnero/models"
)

// Outbound copy, es-AR. Every turn ends in exactly one of these (or an
// explicit no-op before the flow starts).
const (
	copyNoAvailability = "Por ahora no tengo horarios disponibles. Probá de nuevo más tarde o proponé otro día."
	copyOfferExpired   = "Esas opciones ya vencieron. Decime de nuevo qué día y hora preferís y te paso horarios actualizados."
	copySlotTaken      = "Uy, ese horario recién se ocupó. Te paso otros:"
	copyGenericFailure = "No pude agendar el turno en este momento. Probá de nuevo en unos minutos."
	copyChooseSlot     = "Respondé con el número de la opción que prefieras."
)

var spanishWeekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var spanishWeekdaysShort = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// formatSlotLine renders a slot compactly in the professional's zone,
// e.g. "mar 02/09 14:30".
func formatSlotLine(s models.Slot, loc *time.Location) string {
	local := s.StartUTC.In(loc)
	return fmt.Sprintf("%s %02d/%02d %02d:%02d",
		spanishWeekdaysShort[local.Weekday()], local.Day(), int(local.Month()), local.Hour(), local.Minute())
}

func formatSlotList(slots []models.Slot, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("Tengo estos horarios disponibles:\n")
	for i, s := range slots {
		fmt.Fprintf(&b, "%d) %s\n", i+1, formatSlotLine(s, loc))
	}
	b.WriteString(copyChooseSlot)
	return b.String()
}

// formatConfirmation mirrors the long-form confirmation of the bot:
// "Agendé un turno (Consulta) el *Martes 2 de septiembre* a las *14:30* (presencial)."
func formatConfirmation(firstName, serviceName string, start time.Time, modality models.Modality, loc *time.Location) string {
	local := start.In(loc)
	day := fmt.Sprintf("%s %d de %s",
		spanishWeekdays[local.Weekday()], local.Day(), spanishMonths[int(local.Month())-1])
	day = strings.ToUpper(day[:1]) + day[1:]

	srvLabel := ""
	if serviceName != "" {
		srvLabel = fmt.Sprintf(" (%s)", serviceName)
	}
	mod := "presencial"
	if modality == models.ModalityRemote {
		mod = "virtual"
	}

	greeting := "Listo"
	if firstName != "" {
		greeting = "Listo " + firstName
	}
	return fmt.Sprintf("%s 👌\nAgendé un turno%s el *%s* a las *%02d:%02d* (%s). Cuando quieras lo confirmo con el profesional.",
		greeting, srvLabel, day, local.Hour(), local.Minute(), mod)
}

func firstName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 || parts[0] == "Paciente" {
		return ""
	}
	return parts[0]
}
