package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	conversationRepo "turnero/database/repository/conversation"
	professionalRepo "turnero/database/repository/professional"
	"turnero/models"
	"turnero/services/availability"
	"turnero/services/booking"
	"turnero/services/extraction"
	"turnero/services/messaging"
	"turnero/services/pending"
	"turnero/utils"

	"go.uber.org/zap"
)

// Conversation states. The state is derived, not stored: a live pending
// offer plus a numeric reply means AwaitingSelection, anything else restarts
// at AwaitingDetails.
type State string

const (
	StateAwaitingDetails   State = "awaiting_details"
	StateOfferingSlots     State = "offering_slots"
	StateAwaitingSelection State = "awaiting_selection"
	StateCommitted         State = "committed"
)

// ReminderScheduler queues an appointment reminder; best-effort.
type ReminderScheduler interface {
	ScheduleReminder(appt *models.Appointment, toE164, body string) error
}

// Orchestrator drives the turn-by-turn booking conversation over the
// extractor, availability engine, pending-offer store and committer. One
// orchestrator serves every transport; channels differ only in how the
// inbound record was normalized and which sender is wired.
type Orchestrator struct {
	Professionals professionalRepo.ProfessionalRepository
	Conversations conversationRepo.ConversationRepository
	Extractor     extraction.Extractor
	Engine        availability.Engine
	Offers        pending.Store
	Committer     booking.Committer
	Sender        messaging.Sender
	Reminders     ReminderScheduler // nil disables reminders

	SlotCount          int
	DefaultDurationMin int
	Now                func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) slotCount() int {
	if o.SlotCount > 0 {
		return o.SlotCount
	}
	return 3
}

func (o *Orchestrator) defaultDuration() time.Duration {
	if o.DefaultDurationMin > 0 {
		return time.Duration(o.DefaultDurationMin) * time.Minute
	}
	return 30 * time.Minute
}

// HandleInbound processes one message end to end: compute the reply and send
// it. Errors sending are surfaced; an empty reply is an explicit no-op.
func (o *Orchestrator) HandleInbound(ctx context.Context, in models.Inbound) error {
	reply, err := o.Reply(ctx, in)
	if err != nil {
		return err
	}
	if reply == "" {
		return nil
	}
	if _, err := o.Sender.Send(ctx, in.FromE164, reply); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// Reply computes the outbound text for one inbound message without sending
// it. Every turn yields exactly one reply, except the explicit no-ops:
// empty text and unrecognized bot lines.
func (o *Orchestrator) Reply(ctx context.Context, in models.Inbound) (string, error) {
	logger := utils.GetLogger()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return "", nil
	}

	botPhone := messaging.NormalizeE164(in.ToE164)
	prof, err := o.Professionals.GetByPhone(botPhone)
	if err != nil {
		logger.Warn("no professional for bot line", zap.String("botPhone", botPhone), zap.Error(err))
		return "", nil
	}

	fromPhone := messaging.NormalizeE164(in.FromE164)
	counterpart, err := o.Professionals.GetOrCreateCounterpart(prof.ID, fromPhone, in.FromName)
	if err != nil {
		logger.Error("failed to resolve counterpart", zap.String("from", fromPhone), zap.Error(err))
		return copyGenericFailure, nil
	}

	o.logMessage(prof.ID, counterpart.ID, models.DirectionInbound, text, in.MessageID)

	key := prof.ID + ":" + fromPhone

	var reply string
	if n, ok := parseSelection(text); ok {
		reply = o.handleSelection(ctx, key, prof, counterpart, n)
	} else {
		reply = o.handleUtterance(ctx, key, prof, counterpart, text)
	}

	o.logMessage(prof.ID, counterpart.ID, models.DirectionOutbound, reply, "")
	return reply, nil
}

// handleSelection resolves a numeric reply against the current offer and
// commits. The offer is a hint only; the committer re-validates.
func (o *Orchestrator) handleSelection(ctx context.Context, key string, prof *models.Professional, counterpart *models.Counterpart, n int) string {
	logger := utils.GetLogger()

	offer, found, err := o.Offers.TryGet(ctx, key)
	if err != nil {
		logger.Warn("pending offer lookup failed", zap.String("key", key), zap.Error(err))
		return copyOfferExpired
	}
	if !found {
		return copyOfferExpired
	}
	if n < 1 || n > len(offer.Slots) {
		o.clearOffer(ctx, key)
		return copyOfferExpired
	}

	slot := offer.Slots[n-1]
	appt, err := o.Committer.Commit(ctx, booking.CommitRequest{
		Professional:  prof,
		CounterpartID: counterpart.ID,
		Slot:          slot,
		ServiceID:     offer.ServiceID,
		ServiceName:   offer.ServiceName,
		Price:         offer.Price,
		Modality:      offer.Modality,
		Source:        "whatsapp",
		Summary:       fmt.Sprintf("Turno: %s", counterpart.FullName),
	})

	switch {
	case err == nil:
		o.clearOffer(ctx, key)
		o.scheduleReminder(appt, counterpart, offer.ServiceName, prof)
		return formatConfirmation(firstName(counterpart.FullName), offer.ServiceName, appt.StartUTC, appt.Modality, profLocation(prof))

	case booking.IsConflict(err):
		// Someone got there first: recompute and offer fresh slots.
		logger.Info("commit conflict, recomputing availability", zap.String("key", key))
		dur := slot.EndUTC.Sub(slot.StartUTC)
		fresh := o.offerSlots(ctx, key, prof, counterpart, offer.ServiceID, offer.ServiceName, offer.Price, offer.Modality, o.now().UTC(), dur)
		if fresh == copyNoAvailability {
			return copyNoAvailability
		}
		return copySlotTaken + "\n" + fresh

	default:
		logger.Error("commit failed", zap.String("key", key), zap.Error(err))
		o.clearOffer(ctx, key)
		return copyGenericFailure
	}
}

// handleUtterance runs extraction and, when complete, computes and offers
// slots. A fresh utterance supersedes any stale offer.
func (o *Orchestrator) handleUtterance(ctx context.Context, key string, prof *models.Professional, counterpart *models.Counterpart, text string) string {
	logger := utils.GetLogger()
	o.clearOffer(ctx, key)

	services, err := o.Professionals.ListEnabledServices(prof.ID)
	if err != nil {
		logger.Error("failed to list services", zap.String("professionalID", prof.ID), zap.Error(err))
		return copyGenericFailure
	}

	res := o.Extractor.Extract(ctx, text, extraction.Input{
		Timezone: prof.Timezone,
		Services: services,
		Now:      o.now(),
	})

	if !res.Complete() {
		if res.Clarify != "" {
			return res.Clarify
		}
		return fmt.Sprintf("Para agendar necesito %s. Ej: \"Consulta general el martes 14:30\".",
			strings.Join(res.Missing, " y "))
	}

	var (
		serviceID   string
		serviceName string
		price       *float64
	)
	dur := o.defaultDuration()
	if res.DurationMin > 0 {
		dur = time.Duration(res.DurationMin) * time.Minute
	}
	for i := range services {
		if strings.EqualFold(services[i].Name, res.Service) {
			serviceID = services[i].ID
			serviceName = services[i].Name
			p := services[i].Price
			price = &p
			if res.DurationMin == 0 && services[i].DurationMin > 0 {
				dur = time.Duration(services[i].DurationMin) * time.Minute
			}
			break
		}
	}

	modality := res.Modality
	if modality == "" {
		modality = models.ModalityInPerson
	}

	from := o.now().UTC()
	if res.LocalStart != nil && res.LocalStart.UTC().After(from) {
		from = res.LocalStart.UTC()
	}

	return o.offerSlots(ctx, key, prof, counterpart, serviceID, serviceName, price, modality, from, dur)
}

// offerSlots computes availability, stores the offer and renders the list.
func (o *Orchestrator) offerSlots(ctx context.Context, key string, prof *models.Professional, counterpart *models.Counterpart, serviceID, serviceName string, price *float64, modality models.Modality, from time.Time, dur time.Duration) string {
	logger := utils.GetLogger()

	slots, err := o.Engine.NextSlots(ctx, prof, from, o.slotCount(), dur)
	if err != nil {
		logger.Error("availability computation failed", zap.String("professionalID", prof.ID), zap.Error(err))
		return copyGenericFailure
	}
	if len(slots) == 0 {
		return copyNoAvailability
	}

	offer := models.PendingOffer{
		Key:            key,
		ProfessionalID: prof.ID,
		CounterpartID:  counterpart.ID,
		Slots:          slots,
		ServiceID:      serviceID,
		ServiceName:    serviceName,
		Price:          price,
		Modality:       modality,
	}
	if err := o.Offers.Set(ctx, offer); err != nil {
		logger.Error("failed to store pending offer", zap.String("key", key), zap.Error(err))
		return copyGenericFailure
	}

	return formatSlotList(slots, profLocation(prof))
}

func (o *Orchestrator) scheduleReminder(appt *models.Appointment, counterpart *models.Counterpart, serviceName string, prof *models.Professional) {
	if o.Reminders == nil {
		return
	}
	srvLabel := ""
	if serviceName != "" {
		srvLabel = fmt.Sprintf(" de %s", serviceName)
	}
	body := fmt.Sprintf("Recordatorio: tenés un turno%s el %s.",
		srvLabel, formatSlotLine(models.Slot{StartUTC: appt.StartUTC, EndUTC: appt.EndUTC}, profLocation(prof)))
	if err := o.Reminders.ScheduleReminder(appt, counterpart.PhoneE164, body); err != nil {
		utils.GetLogger().Warn("failed to schedule reminder", zap.String("appointmentID", appt.ID), zap.Error(err))
	}
}

func (o *Orchestrator) clearOffer(ctx context.Context, key string) {
	if err := o.Offers.Clear(ctx, key); err != nil {
		utils.GetLogger().Warn("failed to clear pending offer", zap.String("key", key), zap.Error(err))
	}
}

func (o *Orchestrator) logMessage(professionalID, counterpartID string, dir models.MessageDirection, text, externalID string) {
	if o.Conversations == nil || text == "" {
		return
	}
	err := o.Conversations.LogMessage(&models.Message{
		ProfessionalID: professionalID,
		CounterpartID:  counterpartID,
		Direction:      dir,
		Text:           text,
		ExternalID:     externalID,
		SentUTC:        time.Now().UTC(),
	})
	if err != nil {
		utils.GetLogger().Warn("failed to log message", zap.Error(err))
	}
}

// parseSelection accepts short bare numbers ("1", "2", "10") as offer picks.
func parseSelection(text string) (int, bool) {
	t := strings.TrimSpace(text)
	if len(t) == 0 || len(t) > 2 {
		return 0, false
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, false
	}
	return n, true
}

func profLocation(prof *models.Professional) *time.Location {
	if loc, err := time.LoadLocation(prof.Timezone); err == nil {
		return loc
	}
	return time.UTC
}
