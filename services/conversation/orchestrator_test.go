package conversation

import (
	"context"
	"strings"
	"testing"
	"time"

	"turnero/models"
	"turnero/services/booking"
	"turnero/services/extraction"
	"turnero/services/pending"
)

const (
	botPhone  = "5491100000000"
	userPhone = "5491144445555"
)

type profRepoStub struct {
	prof     *models.Professional
	services []models.ServiceOffering
}

func (s *profRepoStub) GetByID(string) (*models.Professional, error) { return s.prof, nil }
func (s *profRepoStub) GetByPhone(phone string) (*models.Professional, error) {
	if s.prof != nil && phone == s.prof.PhoneE164 {
		return s.prof, nil
	}
	return nil, context.Canceled
}
func (s *profRepoStub) ListEnabledServices(string) ([]models.ServiceOffering, error) {
	return s.services, nil
}
func (s *profRepoStub) ListBlackoutsInRange(string, time.Time, time.Time) ([]models.BlackoutPeriod, error) {
	return nil, nil
}
func (s *profRepoStub) CreateBlackout(*models.BlackoutPeriod) error { return nil }
func (s *profRepoStub) GetOrCreateCounterpart(profID, phone, name string) (*models.Counterpart, error) {
	return &models.Counterpart{ID: "c1", ProfessionalID: profID, PhoneE164: phone, FullName: name}, nil
}

type engineStub struct {
	slots []models.Slot
	err   error
	calls int
}

func (e *engineStub) NextSlots(context.Context, *models.Professional, time.Time, int, time.Duration) ([]models.Slot, error) {
	e.calls++
	return e.slots, e.err
}

type committerStub struct {
	err  error
	last *booking.CommitRequest
}

func (c *committerStub) Commit(_ context.Context, req booking.CommitRequest) (*models.Appointment, error) {
	c.last = &req
	if c.err != nil {
		return nil, c.err
	}
	return &models.Appointment{
		ID:             "a1",
		ProfessionalID: req.Professional.ID,
		CounterpartID:  req.CounterpartID,
		StartUTC:       req.Slot.StartUTC,
		EndUTC:         req.Slot.EndUTC,
		Status:         models.StatusPending,
		Modality:       req.Modality,
	}, nil
}

type senderStub struct {
	sentTo   []string
	sentText []string
}

func (s *senderStub) Send(_ context.Context, to, text string) (string, error) {
	s.sentTo = append(s.sentTo, to)
	s.sentText = append(s.sentText, text)
	return "wamid.1", nil
}

func fixedSlots(now time.Time) []models.Slot {
	var slots []models.Slot
	start := now.Add(30 * time.Minute)
	for i := 0; i < 3; i++ {
		s := start.Add(time.Duration(i) * time.Hour)
		slots = append(slots, models.Slot{StartUTC: s, EndUTC: s.Add(30 * time.Minute)})
	}
	return slots
}

func testOrchestrator(committer booking.Committer, engine *engineStub) (*Orchestrator, *pending.MemoryStore) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC)
	store := pending.NewMemoryStore(10 * time.Minute)
	orch := &Orchestrator{
		Professionals: &profRepoStub{
			prof: &models.Professional{ID: "p1", PhoneE164: botPhone, Timezone: "UTC", FullName: "Dra. Pérez"},
			services: []models.ServiceOffering{
				{ID: "s1", Name: "Consulta general", DurationMin: 30, Price: 100, Enabled: true},
			},
		},
		Extractor: extraction.NewHeuristicExtractor(),
		Engine:    engine,
		Offers:    store,
		Committer: committer,
		Sender:    &senderStub{},
		SlotCount: 3,
		Now:       func() time.Time { return now },
	}
	return orch, store
}

func inboundText(text string) models.Inbound {
	return models.Inbound{
		FromE164:   userPhone,
		ToE164:     botPhone,
		FromName:   "Ana López",
		Text:       text,
		ReceivedAt: time.Now().UTC(),
	}
}

func TestReplyOffersSlotsForCompleteRequest(t *testing.T) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC)
	engine := &engineStub{slots: fixedSlots(now)}
	orch, store := testOrchestrator(&committerStub{}, engine)

	reply, err := orch.Reply(context.Background(), inboundText("consulta el martes 14:30"))
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if !strings.Contains(reply, "1)") || !strings.Contains(reply, copyChooseSlot) {
		t.Errorf("expected an enumerated slot list, got %q", reply)
	}

	offer, found, _ := store.TryGet(context.Background(), "p1:"+userPhone)
	if !found {
		t.Fatal("pending offer not stored")
	}
	if len(offer.Slots) != 3 || offer.ServiceName != "Consulta general" {
		t.Errorf("offer = %+v", offer)
	}
}

func TestReplySelectionCommitsAndConfirms(t *testing.T) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC)
	engine := &engineStub{slots: fixedSlots(now)}
	committer := &committerStub{}
	orch, store := testOrchestrator(committer, engine)
	ctx := context.Background()

	if _, err := orch.Reply(ctx, inboundText("consulta el martes 14:30")); err != nil {
		t.Fatalf("offer turn: %v", err)
	}

	reply, err := orch.Reply(ctx, inboundText("2"))
	if err != nil {
		t.Fatalf("selection turn: %v", err)
	}
	if !strings.Contains(reply, "Agendé un turno") {
		t.Errorf("expected confirmation, got %q", reply)
	}
	if committer.last == nil {
		t.Fatal("committer never called")
	}
	if !committer.last.Slot.StartUTC.Equal(engine.slots[1].StartUTC) {
		t.Errorf("committed slot = %v, want second offered slot", committer.last.Slot.StartUTC)
	}
	if _, found, _ := store.TryGet(ctx, "p1:"+userPhone); found {
		t.Error("offer not cleared after commit")
	}
}

func TestReplySelectionWithoutOfferExpires(t *testing.T) {
	engine := &engineStub{}
	committer := &committerStub{}
	orch, _ := testOrchestrator(committer, engine)

	reply, err := orch.Reply(context.Background(), inboundText("1"))
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != copyOfferExpired {
		t.Errorf("reply = %q, want expired-offer copy", reply)
	}
	if committer.last != nil {
		t.Error("appointment committed without a live offer")
	}
	if engine.calls != 0 {
		t.Error("availability recomputed for a dead selection")
	}
}

func TestReplySelectionOutOfRangeExpires(t *testing.T) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC)
	engine := &engineStub{slots: fixedSlots(now)}
	orch, store := testOrchestrator(&committerStub{}, engine)
	ctx := context.Background()

	orch.Reply(ctx, inboundText("consulta el martes 14:30"))

	reply, _ := orch.Reply(ctx, inboundText("9"))
	if reply != copyOfferExpired {
		t.Errorf("reply = %q, want expired-offer copy", reply)
	}
	if _, found, _ := store.TryGet(ctx, "p1:"+userPhone); found {
		t.Error("stale offer kept after out-of-range selection")
	}
}

func TestReplyConflictReoffers(t *testing.T) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC)
	engine := &engineStub{slots: fixedSlots(now)}
	committer := &committerStub{err: booking.NewConflictError("taken")}
	orch, store := testOrchestrator(committer, engine)
	ctx := context.Background()

	orch.Reply(ctx, inboundText("consulta el martes 14:30"))

	reply, err := orch.Reply(ctx, inboundText("1"))
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if !strings.HasPrefix(reply, copySlotTaken) {
		t.Errorf("reply = %q, want slot-taken prefix", reply)
	}
	if !strings.Contains(reply, "1)") {
		t.Errorf("expected a fresh slot list after conflict, got %q", reply)
	}
	if _, found, _ := store.TryGet(ctx, "p1:"+userPhone); !found {
		t.Error("fresh offer not stored after conflict")
	}
}

func TestReplyPersistenceFailure(t *testing.T) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC)
	engine := &engineStub{slots: fixedSlots(now)}
	committer := &committerStub{err: booking.NewPersistenceError("db down", context.DeadlineExceeded)}
	orch, store := testOrchestrator(committer, engine)
	ctx := context.Background()

	orch.Reply(ctx, inboundText("consulta el martes 14:30"))

	reply, _ := orch.Reply(ctx, inboundText("1"))
	if reply != copyGenericFailure {
		t.Errorf("reply = %q, want generic failure copy", reply)
	}
	if _, found, _ := store.TryGet(ctx, "p1:"+userPhone); found {
		t.Error("offer kept after failed commit")
	}
}

func TestReplyNoAvailability(t *testing.T) {
	engine := &engineStub{slots: nil}
	orch, _ := testOrchestrator(&committerStub{}, engine)

	reply, err := orch.Reply(context.Background(), inboundText("consulta el martes 14:30"))
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != copyNoAvailability {
		t.Errorf("reply = %q, want no-availability copy", reply)
	}
}

func TestReplyIncompleteAsksOnce(t *testing.T) {
	engine := &engineStub{}
	orch, _ := testOrchestrator(&committerStub{}, engine)

	reply, err := orch.Reply(context.Background(), inboundText("hola"))
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if !strings.Contains(reply, "¿") {
		t.Errorf("expected a clarifying question, got %q", reply)
	}
	if engine.calls != 0 {
		t.Error("availability computed for an incomplete request")
	}
}

func TestReplyFreshUtteranceSupersedesOffer(t *testing.T) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC)
	engine := &engineStub{slots: fixedSlots(now)}
	orch, store := testOrchestrator(&committerStub{}, engine)
	ctx := context.Background()

	orch.Reply(ctx, inboundText("consulta el martes 14:30"))

	// A non-numeric turn restarts extraction; the old offer must not survive
	// an incomplete follow-up.
	orch.Reply(ctx, inboundText("mejor otro día"))
	if _, found, _ := store.TryGet(ctx, "p1:"+userPhone); found {
		t.Error("stale offer survived a fresh utterance")
	}
}

func TestReplyNoOps(t *testing.T) {
	engine := &engineStub{}
	orch, _ := testOrchestrator(&committerStub{}, engine)
	ctx := context.Background()

	if reply, err := orch.Reply(ctx, inboundText("")); err != nil || reply != "" {
		t.Errorf("empty text: reply=%q err=%v, want explicit no-op", reply, err)
	}

	in := inboundText("consulta el martes 14:30")
	in.ToE164 = "5491199999999" // not a registered bot line
	if reply, err := orch.Reply(ctx, in); err != nil || reply != "" {
		t.Errorf("unknown line: reply=%q err=%v, want explicit no-op", reply, err)
	}
}

func TestHandleInboundSendsReply(t *testing.T) {
	now := time.Date(2025, time.September, 3, 10, 0, 0, 0, time.UTC)
	engine := &engineStub{slots: fixedSlots(now)}
	orch, _ := testOrchestrator(&committerStub{}, engine)
	sender := &senderStub{}
	orch.Sender = sender

	if err := orch.HandleInbound(context.Background(), inboundText("consulta el martes 14:30")); err != nil {
		t.Fatalf("HandleInbound: %v", err)
	}
	if len(sender.sentText) != 1 {
		t.Fatalf("sent %d messages, want exactly 1", len(sender.sentText))
	}
	if sender.sentTo[0] != userPhone {
		t.Errorf("sent to %q, want %q", sender.sentTo[0], userPhone)
	}
}

func TestParseSelection(t *testing.T) {
	cases := []struct {
		in string
		n  int
		ok bool
	}{
		{"1", 1, true},
		{" 2 ", 2, true},
		{"10", 10, true},
		{"primero", 0, false},
		{"123", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		n, ok := parseSelection(tc.in)
		if n != tc.n || ok != tc.ok {
			t.Errorf("parseSelection(%q) = (%d, %v), want (%d, %v)", tc.in, n, ok, tc.n, tc.ok)
		}
	}
}
