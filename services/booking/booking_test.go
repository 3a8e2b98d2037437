package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	appointmentRepo "prescripto/database/repository/appointment"
	"prescripto/models"
	"prescripto/utils"
)

// memStore is a shared in-memory backing store. The single mutex gives the
// fake repositories the same atomicity the Mongo transaction provides.
type memStore struct {
	mu      sync.Mutex
	doctors map[string]*models.Doctor
	users   map[string]*models.User
	appts   map[string]*models.Appointment
	order   []string
}

func newMemStore() *memStore {
	return &memStore{
		doctors: map[string]*models.Doctor{},
		users:   map[string]*models.User{},
		appts:   map[string]*models.Appointment{},
	}
}

func copyDoctor(d *models.Doctor) *models.Doctor {
	cp := *d
	cp.SlotsBooked = map[string][]string{}
	for k, v := range d.SlotsBooked {
		cp.SlotsBooked[k] = append([]string(nil), v...)
	}
	return &cp
}

type memDoctorRepo struct{ s *memStore }

func (r *memDoctorRepo) Create(doc *models.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.doctors[doc.ID] = copyDoctor(doc)
	return nil
}

func (r *memDoctorRepo) GetByID(id string) (*models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, nil
	}
	return copyDoctor(d), nil
}

func (r *memDoctorRepo) GetByEmail(email string) (*models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.doctors {
		if d.Email == email {
			return copyDoctor(d), nil
		}
	}
	return nil, nil
}

func (r *memDoctorRepo) GetAllWithProjection(projection bson.M) ([]models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Doctor
	for _, d := range r.s.doctors {
		out = append(out, *copyDoctor(d))
	}
	return out, nil
}

func (r *memDoctorRepo) SetAvailability(id string, available bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.doctors[id]; ok {
		d.Available = available
	}
	return nil
}

func (r *memDoctorRepo) UpdateProfile(id string, req models.DoctorUpdateRequest) (*models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[id]
	if !ok {
		return nil, nil
	}
	if req.Fees != nil {
		d.Fees = *req.Fees
	}
	if req.Address != nil {
		d.Address = *req.Address
	}
	if req.About != nil {
		d.About = *req.About
	}
	if req.Available != nil {
		d.Available = *req.Available
	}
	return copyDoctor(d), nil
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(u *models.User) error { return r.Create(u) }

func (r *memUserRepo) GetByID(id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	return r.GetByID(id)
}

func (r *memUserRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.User, error) {
	return r.GetByEmail(email)
}

func (r *memUserRepo) GetAll() ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.User
	for _, u := range r.s.users {
		out = append(out, *u)
	}
	return out, nil
}

type memApptRepo struct{ s *memStore }

func (r *memApptRepo) GetByID(id string) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memApptRepo) GetAll() ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Appointment, 0, len(r.s.order))
	for i := len(r.s.order) - 1; i >= 0; i-- {
		out = append(out, *r.s.appts[r.s.order[i]])
	}
	return out, nil
}

func (r *memApptRepo) GetByUser(userID string) ([]models.Appointment, error) {
	all, _ := r.GetAll()
	var out []models.Appointment
	for _, a := range all {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memApptRepo) GetByDoctor(docID string) ([]models.Appointment, error) {
	all, _ := r.GetAll()
	var out []models.Appointment
	for _, a := range all {
		if a.DocID == docID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memApptRepo) MarkCompleted(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.appts[id]; ok && !a.Cancelled {
		a.IsCompleted = true
	}
	return nil
}

func (r *memApptRepo) SetPaymentIntent(id, intentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.appts[id]; ok {
		a.PaymentIntentID = intentID
	}
	return nil
}

func (r *memApptRepo) MarkPaid(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.appts[id]; ok {
		a.Payment = true
	}
	return nil
}

func (r *memApptRepo) BookTransactionally(ctx context.Context, appt *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	doc, ok := r.s.doctors[appt.DocID]
	if !ok || !doc.Available || doc.SlotTaken(appt.SlotDate, appt.SlotTime) {
		return appointmentRepo.ErrSlotUnavailable
	}
	doc.SlotsBooked[appt.SlotDate] = append(doc.SlotsBooked[appt.SlotDate], appt.SlotTime)

	cp := *appt
	r.s.appts[appt.ID] = &cp
	r.s.order = append(r.s.order, appt.ID)
	return nil
}

func (r *memApptRepo) CancelTransactionally(ctx context.Context, appt *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.appts[appt.ID]
	if !ok || stored.Cancelled {
		return appointmentRepo.ErrAlreadyCancelled
	}
	stored.Cancelled = true

	if doc, ok := r.s.doctors[stored.DocID]; ok {
		times := doc.SlotsBooked[stored.SlotDate]
		for i, t := range times {
			if t == stored.SlotTime {
				doc.SlotsBooked[stored.SlotDate] = append(times[:i], times[i+1:]...)
				break
			}
		}
	}
	return nil
}

type recordingReminder struct {
	mu        sync.Mutex
	scheduled []string
	fail      bool
}

func (r *recordingReminder) ScheduleReminder(appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("queue down")
	}
	r.scheduled = append(r.scheduled, appt.ID)
	return nil
}

var testNow = time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC)

func newTestService(store *memStore) *DefaultBookingService {
	return &DefaultBookingService{
		DoctorRepo: &memDoctorRepo{s: store},
		UserRepo:   &memUserRepo{s: store},
		ApptRepo:   &memApptRepo{s: store},
		Clock:      func() time.Time { return testNow },
	}
}

func seedStore(store *memStore) {
	store.doctors["doc-1"] = &models.Doctor{
		ID:          "doc-1",
		Name:        "Dr. Richard James",
		Email:       "richard@clinic.test",
		Speciality:  "General physician",
		Available:   true,
		Fees:        50,
		SlotsBooked: map[string][]string{},
	}
	store.users["user-1"] = &models.User{ID: "user-1", Name: "Alice", Email: "alice@example.test"}
	store.users["user-2"] = &models.User{ID: "user-2", Name: "Bob", Email: "bob@example.test"}
}

// tomorrowKey is the second horizon day relative to testNow.
func tomorrowKey() string {
	return models.FormatSlotDate(testNow.AddDate(0, 0, 1))
}

func TestBookReservesSlotAndCreatesAppointment(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	rem := &recordingReminder{}
	svc := newTestService(store)
	svc.Reminder = rem

	appt, err := svc.Book(context.Background(), "user-1", "doc-1", tomorrowKey(), "10:30 AM")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.Amount != 50 {
		t.Errorf("amount = %v, want doctor fee 50", appt.Amount)
	}
	if appt.UserData.Name != "Alice" || appt.DocData.Name != "Dr. Richard James" {
		t.Errorf("snapshots not captured: %+v / %+v", appt.UserData, appt.DocData)
	}

	if !store.doctors["doc-1"].SlotTaken(tomorrowKey(), "10:30 AM") {
		t.Error("slot not reserved on doctor record")
	}
	if len(store.appts) != 1 {
		t.Errorf("got %d appointments, want 1", len(store.appts))
	}
	if len(rem.scheduled) != 1 || rem.scheduled[0] != appt.ID {
		t.Errorf("reminder not scheduled for %s: %v", appt.ID, rem.scheduled)
	}

	// The booked slot disappears from the published availability.
	days, err := svc.AvailableSlotsForDoctor("doc-1")
	if err != nil {
		t.Fatalf("AvailableSlotsForDoctor: %v", err)
	}
	for _, s := range days[1].Slots {
		if s.Time == "10:30 AM" {
			t.Error("booked slot still offered")
		}
	}
}

func TestBookReminderFailureDoesNotFailBooking(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)
	svc.Reminder = &recordingReminder{fail: true}

	if _, err := svc.Book(context.Background(), "user-1", "doc-1", tomorrowKey(), "10:30 AM"); err != nil {
		t.Fatalf("Book failed on reminder error: %v", err)
	}
}

func TestBookRejectsTakenSlot(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	store.doctors["doc-1"].SlotsBooked[tomorrowKey()] = []string{"10:30 AM"}
	svc := newTestService(store)

	_, err := svc.Book(context.Background(), "user-1", "doc-1", tomorrowKey(), "10:30 AM")
	if CodeOf(err) != CodeConflict {
		t.Fatalf("got %v, want conflict", err)
	}
	if len(store.appts) != 0 {
		t.Error("failed booking left an appointment behind")
	}
	if got := store.doctors["doc-1"].SlotsBooked[tomorrowKey()]; len(got) != 1 {
		t.Errorf("slot list mutated by failed booking: %v", got)
	}
}

func TestBookRejectsUnavailableDoctor(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	store.doctors["doc-1"].Available = false
	svc := newTestService(store)

	_, err := svc.Book(context.Background(), "user-1", "doc-1", tomorrowKey(), "10:30 AM")
	if CodeOf(err) != CodeConflict {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestBookRejectsSlotOutsideWindow(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)

	cases := []struct {
		name     string
		slotDate string
		slotTime string
	}{
		{"before opening", tomorrowKey(), "09:30 AM"},
		{"at closing", tomorrowKey(), "09:00 PM"},
		{"past day", models.FormatSlotDate(testNow.AddDate(0, 0, -1)), "10:30 AM"},
		{"beyond horizon", models.FormatSlotDate(testNow.AddDate(0, 0, 8)), "10:30 AM"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Book(context.Background(), "user-1", "doc-1", tc.slotDate, tc.slotTime)
			if CodeOf(err) != CodeValidation {
				t.Fatalf("got %v, want validation", err)
			}
		})
	}
}

func TestBookValidationAndLookupFailures(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Book(ctx, "user-1", "", tomorrowKey(), "10:30 AM"); CodeOf(err) != CodeValidation {
		t.Errorf("missing docId: got %v, want validation", err)
	}
	if _, err := svc.Book(ctx, "user-1", "doc-1", "31_2_2025", "10:30 AM"); CodeOf(err) != CodeValidation {
		t.Errorf("bad date: got %v, want validation", err)
	}
	if _, err := svc.Book(ctx, "user-1", "ghost", tomorrowKey(), "10:30 AM"); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown doctor: got %v, want notFound", err)
	}
	if _, err := svc.Book(ctx, "ghost", "doc-1", tomorrowKey(), "10:30 AM"); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown user: got %v, want notFound", err)
	}
}

func TestBookConcurrentSameSlot(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)

	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, userID := range []string{"user-1", "user-2"} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Book(context.Background(), userID, "doc-1", tomorrowKey(), "10:30 AM")
		}(i, userID)
	}
	close(start)
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case CodeOf(err) == CodeConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("got %d wins and %d conflicts, want exactly one of each", wins, conflicts)
	}
	if got := store.doctors["doc-1"].SlotsBooked[tomorrowKey()]; len(got) != 1 {
		t.Errorf("slot reserved %d times: %v", len(got), got)
	}
	if len(store.appts) != 1 {
		t.Errorf("got %d appointments, want 1", len(store.appts))
	}
}

func TestCancelReleasesSlotAndKeepsRecord(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)
	ctx := context.Background()

	appt, err := svc.Book(ctx, "user-1", "doc-1", tomorrowKey(), "10:30 AM")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	changed, err := svc.Cancel(ctx, Principal{ID: "user-1", Role: utils.RolePatient}, appt.ID)
	if err != nil || !changed {
		t.Fatalf("Cancel = (%v, %v), want (true, nil)", changed, err)
	}
	if store.doctors["doc-1"].SlotTaken(tomorrowKey(), "10:30 AM") {
		t.Error("cancelled slot still reserved")
	}
	if got := store.appts[appt.ID]; got == nil || !got.Cancelled {
		t.Error("cancelled appointment record missing or flag unset")
	}

	// The freed slot is bookable again by another patient.
	if _, err := svc.Book(ctx, "user-2", "doc-1", tomorrowKey(), "10:30 AM"); err != nil {
		t.Errorf("rebooking freed slot: %v", err)
	}
}

func TestCancelIdempotent(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)
	ctx := context.Background()
	owner := Principal{ID: "user-1", Role: utils.RolePatient}

	appt, err := svc.Book(ctx, "user-1", "doc-1", tomorrowKey(), "10:30 AM")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if _, err := svc.Cancel(ctx, owner, appt.ID); err != nil {
		t.Fatalf("first Cancel: %v", err)
	}

	changed, err := svc.Cancel(ctx, owner, appt.ID)
	if err != nil {
		t.Fatalf("second Cancel: %v", err)
	}
	if changed {
		t.Error("second Cancel reported a change")
	}
}

func TestCancelAuthorization(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)
	ctx := context.Background()

	appt, err := svc.Book(ctx, "user-1", "doc-1", tomorrowKey(), "10:30 AM")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if _, err := svc.Cancel(ctx, Principal{ID: "user-2", Role: utils.RolePatient}, appt.ID); CodeOf(err) != CodeUnauthorized {
		t.Errorf("other patient: got %v, want unauthorized", err)
	}
	if _, err := svc.Cancel(ctx, Principal{ID: "other-doc", Role: utils.RoleDoctor}, appt.ID); CodeOf(err) != CodeUnauthorized {
		t.Errorf("unrelated doctor: got %v, want unauthorized", err)
	}
	if changed, err := svc.Cancel(ctx, Principal{ID: "doc-1", Role: utils.RoleDoctor}, appt.ID); err != nil || !changed {
		t.Errorf("assigned doctor cancel = (%v, %v), want (true, nil)", changed, err)
	}

	appt2, err := svc.Book(ctx, "user-2", "doc-1", tomorrowKey(), "11:00 AM")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if changed, err := svc.Cancel(ctx, Principal{ID: utils.AdminSubject, Role: utils.RoleAdmin}, appt2.ID); err != nil || !changed {
		t.Errorf("admin cancel = (%v, %v), want (true, nil)", changed, err)
	}
}

func TestCompleteLifecycle(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)
	ctx := context.Background()

	appt, err := svc.Book(ctx, "user-1", "doc-1", tomorrowKey(), "10:30 AM")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if err := svc.Complete(ctx, Principal{ID: "user-1", Role: utils.RolePatient}, appt.ID); CodeOf(err) != CodeUnauthorized {
		t.Errorf("patient complete: got %v, want unauthorized", err)
	}
	if err := svc.Complete(ctx, Principal{ID: "other-doc", Role: utils.RoleDoctor}, appt.ID); CodeOf(err) != CodeUnauthorized {
		t.Errorf("unrelated doctor complete: got %v, want unauthorized", err)
	}
	if err := svc.Complete(ctx, Principal{ID: "doc-1", Role: utils.RoleDoctor}, appt.ID); err != nil {
		t.Fatalf("assigned doctor complete: %v", err)
	}
	if !store.appts[appt.ID].IsCompleted {
		t.Error("completed flag unset")
	}
	// Completion keeps the slot reserved; only cancellation frees it.
	if !store.doctors["doc-1"].SlotTaken(tomorrowKey(), "10:30 AM") {
		t.Error("completion released the slot")
	}
	// Completing again is a no-op.
	if err := svc.Complete(ctx, Principal{ID: "doc-1", Role: utils.RoleDoctor}, appt.ID); err != nil {
		t.Errorf("repeat complete: %v", err)
	}
}

func TestCompleteRejectsCancelled(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)
	ctx := context.Background()

	appt, err := svc.Book(ctx, "user-1", "doc-1", tomorrowKey(), "10:30 AM")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if _, err := svc.Cancel(ctx, Principal{ID: "user-1", Role: utils.RolePatient}, appt.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if err := svc.Complete(ctx, Principal{ID: "doc-1", Role: utils.RoleDoctor}, appt.ID); CodeOf(err) != CodeConflict {
		t.Errorf("complete after cancel: got %v, want conflict", err)
	}
}

func TestAppointmentListingsNewestFirst(t *testing.T) {
	store := newMemStore()
	seedStore(store)
	svc := newTestService(store)
	ctx := context.Background()

	first, err := svc.Book(ctx, "user-1", "doc-1", tomorrowKey(), "10:00 AM")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	second, err := svc.Book(ctx, "user-1", "doc-1", tomorrowKey(), "10:30 AM")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	appts, err := svc.AppointmentsForUser("user-1")
	if err != nil {
		t.Fatalf("AppointmentsForUser: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("got %d appointments, want 2", len(appts))
	}
	if appts[0].ID != second.ID || appts[1].ID != first.ID {
		t.Error("appointments not ordered newest first")
	}

	byDoc, err := svc.AppointmentsForDoctor("doc-1")
	if err != nil {
		t.Fatalf("AppointmentsForDoctor: %v", err)
	}
	if len(byDoc) != 2 {
		t.Errorf("doctor listing has %d appointments, want 2", len(byDoc))
	}
}
