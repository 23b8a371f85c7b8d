package inbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/clinic/internal/platform/auth"
)

type mockRepo struct {
	items []*Message
}

func (m *mockRepo) Create(_ context.Context, msg *Message) error {
	cp := *msg
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	m.items = append(m.items, &cp)
	msg.ID = cp.ID
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	for _, msg := range m.items {
		if msg.ID == id {
			cp := *msg
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	for _, msg := range m.items {
		if msg.ID == id {
			msg.Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Message, error) {
	out := make([]*Message, 0, len(m.items))
	for _, msg := range m.items {
		cp := *msg
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) ListByParticipant(_ context.Context, userID uuid.UUID) ([]*Message, error) {
	var out []*Message
	for _, msg := range m.items {
		if msg.SenderID == userID || msg.RecipientID == userID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockDirectory struct {
	users map[uuid.UUID]string
}

func (m *mockDirectory) Lookup(_ context.Context, id uuid.UUID) (string, auth.Role, error) {
	name, ok := m.users[id]
	if !ok {
		return "", "", errors.New("user not found")
	}
	return name, auth.RolePatient, nil
}

type fixture struct {
	svc    *Service
	repo   *mockRepo
	dir    *mockDirectory
	sender auth.Identity
	target auth.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := &mockRepo{}
	dir := &mockDirectory{users: map[uuid.UUID]string{}}
	svc := NewService(repo, dir)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }

	sender := auth.Identity{ID: uuid.New(), Name: "Pat Patient", Role: auth.RolePatient}
	target := auth.Identity{ID: uuid.New(), Name: "Dr Dolittle", Role: auth.RoleDoctor}
	dir.users[sender.ID] = sender.Name
	dir.users[target.ID] = target.Name
	return &fixture{svc: svc, repo: repo, dir: dir, sender: sender, target: target}
}

func (f *fixture) send(t *testing.T) *Message {
	t.Helper()
	m, err := f.svc.Send(context.Background(), f.sender, SendRequest{
		RecipientID: f.target.ID,
		Subject:     "Follow-up question",
		Body:        "Is it still safe to take the blue pills?",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	return m
}

func TestSend(t *testing.T) {
	f := newFixture(t)
	m := f.send(t)

	if m.SenderID != f.sender.ID || m.SenderName != "Pat Patient" {
		t.Errorf("sender not recorded: %+v", m)
	}
	if m.RecipientID != f.target.ID || m.RecipientName != "Dr Dolittle" {
		t.Errorf("recipient not resolved: %+v", m)
	}
	if m.Read {
		t.Error("new message should be unread")
	}
	if m.SentAt.IsZero() {
		t.Error("SentAt not set")
	}
}

func TestSend_Validation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		req  SendRequest
	}{
		{"empty subject", SendRequest{RecipientID: f.target.ID, Subject: "  ", Body: "hi"}},
		{"empty body", SendRequest{RecipientID: f.target.ID, Subject: "hi", Body: ""}},
		{"unknown recipient", SendRequest{RecipientID: uuid.New(), Subject: "hi", Body: "hi"}},
		{"self message", SendRequest{RecipientID: f.sender.ID, Subject: "hi", Body: "hi"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Send(context.Background(), f.sender, tc.req); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(t)
	m := f.send(t)

	for _, actor := range []auth.Identity{
		f.sender,
		f.target,
		{ID: uuid.New(), Name: "Root", Role: auth.RoleAdmin},
	} {
		if _, err := f.svc.Get(context.Background(), actor, m.ID); err != nil {
			t.Errorf("%s: %v", actor.Role, err)
		}
	}
	stranger := auth.Identity{ID: uuid.New(), Name: "Someone", Role: auth.RoleDoctor}
	if _, err := f.svc.Get(context.Background(), stranger, m.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger: got %v, want ErrForbidden", err)
	}
}

func TestList_Scoping(t *testing.T) {
	f := newFixture(t)
	f.send(t)
	f.send(t)
	f.repo.items = append(f.repo.items, &Message{
		ID:          uuid.New(),
		SenderID:    uuid.New(),
		RecipientID: uuid.New(),
	})

	for _, actor := range []auth.Identity{f.sender, f.target} {
		items, total, err := f.svc.List(context.Background(), actor, 20, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if total != 2 || len(items) != 2 {
			t.Errorf("%s sees %d/%d, want 2/2", actor.Role, len(items), total)
		}
	}
	adm := auth.Identity{ID: uuid.New(), Name: "Root", Role: auth.RoleAdmin}
	_, total, err := f.svc.List(context.Background(), adm, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("admin sees %d, want 3", total)
	}
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	m := f.send(t)

	if _, err := f.svc.MarkRead(context.Background(), f.sender, m.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("sender mark read: got %v, want ErrForbidden", err)
	}
	got, err := f.svc.MarkRead(context.Background(), f.target, m.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !got.Read {
		t.Error("message not marked read")
	}
	// idempotent for the recipient
	if _, err := f.svc.MarkRead(context.Background(), f.target, m.ID); err != nil {
		t.Errorf("second MarkRead: %v", err)
	}
	if _, err := f.svc.MarkRead(context.Background(), f.target, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}
