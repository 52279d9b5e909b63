package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/driving-school-bot/internal/models"
)

type fakeUsers struct {
	nextID    int64
	byID      map[int64]*models.User
	insertErr error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[int64]*models.User{}} }

func (f *fakeUsers) find(pred func(*models.User) bool) *models.User {
	for _, u := range f.byID {
		if pred(u) {
			c := *u
			return &c
		}
	}
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id }), nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email }), nil
}

func (f *fakeUsers) GetByDNI(_ context.Context, dni string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.DNI == dni }), nil
}

func (f *fakeUsers) GetByTelegramChatID(_ context.Context, chatID int64) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.TelegramChatID != nil && *u.TelegramChatID == chatID }), nil
}

func (f *fakeUsers) Insert(_ context.Context, u models.User) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = &u
	return u.ID, nil
}

func (f *fakeUsers) SetActive(_ context.Context, id int64, active bool) error {
	if u, ok := f.byID[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (f *fakeUsers) SetTelegramChatID(_ context.Context, id int64, chatID *int64) error {
	if u, ok := f.byID[id]; ok {
		u.TelegramChatID = chatID
	}
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

func newTestService() (*Service, *fakeUsers) {
	store := newFakeUsers()
	s := NewService(store, nil)
	s.cost = bcrypt.MinCost
	return s, store
}

func validInput() RegisterInput {
	return RegisterInput{
		Email:     "Ana@Example.com ",
		DNI:       "12345678z",
		Password:  "secret1",
		FirstName: "Ana",
		LastName:  "García",
		Role:      models.Student,
	}
}

func TestRegister(t *testing.T) {
	s, store := newTestService()
	ctx := context.Background()

	u, err := s.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == 0 || u.Email != "ana@example.com" || u.DNI != "12345678Z" || !u.IsActive {
		t.Fatalf("unexpected user: %+v", u)
	}
	stored := store.byID[u.ID]
	if stored.PasswordHash == "secret1" || !strings.HasPrefix(stored.PasswordHash, "$2") {
		t.Fatalf("password stored in clear: %q", stored.PasswordHash)
	}

	dupEmail := validInput()
	dupEmail.DNI = "87654321X"
	if _, err := s.Register(ctx, dupEmail); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("dup email: err = %v", err)
	}
	dupDNI := validInput()
	dupDNI.Email = "other@example.com"
	if _, err := s.Register(ctx, dupDNI); !errors.Is(err, ErrDNITaken) {
		t.Fatalf("dup dni: err = %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "123" }},
		{"missing dni", func(in *RegisterInput) { in.DNI = "" }},
		{"unknown role", func(in *RegisterInput) { in.Role = "JANITOR" }},
		{"missing name", func(in *RegisterInput) { in.FirstName = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newTestService()
			in := validInput()
			tt.mutate(&in)
			if _, err := s.Register(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if len(store.byID) != 0 {
				t.Fatal("invalid input must not be stored")
			}
		})
	}
}

func TestRegister_UniqueRace(t *testing.T) {
	s, store := newTestService()
	store.insertErr = &pq.Error{Code: "23505"}

	if _, err := s.Register(context.Background(), validInput()); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	store.insertErr = errors.New("connection reset")
	if _, err := s.Register(context.Background(), validInput()); errors.Is(err, ErrDuplicate) || err == nil {
		t.Fatalf("non-constraint error must pass through, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	u, err := s.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"ok", "ana@example.com", "secret1", nil},
		{"email case-insensitive", "ANA@example.com", "secret1", nil},
		{"wrong password", "ana@example.com", "secret2", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "secret1", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Authenticate(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.ID != u.ID {
				t.Fatalf("got user %d, want %d", got.ID, u.ID)
			}
		})
	}

	if err := s.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if _, err := s.Authenticate(ctx, "ana@example.com", "secret1"); !errors.Is(err, ErrInactive) {
		t.Fatalf("inactive: err = %v", err)
	}
	if err := s.Reactivate(ctx, u.ID); err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if _, err := s.Authenticate(ctx, "ana@example.com", "secret1"); err != nil {
		t.Fatalf("after reactivate: %v", err)
	}
}

func TestLinkTelegram_MovesChat(t *testing.T) {
	s, store := newTestService()
	ctx := context.Background()

	a, _ := s.Register(ctx, validInput())
	in := validInput()
	in.Email, in.DNI = "bob@example.com", "11111111H"
	b, _ := s.Register(ctx, in)

	if _, err := s.LinkTelegram(ctx, "ana@example.com", "secret1", 777); err != nil {
		t.Fatalf("link a: %v", err)
	}
	if _, err := s.LinkTelegram(ctx, "bob@example.com", "wrong", 777); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("link with wrong password: err = %v", err)
	}
	if _, err := s.LinkTelegram(ctx, "bob@example.com", "secret1", 777); err != nil {
		t.Fatalf("link b: %v", err)
	}
	if store.byID[a.ID].TelegramChatID != nil {
		t.Fatal("chat must be unlinked from previous owner")
	}
	if got := store.byID[b.ID].TelegramChatID; got == nil || *got != 777 {
		t.Fatalf("b chat = %v", got)
	}

	if err := s.Unlink(ctx, 777); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if err := s.Unlink(ctx, 777); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Unlink: err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	s, store := newTestService()
	ctx := context.Background()
	u, _ := s.Register(ctx, validInput())

	if err := s.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.byID) != 0 {
		t.Fatal("user still stored")
	}
	if err := s.Delete(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete: err = %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(h), []byte("admin123")) != nil {
		t.Fatal("hash does not verify")
	}
}
