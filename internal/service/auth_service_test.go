package service

import (
	"context"
	"errors"
	"testing"

	"wanderwise/internal/model"
	"wanderwise/internal/repo"
)

type fakeUserRepo struct {
	byUsername map[string]*model.User
	byID       map[int64]*model.User
	nextID     int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byUsername: make(map[string]*model.User),
		byID:       make(map[int64]*model.User),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if _, taken := f.byUsername[user.Username]; taken {
		return nil, repo.ErrDuplicate
	}
	f.nextID++
	stored := *user
	stored.ID = f.nextID
	f.byUsername[stored.Username] = &stored
	f.byID[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeUserRepo) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func registerInput(username, role string) RegisterInput {
	return RegisterInput{
		Username: username,
		Password: "hunter22",
		Email:    username + "@example.com",
		FullName: "Test User",
		Role:     role,
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, &fakeAgentRepo{}, "test-secret", testLogger())
	ctx := context.Background()

	created, token, err := svc.Register(ctx, registerInput("alice", model.RoleTraveler))
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || token == "" {
		t.Fatalf("expected id and token, got id=%d token=%q", created.ID, token)
	}
	if created.Password == "hunter22" {
		t.Fatal("password must be stored hashed")
	}

	loggedIn, loginToken, err := svc.Login(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if loggedIn.ID != created.ID || loginToken == "" {
		t.Fatalf("login mismatch: %+v", loggedIn)
	}

	resolved, err := svc.Authenticate(ctx, loginToken)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.ID != created.ID || resolved.Username != "alice" {
		t.Fatalf("token resolved to wrong user: %+v", resolved)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, &fakeAgentRepo{}, "test-secret", testLogger())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, registerInput("bob", model.RoleTraveler)); err != nil {
		t.Fatal(err)
	}
	_, _, err := svc.Register(ctx, registerInput("bob", model.RoleTraveler))
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), &fakeAgentRepo{}, "test-secret", testLogger())

	_, _, err := svc.Register(context.Background(), registerInput("mallory", "admin"))
	if !errors.Is(err, repo.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, &fakeAgentRepo{}, "test-secret", testLogger())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, registerInput("carol", model.RoleTraveler)); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Login(ctx, "carol", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, &fakeAgentRepo{}, "test-secret", testLogger())
	other := NewAuthService(users, &fakeAgentRepo{}, "other-secret", testLogger())
	ctx := context.Background()

	_, token, err := other.Register(ctx, registerInput("dave", model.RoleTraveler))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestRegisterAgentGetsDefaultProfile(t *testing.T) {
	users := newFakeUserRepo()
	agents := &recordingAgentRepo{}
	svc := NewAuthService(users, agents, "test-secret", testLogger())

	if _, _, err := svc.Register(context.Background(), registerInput("erin", model.RoleAgent)); err != nil {
		t.Fatal(err)
	}

	if agents.created == nil {
		t.Fatal("agent registration must create a profile")
	}
	p := agents.created
	if p.Specialization != "General Travel" || p.Experience != 1 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if len(p.Languages) == 0 || len(p.Regions) == 0 || len(p.TravelStyles) == 0 {
		t.Fatalf("defaults missing: %+v", p)
	}
}

type recordingAgentRepo struct {
	fakeAgentRepo
	created *model.AgentProfile
}

func (r *recordingAgentRepo) CreateAgentProfile(ctx context.Context, p *model.AgentProfile) (*model.AgentProfile, error) {
	r.created = p
	return p, nil
}
