package service

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/account-registry/internal/config"
	"github.com/spec-kit/account-registry/internal/events"
	"github.com/spec-kit/account-registry/internal/repository"
	"github.com/spec-kit/account-registry/internal/testutil"
	apperrors "github.com/spec-kit/account-registry/pkg/util/errorutil"
)

type fixture struct {
	store      *repository.Store
	identity   *IdentityService
	approval   *ApprovalService
	tickets    *TicketService
	dispatcher events.Dispatcher
	recorder   *eventRecorder
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.Store(t)
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	for _, eventType := range events.AllTypes {
		dispatcher.Subscribe(eventType, recorder.handle)
	}

	identity, err := NewIdentityService(config.AuthConfig{BcryptCost: bcrypt.MinCost}, IdentityDependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("NewIdentityService: %v", err)
	}
	return &fixture{
		store:      store,
		identity:   identity,
		approval:   NewApprovalService(ApprovalDependencies{Store: store, Dispatcher: dispatcher}),
		tickets:    NewTicketService(TicketDependencies{Store: store, Dispatcher: dispatcher}),
		dispatcher: dispatcher,
		recorder:   recorder,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !apperrors.HasCode(err, code) {
		t.Fatalf("error = %v (code %s), want code %s", err, apperrors.ToDomainError(err).Code, code)
	}
}
