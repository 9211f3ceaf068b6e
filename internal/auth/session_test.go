package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/regdash/internal/mocks"
	"github.com/zjrosen/regdash/internal/registration"
)

func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		require.FailNow(t, "timeout waiting for session event")
		return Event{}
	}
}

func newTestSession(t *testing.T) (*Session, *mocks.MockCollaborator, <-chan Event) {
	t.Helper()
	collab := mocks.NewMockCollaborator(t)
	broker := NewBroker()
	t.Cleanup(broker.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewSession(collab, broker), collab, broker.Subscribe(ctx)
}

func TestGuard_Allows(t *testing.T) {
	user := &registration.User{ID: "u1"}

	require.True(t, GuardGuest.Allows(nil))
	require.False(t, GuardGuest.Allows(user))
	require.True(t, GuardAuth.Allows(user))
	require.False(t, GuardAuth.Allows(nil))
}

func TestSession_ResolveGuest(t *testing.T) {
	s, collab, events := newTestSession(t)
	collab.EXPECT().User(mock.Anything).Return(nil, nil).Once()

	require.False(t, s.Resolved())
	user, err := s.Resolve(context.Background())
	require.NoError(t, err)
	require.Nil(t, user)
	require.True(t, s.Resolved())

	ev := nextEvent(t, events)
	require.Equal(t, EventResolved, ev.Type)
	require.Nil(t, ev.User)
}

func TestSession_ResolveErrorPublishesNothing(t *testing.T) {
	s, collab, events := newTestSession(t)
	collab.EXPECT().User(mock.Anything).Return(nil, errors.New("offline")).Once()

	_, err := s.Resolve(context.Background())
	require.Error(t, err)
	require.False(t, s.Resolved())
	require.Empty(t, events)
}

func TestSession_RegisterSuccessPublishesSignedIn(t *testing.T) {
	s, collab, events := newTestSession(t)
	user := &registration.User{ID: "u1", Name: "Jane Doe"}
	payload := registration.Payload{Name: "Jane Doe", PasswordConfirmation: "password1"}

	collab.EXPECT().Register(mock.Anything, payload).Return(nil, nil).Once()
	collab.EXPECT().User(mock.Anything).Return(user, nil).Once()

	errs, err := s.Register(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, errs.Empty())
	require.Same(t, user, s.User())

	ev := nextEvent(t, events)
	require.Equal(t, EventSignedIn, ev.Type)
	require.Same(t, user, ev.User)
}

func TestSession_RegisterRejectedKeepsGuest(t *testing.T) {
	s, collab, events := newTestSession(t)
	rejected := registration.NewFieldErrors()
	rejected.Add("email", "The email has already been taken.")

	collab.EXPECT().Register(mock.Anything, mock.Anything).Return(rejected, nil).Once()

	errs, err := s.Register(context.Background(), registration.Payload{})
	require.NoError(t, err)
	require.Same(t, rejected, errs)
	require.Nil(t, s.User())
	require.Empty(t, events)
}

func TestSession_RegisterWithoutSessionIsUnauthenticated(t *testing.T) {
	s, collab, _ := newTestSession(t)
	collab.EXPECT().Register(mock.Anything, mock.Anything).Return(nil, nil).Once()
	collab.EXPECT().User(mock.Anything).Return(nil, nil).Once()

	_, err := s.Register(context.Background(), registration.Payload{})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSession_Logout(t *testing.T) {
	s, collab, events := newTestSession(t)
	user := &registration.User{ID: "u1"}
	collab.EXPECT().User(mock.Anything).Return(user, nil).Once()
	collab.EXPECT().Logout(mock.Anything).Return(nil).Once()

	_, err := s.Resolve(context.Background())
	require.NoError(t, err)
	nextEvent(t, events)

	require.NoError(t, s.Logout(context.Background()))
	require.Nil(t, s.User())

	ev := nextEvent(t, events)
	require.Equal(t, EventSignedOut, ev.Type)
}

func TestSession_LogoutAsGuest(t *testing.T) {
	s, _, _ := newTestSession(t)
	require.ErrorIs(t, s.Logout(context.Background()), ErrUnauthenticated)
}

func TestSession_LogoutFailureKeepsUser(t *testing.T) {
	s, collab, _ := newTestSession(t)
	user := &registration.User{ID: "u1"}
	collab.EXPECT().User(mock.Anything).Return(user, nil).Once()
	collab.EXPECT().Logout(mock.Anything).Return(errors.New("offline")).Once()

	_, err := s.Resolve(context.Background())
	require.NoError(t, err)

	require.Error(t, s.Logout(context.Background()))
	require.Same(t, user, s.User())
}
