// Package session holds the client-side session state controller: a small
// store that mirrors "is a token held" and "is the holder an admin" against
// the token storage and the server's profile endpoint, and self-corrects
// whenever the two disagree.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"go-job-board/pkg/apierror"
)

// maxReconcilePasses bounds Settle; convergence normally takes at most one
// extra pass after a flag correction.
const maxReconcilePasses = 5

type State struct {
	IsLoggedIn bool
	IsAdmin    bool
}

// Store derives session flags from the stored token. The flags are a cache,
// never the source of truth: a reconciliation pass brings them back in line
// with storage, and a server-reported authorization failure is treated as
// proof the token is dead.
type Store struct {
	storage  TokenStorage
	profiles ProfileClient

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

func New(storage TokenStorage, profiles ProfileClient) *Store {
	return &Store{
		storage:  storage,
		profiles: profiles,
		subs:     map[int]func(State){},
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run after every state change. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Login persists a freshly issued token. The flags are left for the next
// reconciliation pass, which is what flips IsLoggedIn.
func (s *Store) Login(token string) error {
	return s.storage.SetToken(token)
}

// SetLoggedIn overrides the login flag directly. Reconciliation will undo
// it if it disagrees with token presence.
func (s *Store) SetLoggedIn(v bool) {
	s.update(func(st *State) { st.IsLoggedIn = v })
}

// Logout deletes the stored token and drops the login flag unconditionally,
// independent of reconciliation. The token stays cryptographically valid
// until it expires; deletion is all a stateless scheme can do.
func (s *Store) Logout() error {
	err := s.storage.ClearToken()
	s.update(func(st *State) { st.IsLoggedIn = false })
	return err
}

// Reconcile runs exactly one pass:
//
//  1. If token presence disagrees with IsLoggedIn, correct the flag and
//     stop. The role refresh waits for the next pass, so a drifted store
//     settles over two passes rather than one.
//  2. If logged in, fetch the profile and derive IsAdmin. On an
//     authorization failure (401 or a message containing "unauthorized")
//     the token is deleted and the login flag dropped.
//  3. If logged out, force IsAdmin off and delete any orphaned token.
//
// The returned bool reports whether state changed. A profile-fetch error is
// returned for logging after the store has already self-corrected.
func (s *Store) Reconcile(ctx context.Context) (bool, error) {
	token, present := s.storage.Token()
	current := s.State()

	if present != current.IsLoggedIn {
		return s.update(func(st *State) { st.IsLoggedIn = present }), nil
	}

	if current.IsLoggedIn {
		profile, err := s.profiles.FetchProfile(ctx, token)
		if err != nil {
			changed := s.update(func(st *State) { st.IsAdmin = false })
			if isAuthFailure(err) {
				_ = s.storage.ClearToken()
				changed = s.update(func(st *State) { st.IsLoggedIn = false }) || changed
			}
			return changed, err
		}

		return s.update(func(st *State) { st.IsAdmin = profile.Role == "admin" }), nil
	}

	changed := s.update(func(st *State) { st.IsAdmin = false })
	if present {
		_ = s.storage.ClearToken()
	}
	return changed, nil
}

// Settle drives Reconcile to a fixpoint so callers get the converged state
// without re-implementing the pass loop.
func (s *Store) Settle(ctx context.Context) (State, error) {
	var lastErr error
	for i := 0; i < maxReconcilePasses; i++ {
		changed, err := s.Reconcile(ctx)
		if err != nil {
			lastErr = err
		}
		if !changed {
			break
		}
	}

	return s.State(), lastErr
}

func (s *Store) update(mutate func(*State)) bool {
	s.mu.Lock()
	before := s.state
	mutate(&s.state)
	changed := s.state != before
	snapshot := s.state

	var subs []func(State)
	if changed {
		subs = make([]func(State), 0, len(s.subs))
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return changed
}

// isAuthFailure matches what the original client treated as proof of an
// invalid token: an explicit 401 or an "unauthorized" message.
func isAuthFailure(err error) bool {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusUnauthorized {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "unauthorized")
}
