package services

import (
	"detour-route-service/internal/domain"
	"sync"
	"time"
)

// Session is the state of one planning invocation.
//
// The identity fields are fixed at creation. The selected stops, plan and
// warnings change only through Planner.RemoveStop, which holds the session
// lock for the whole edit, so edits to one session are serialized.
type Session struct {
	ID       string
	Request  PlanRequest
	DepartAt time.Time
	Budget   domain.Budget
	Base     BaseRoute

	mu       sync.Mutex
	selected []domain.EvaluatedStop
	plan     *domain.RoutePlan
	warnings []string
}

// Selected returns the committed stops in insertion order.
func (s *Session) Selected() []domain.EvaluatedStop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneStops(s.selected)
}

// Plan returns the currently displayed plan.
func (s *Session) Plan() *domain.RoutePlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

func (s *Session) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// SessionStore keeps live sessions in memory, keyed by session id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (st *SessionStore) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
