package unit

import (
	"context"
	"sync"
	"time"

	"nftflow-backend/internal/domain"
	"nftflow-backend/internal/repository"
)

// fakeStore is an in-memory repository.Store for service tests. It mirrors
// the database semantics the services rely on: compare-and-set versioning,
// non-negative balance enforcement and idempotent achievement grants.
// ExecTx runs the function against the store itself; tests that exercise
// rejection paths fail before any mutation, so rollback is not simulated.
type fakeStore struct {
	mu           sync.Mutex
	users        map[int32]*domain.User
	listings     map[int32]*domain.Listing
	rentals      map[int32]*domain.Rental
	streams      map[int32]*domain.Stream
	reputations  map[int32]*domain.UserReputation
	achievements []domain.Achievement
	grants       map[int32]map[int32]bool
	disputes     map[int32]*domain.Dispute
	entries      []domain.LedgerEntry
	events       []domain.Event
	nextID       int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[int32]*domain.User),
		listings:    make(map[int32]*domain.Listing),
		rentals:     make(map[int32]*domain.Rental),
		streams:     make(map[int32]*domain.Stream),
		reputations: make(map[int32]*domain.UserReputation),
		grants:      make(map[int32]map[int32]bool),
		disputes:    make(map[int32]*domain.Dispute),
	}
}

func (s *fakeStore) id() int32 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addUser(name string, role domain.UserRole, balance int64) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &domain.User{
		ID:        s.id(),
		Name:      name,
		Email:     name + "@test.com",
		Role:      role,
		Balance:   balance,
		CreatedOn: time.Now(),
	}
	s.users[u.ID] = u
	return u
}

func (s *fakeStore) Users() repository.UserRepository               { return &fakeUsers{s} }
func (s *fakeStore) Listings() repository.ListingRepository         { return &fakeListings{s} }
func (s *fakeStore) Rentals() repository.RentalRepository           { return &fakeRentals{s} }
func (s *fakeStore) Streams() repository.StreamRepository           { return &fakeStreams{s} }
func (s *fakeStore) Reputation() repository.ReputationRepository    { return &fakeReputation{s} }
func (s *fakeStore) Achievements() repository.AchievementRepository { return &fakeAchievements{s} }
func (s *fakeStore) Disputes() repository.DisputeRepository         { return &fakeDisputes{s} }
func (s *fakeStore) Ledger() repository.LedgerRepository            { return &fakeLedger{s} }
func (s *fakeStore) Events() repository.EventRepository             { return &fakeEvents{s} }

func (s *fakeStore) ExecTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type fakeUsers struct{ s *fakeStore }

func (r *fakeUsers) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrNotFound // unique violation stand-in, unused in tests
		}
	}
	user.ID = r.s.id()
	user.CreatedOn = time.Now()
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUsers) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUsers) AddBalance(ctx context.Context, userID int32, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.Balance+delta < 0 {
		return repository.ErrInsufficientBalance
	}
	u.Balance += delta
	return nil
}

type fakeListings struct{ s *fakeStore }

func (r *fakeListings) Create(ctx context.Context, l *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.id()
	l.Version = 1
	l.CreatedOn = time.Now()
	l.UpdatedOn = l.CreatedOn
	cp := *l
	r.s.listings[l.ID] = &cp
	return nil
}

func (r *fakeListings) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeListings) GetActiveByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.listings {
		if l.Active && l.Asset == asset {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeListings) Update(ctx context.Context, l *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.listings[l.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != l.Version {
		return repository.ErrVersionConflict
	}
	l.Version++
	l.UpdatedOn = time.Now()
	cp := *l
	r.s.listings[l.ID] = &cp
	return nil
}

func (r *fakeListings) List(ctx context.Context, activeOnly bool, page, pageSize int32) ([]domain.Listing, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Listing
	for _, l := range r.s.listings {
		if !activeOnly || l.Active {
			out = append(out, *l)
		}
	}
	return out, int32(len(out)), nil
}

type fakeRentals struct{ s *fakeStore }

func (r *fakeRentals) Create(ctx context.Context, rt *domain.Rental) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt.ID = r.s.id()
	rt.Version = 1
	rt.CreatedOn = time.Now()
	rt.UpdatedOn = rt.CreatedOn
	cp := *rt
	r.s.rentals[rt.ID] = &cp
	return nil
}

func (r *fakeRentals) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.rentals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rt
	return &cp, nil
}

func (r *fakeRentals) GetOpenByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rt := range r.s.rentals {
		if rt.Asset == asset && !rt.State.Terminal() {
			cp := *rt
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRentals) Update(ctx context.Context, rt *domain.Rental) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.rentals[rt.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != rt.Version {
		return repository.ErrVersionConflict
	}
	rt.Version++
	rt.UpdatedOn = time.Now()
	cp := *rt
	r.s.rentals[rt.ID] = &cp
	return nil
}

func (r *fakeRentals) ListByTenant(ctx context.Context, tenantID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Rental
	for _, rt := range r.s.rentals {
		if rt.TenantID == tenantID && (state == "" || string(rt.State) == state) {
			out = append(out, *rt)
		}
	}
	return out, int32(len(out)), nil
}

func (r *fakeRentals) ListByLender(ctx context.Context, lenderID int32, state string, page, pageSize int32) ([]domain.Rental, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Rental
	for _, rt := range r.s.rentals {
		if rt.LenderID == lenderID && (state == "" || string(rt.State) == state) {
			out = append(out, *rt)
		}
	}
	return out, int32(len(out)), nil
}

func (r *fakeRentals) ListRecoverable(ctx context.Context, endedBefore int64) ([]domain.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Rental
	for _, rt := range r.s.rentals {
		if rt.State == domain.RentalStateActive && rt.EndTime < endedBefore {
			out = append(out, *rt)
		}
	}
	return out, nil
}

type fakeStreams struct{ s *fakeStore }

func (r *fakeStreams) Create(ctx context.Context, st *domain.Stream) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st.ID = r.s.id()
	st.Version = 1
	st.CreatedOn = time.Now()
	st.UpdatedOn = st.CreatedOn
	for i := range st.Milestones {
		st.Milestones[i].StreamID = st.ID
	}
	cp := *st
	cp.Milestones = append([]domain.Milestone(nil), st.Milestones...)
	r.s.streams[st.ID] = &cp
	return nil
}

func (r *fakeStreams) GetByID(ctx context.Context, id int32) (*domain.Stream, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.streams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *st
	cp.Milestones = append([]domain.Milestone(nil), st.Milestones...)
	return &cp, nil
}

func (r *fakeStreams) Update(ctx context.Context, st *domain.Stream) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.streams[st.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != st.Version {
		return repository.ErrVersionConflict
	}
	st.Version++
	st.UpdatedOn = time.Now()
	cp := *st
	cp.Milestones = append([]domain.Milestone(nil), cur.Milestones...)
	r.s.streams[st.ID] = &cp
	return nil
}

func (r *fakeStreams) MarkMilestoneReached(ctx context.Context, streamID, seq int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.streams[streamID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range st.Milestones {
		if st.Milestones[i].Seq == seq {
			st.Milestones[i].Reached = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeStreams) ListActive(ctx context.Context) ([]domain.Stream, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Stream
	for _, st := range r.s.streams {
		if st.Active {
			cp := *st
			cp.Milestones = append([]domain.Milestone(nil), st.Milestones...)
			out = append(out, cp)
		}
	}
	return out, nil
}

type fakeReputation struct{ s *fakeStore }

func (r *fakeReputation) Get(ctx context.Context, userID int32) (*domain.UserReputation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reputations[userID]
	if !ok {
		rep = &domain.UserReputation{UserID: userID, Version: 1, UpdatedOn: time.Now()}
		r.s.reputations[userID] = rep
	}
	cp := *rep
	return &cp, nil
}

func (r *fakeReputation) Update(ctx context.Context, rep *domain.UserReputation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.reputations[rep.UserID]
	if !ok {
		return repository.ErrNotFound
	}
	if cur.Version != rep.Version {
		return repository.ErrVersionConflict
	}
	rep.Version++
	rep.UpdatedOn = time.Now()
	cp := *rep
	r.s.reputations[rep.UserID] = &cp
	return nil
}

type fakeAchievements struct{ s *fakeStore }

func (r *fakeAchievements) ListActive(ctx context.Context) ([]domain.Achievement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Achievement
	for _, a := range r.s.achievements {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAchievements) ListGrantedIDs(ctx context.Context, userID int32) (map[int32]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int32]bool, len(r.s.grants[userID]))
	for id := range r.s.grants[userID] {
		out[id] = true
	}
	return out, nil
}

func (r *fakeAchievements) Grant(ctx context.Context, userID, achievementID int32) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.grants[userID] == nil {
		r.s.grants[userID] = make(map[int32]bool)
	}
	if r.s.grants[userID][achievementID] {
		return false, nil
	}
	r.s.grants[userID][achievementID] = true
	return true, nil
}

type fakeDisputes struct{ s *fakeStore }

func (r *fakeDisputes) Create(ctx context.Context, d *domain.Dispute) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = r.s.id()
	d.CreatedOn = time.Now()
	cp := *d
	r.s.disputes[d.ID] = &cp
	return nil
}

func (r *fakeDisputes) GetPendingByRental(ctx context.Context, rentalID int32) (*domain.Dispute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.disputes {
		if d.RentalID == rentalID && d.Status == domain.DisputeStatusPending {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeDisputes) Update(ctx context.Context, d *domain.Dispute) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.disputes[d.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *d
	r.s.disputes[d.ID] = &cp
	return nil
}

type fakeLedger struct{ s *fakeStore }

func (r *fakeLedger) CreateEntry(ctx context.Context, e *domain.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	e.CreatedOn = time.Now()
	r.s.entries = append(r.s.entries, *e)
	return nil
}

func (r *fakeLedger) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerEntry, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range r.s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, int32(len(out)), nil
}

type fakeEvents struct{ s *fakeStore }

func (r *fakeEvents) Append(ctx context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.CreatedOn = time.Now()
	r.s.events = append(r.s.events, *e)
	return nil
}

func (r *fakeEvents) List(ctx context.Context, eventType string, page, pageSize int32) ([]domain.Event, int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Event
	for _, e := range r.s.events {
		if eventType == "" || string(e.Type) == eventType {
			out = append(out, e)
		}
	}
	return out, int32(len(out)), nil
}

// eventsOfType counts emitted events by type.
func (s *fakeStore) eventsOfType(t domain.EventType) []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// entriesOfType filters ledger entries by type.
func (s *fakeStore) entriesOfType(t domain.EntryType) []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
