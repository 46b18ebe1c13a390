package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/auth"
	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/events"
	"github.com/spec-kit/quickdesk/internal/notify"
	"github.com/spec-kit/quickdesk/internal/policy"
	"github.com/spec-kit/quickdesk/internal/repository"
	"github.com/spec-kit/quickdesk/internal/sanitize"
)

type memStore struct {
	mu      sync.Mutex
	users   map[string]domain.User
	tickets map[string]domain.Ticket
	replies []domain.Reply
	votes   map[string]domain.Vote
	clock   time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]domain.User{},
		tickets: map[string]domain.Ticket{},
		votes:   map[string]domain.Vote{},
		clock:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = r.tick()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

func (r memUsers) NamesByID(_ context.Context, ids []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := map[string]string{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			names[id] = u.Name
		}
	}
	return names, nil
}

type memTickets struct{ *memStore }

func (r memTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	ticket.CreatedAt = r.tick()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r memTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r memTickets) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[ticket.ID]
	if !ok {
		return repository.ErrNotFound
	}
	t.Status = ticket.Status
	t.AssigneeID = ticket.AssigneeID
	t.UpdatedAt = r.tick()
	ticket.UpdatedAt = t.UpdatedAt
	r.tickets[ticket.ID] = t
	return nil
}

func (r memTickets) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Ticket
	search := strings.Trim(filter.SearchPattern(), "%")
	for _, t := range r.tickets {
		if filter.CreatorID != nil && t.CreatorID != *filter.CreatorID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Subject), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		less := out[i].CreatedAt.Before(out[j].CreatedAt)
		if filter.SortDesc {
			return !less
		}
		return less
	})
	total := int64(len(out))
	limit, offset := filter.Page()
	if offset > len(out) {
		offset = len(out)
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r memTickets) SetVoteCounts(_ context.Context, id string, up, down int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Upvotes, t.Downvotes = up, down
	r.tickets[id] = t
	return nil
}

type memReplies struct{ *memStore }

func (r memReplies) Append(_ context.Context, reply *domain.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[reply.TicketID]
	if !ok {
		return repository.ErrNotFound
	}
	t.ReplyCount++
	r.tickets[reply.TicketID] = t
	reply.ID = uuid.NewString()
	reply.CreatedAt = r.tick()
	r.replies = append(r.replies, *reply)
	return nil
}

func (r memReplies) ListByTicket(_ context.Context, ticketID string) ([]domain.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Reply{}
	for _, reply := range r.replies {
		if reply.TicketID == ticketID {
			out = append(out, reply)
		}
	}
	return out, nil
}

type memVotes struct{ *memStore }

func (r memVotes) GetByTicketAndVoter(_ context.Context, ticketID, voterID string) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.votes {
		if v.TicketID == ticketID && v.VoterID == voterID {
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memVotes) Create(_ context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.votes {
		if v.TicketID == vote.TicketID && v.VoterID == vote.VoterID {
			return repository.ErrDuplicate
		}
	}
	vote.ID = uuid.NewString()
	vote.CreatedAt = r.tick()
	r.votes[vote.ID] = *vote
	return nil
}

func (r memVotes) UpdateType(_ context.Context, id string, voteType domain.VoteType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.votes[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Type = voteType
	r.votes[id] = v
	return nil
}

func (r memVotes) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.votes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.votes, id)
	return nil
}

func (r memVotes) CountByType(_ context.Context, ticketID string, voteType domain.VoteType) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.votes {
		if v.TicketID == ticketID && v.Type == voteType {
			n++
		}
	}
	return n, nil
}

// mailerFunc adapts a function to notify.Mailer.
type mailerFunc func(ctx context.Context, msg notify.Message) error

func (f mailerFunc) Send(ctx context.Context, msg notify.Message) error { return f(ctx, msg) }

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) Publish(_ context.Context, event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordedEvents) Subscribe(events.EventType, events.EventHandler) {}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store       *memStore
	events      *recordedEvents
	users       *UserService
	tickets     *TicketService
	assignments *AssignmentService
	votes       *VoteService
	replies     *ReplyService
}

func newFixture() *fixture {
	store := newMemStore()
	recorder := &recordedEvents{}
	logger := zap.NewNop()
	sanitizer := sanitize.New()
	access := policy.NewAccessPolicy(memUsers{store})

	return &fixture{
		store:  store,
		events: recorder,
		users: NewUserService(UserDependencies{
			UserRepo:  memUsers{store},
			Hasher:    auth.NewHasher(4),
			Sanitizer: sanitizer,
			Logger:    logger,
		}),
		tickets: NewTicketService(TicketDependencies{
			TicketRepo: memTickets{store},
			UserRepo:   memUsers{store},
			Policy:     access,
			Sanitizer:  sanitizer,
			Dispatcher: recorder,
			Logger:     logger,
		}),
		assignments: NewAssignmentService(AssignmentDependencies{
			TicketRepo: memTickets{store},
			UserRepo:   memUsers{store},
			Policy:     access,
			Dispatcher: recorder,
			Logger:     logger,
		}),
		votes: NewVoteService(VoteDependencies{
			TicketRepo: memTickets{store},
			VoteRepo:   memVotes{store},
			Logger:     logger,
		}),
		replies: NewReplyService(ReplyDependencies{
			TicketRepo: memTickets{store},
			ReplyRepo:  memReplies{store},
			UserRepo:   memUsers{store},
			Policy:     access,
			Sanitizer:  sanitizer,
			Logger:     logger,
		}),
	}
}

func (f *fixture) seedUser(username string, role domain.Role) *domain.Identity {
	user := &domain.User{
		Name:         strings.ToUpper(username[:1]) + username[1:],
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
		Role:         role,
	}
	_ = memUsers{f.store}.Create(context.Background(), user)
	return &domain.Identity{UserID: user.ID, Username: user.Username, Role: role}
}

func (f *fixture) seedTicket(owner *domain.Identity) *TicketView {
	view, err := f.tickets.CreateTicket(context.Background(), owner, TicketCreateInput{
		Subject:     "Printer jammed",
		Description: "Paper stuck in tray 2",
		Category:    domain.CategoryTechnical,
	})
	if err != nil {
		panic(err)
	}
	return view
}
