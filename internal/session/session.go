package session

import "sync"

// Kind classifies a conversation message.
type Kind int

const (
	KindSummary Kind = iota
	KindQuestion
	KindAnswer
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSummary:
		return "summary"
	case KindQuestion:
		return "question"
	case KindAnswer:
		return "answer"
	case KindError:
		return "error"
	}
	return "unknown"
}

// Message is one entry in the conversation transcript.
type Message struct {
	ID       int
	Kind     Kind
	Text     string
	FromUser bool
	Topic    string // set on summary messages; marks them as follow-up context
}

// Draft is a message before the store assigns its ID.
type Draft struct {
	Kind     Kind
	Text     string
	FromUser bool
	Topic    string
}

// Snapshot is a read-only view of the session at one point in time.
type Snapshot struct {
	Messages    []Message
	RootTopic   string
	LastQuery   string
	NewsSession bool
	Busy        bool
}

// LatestSummary returns the most recent summary-bearing message, if any.
func (s Snapshot) LatestSummary() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Kind == KindSummary && s.Messages[i].Topic != "" {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// Update is the atomic state transition applied when a query resolves.
// Zero-valued fields leave their target untouched.
type Update struct {
	RootTopic   string
	LastQuery   string
	NewsSession bool
	Replace     bool // drop the existing transcript before appending
	Append      []Draft
}

// Store holds the per-session conversation state. Message IDs increase
// monotonically and are never reused, even across Replace and Clear.
type Store struct {
	mu          sync.Mutex
	nextID      int
	messages    []Message
	rootTopic   string
	lastQuery   string
	newsSession bool
	busy        bool
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

// Snapshot returns a copy of the current state; the message slice is
// detached from the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]Message, len(s.messages))
	copy(msgs, s.messages)
	return Snapshot{
		Messages:    msgs,
		RootTopic:   s.rootTopic,
		LastQuery:   s.lastQuery,
		NewsSession: s.newsSession,
		Busy:        s.busy,
	}
}

// Append adds a single message and returns it with its assigned ID.
func (s *Store) Append(d Draft) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.append(d)
}

// Commit applies an update as one transition. It returns the appended
// messages with their assigned IDs.
func (s *Store) Commit(u Update) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Replace {
		s.messages = nil
	}
	if u.RootTopic != "" {
		s.rootTopic = u.RootTopic
	}
	if u.LastQuery != "" {
		s.lastQuery = u.LastQuery
	}
	if u.NewsSession {
		s.newsSession = true
	}

	out := make([]Message, 0, len(u.Append))
	for _, d := range u.Append {
		out = append(out, s.append(d))
	}
	return out
}

// Clear drops the transcript but keeps topic state and the ID counter.
// Used for the optimistic clear before a new-topic fetch.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Reset fully re-initializes the session: transcript, topics, flags. The ID
// counter survives so IDs stay unique for the process lifetime.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.rootTopic = ""
	s.lastQuery = ""
	s.newsSession = false
	s.busy = false
}

// TryAcquire takes the busy lock if it is free. The pipeline holds it for
// the whole classify-fetch-synthesize-apply span.
func (s *Store) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Store) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

func (s *Store) append(d Draft) Message {
	m := Message{
		ID:       s.nextID,
		Kind:     d.Kind,
		Text:     d.Text,
		FromUser: d.FromUser,
		Topic:    d.Topic,
	}
	s.nextID++
	s.messages = append(s.messages, m)
	return m
}
