// Package conversation holds the ordered question/answer log of a chat and
// the dispatcher that fills it.
package conversation

import "sync"

// Sender identifies who produced a message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is a single entry in the conversation. Messages are never modified
// after they are appended.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Store is an append-only, ordered list of messages.
// Messages enter in pairs: a user question immediately followed by its answer.
type Store struct {
	mu       sync.RWMutex
	messages []Message
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{}
}

// AppendExchange appends the question and its answer as one unit, so
// concurrent completions never interleave the pair.
func (s *Store) AppendExchange(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages,
		Message{Sender: SenderUser, Text: question},
		Message{Sender: SenderAssistant, Text: answer},
	)
}

// Messages returns a copy of all messages in order
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message, if any
func (s *Store) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastAnswer returns the text of the most recent assistant message
func (s *Store) LastAnswer() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == SenderAssistant {
			return s.messages[i].Text, true
		}
	}
	return "", false
}
