package store

// Sender identifies who produced a chat message.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is one line of a chat transcript. Transcripts live only in memory
// for the lifetime of a session; nothing here is persisted.
type Message struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// Session is the active chat session state in memory. Messages are
// append-only: the user message is added optimistically before the
// responder runs, then the assistant reply follows.
type Session struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Messages []Message `json:"messages"`
}

func (s *Session) Append(sender, text string) {
	s.Messages = append(s.Messages, Message{Text: text, Sender: sender})
}
