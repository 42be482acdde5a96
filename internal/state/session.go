package state

import "sync"

// Session is the externally owned browsing state shared by every view: the
// current document position and the selected path key. It is safe for
// concurrent use and applies last-write-wins semantics.
type Session struct {
	mu        sync.Mutex
	position  string
	selected  string
	template  *Template
	listeners map[int]chan string
	nextID    int
}

// NewSession returns a session browsing position with the given template.
func NewSession(position string, template *Template) *Session {
	if template == nil {
		template = NewTemplate(true)
	}
	return &Session{
		position:  position,
		template:  template,
		listeners: make(map[int]chan string),
	}
}

func (s *Session) Position() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *Session) SetPosition(position string) {
	s.mu.Lock()
	s.position = position
	s.mu.Unlock()
}

func (s *Session) SelectedPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetSelectedPath stores path and notifies subscribers when it changed.
func (s *Session) SetSelectedPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == path {
		return
	}
	s.selected = path
	for _, ch := range s.listeners {
		// Listeners read the current value on receipt, so a pending
		// notification already covers this change.
		select {
		case ch <- path:
		default:
		}
	}
}

func (s *Session) Template() *Template {
	return s.template
}

// Subscribe registers for selection change notifications. The returned
// function unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan string, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan string, 1)
	s.listeners[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}
