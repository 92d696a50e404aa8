// Package notify carries user-facing outcome messages from the submission
// handler to whatever surface shows them. Notifiers must not block.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/idilsaglam/formpost/internal/ui"
)

// Kind classifies a notice.
type Kind int

const (
	KindSuccess Kind = iota
	KindValidation
	KindServer
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindTransport:
		return "transport"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Notice is one message for the user.
type Notice struct {
	Kind Kind
	Text string
}

// Failed reports whether the notice describes a failure.
func (n Notice) Failed() bool { return n.Kind != KindSuccess }

// Notifier receives notices. Implementations return promptly.
type Notifier interface {
	Notify(Notice)
}

// Func adapts a plain function to Notifier.
type Func func(Notice)

func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

// Console prints notices as single styled lines: successes to Out,
// failures to Err.
type Console struct {
	Out io.Writer
	Err io.Writer
}

func (c Console) Notify(n Notice) {
	if n.Failed() {
		fmt.Fprintln(c.Err, ui.Failure(n.Text))
		return
	}
	fmt.Fprintln(c.Out, ui.Success(n.Text))
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of what was recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
