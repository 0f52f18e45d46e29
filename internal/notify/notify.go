package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/example/colorbook/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires after a coloring is written to disk.
	EventSave Event = "save"
	// EventCopy fires after a coloring is placed on the clipboard.
	EventCopy Event = "copy"
	// EventPrint fires after a coloring is exported for printing.
	EventPrint Event = "print"
)

// Events lists every event in display order.
var Events = []Event{EventSave, EventCopy, EventPrint}

// Messages holds the title and the per-event body templates. Each template
// receives the event detail through a single %s verb.
type Messages struct {
	Title     string
	Templates map[Event]string
}

// DefaultMessages returns the built-in notification text.
func DefaultMessages() Messages {
	return Messages{
		Title: "Colorbook",
		Templates: map[Event]string{
			EventSave:  "Saved %s",
			EventCopy:  "Copied %s to clipboard",
			EventPrint: "Ready to print %s",
		},
	}
}

// MessagesFromEnv applies COLORBOOK_NOTIFY_TITLE and
// COLORBOOK_NOTIFY_<EVENT>_TEXT overrides to the defaults.
func MessagesFromEnv() Messages {
	m := DefaultMessages()
	if v := strings.TrimSpace(os.Getenv("COLORBOOK_NOTIFY_TITLE")); v != "" {
		m.Title = v
	}
	for _, ev := range Events {
		key := "COLORBOOK_NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			m.Templates[ev] = v
		}
	}
	return m
}

// sendFunc is swapped in tests.
var sendFunc = platform.Notify

// Notifier sends desktop notifications for the events that are switched on.
// A nil Notifier is valid and silent.
type Notifier struct {
	msgs Messages

	mu sync.Mutex
	on map[Event]bool
}

// New creates a Notifier with every event switched off.
func New(msgs Messages) *Notifier {
	n := &Notifier{msgs: Messages{Title: msgs.Title, Templates: map[Event]string{}}, on: map[Event]bool{}}
	for k, v := range msgs.Templates {
		n.msgs.Templates[k] = v
	}
	return n
}

// Enable switches notifications for event on or off.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.on[event] = enabled
	n.mu.Unlock()
}

// Enabled reports whether event is switched on.
func (n *Notifier) Enabled(event Event) bool {
	if n == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.on[event]
}

// Save announces a written file and uses it as the notification icon.
func (n *Notifier) Save(path string) {
	if !n.Enabled(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.send(EventSave, detail, opts)
}

// Copy announces a clipboard copy. When img is set a temporary preview is
// attached.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.Enabled(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "coloring"
	}
	opts := platform.Options{}
	if img != nil {
		path, cleanup, err := writePreview(img)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.send(EventCopy, detail, opts)
}

// Print announces a PDF ready for printing.
func (n *Notifier) Print(path string) {
	if !n.Enabled(EventPrint) {
		return
	}
	n.send(EventPrint, filepath.Base(path), platform.Options{})
}

func (n *Notifier) send(event Event, detail string, opts platform.Options) {
	tmpl := strings.TrimSpace(n.msgs.Templates[event])
	if tmpl == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := sendFunc(n.msgs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func writePreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "colorbook-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}, nil
}
