package notify

import (
	"image"
	"testing"

	"github.com/example/colorbook/internal/platform"
)

type sent struct {
	title, body string
	icon        string
}

func capture(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	prev := sendFunc
	sendFunc = func(title, body string, opts platform.Options) error {
		got = append(got, sent{title, body, opts.IconPath})
		return nil
	}
	t.Cleanup(func() { sendFunc = prev })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t)
	n := New(DefaultMessages())
	n.Save("x.png")
	n.Copy("", nil)
	n.Print("x.pdf")
	var nilN *Notifier
	nilN.Save("x.png")
	if len(*got) != 0 {
		t.Fatalf("unexpected notifications: %+v", *got)
	}
}

func TestPrintBody(t *testing.T) {
	got := capture(t)
	n := New(DefaultMessages())
	n.Enable(EventPrint, true)
	n.Print("/tmp/out/coloring-fairy.pdf")
	if len(*got) != 1 {
		t.Fatalf("got %d notifications", len(*got))
	}
	if (*got)[0].title != "Colorbook" || (*got)[0].body != "Ready to print coloring-fairy.pdf" {
		t.Fatalf("unexpected notification %+v", (*got)[0])
	}
}

func TestCopyAttachesPreview(t *testing.T) {
	got := capture(t)
	n := New(DefaultMessages())
	n.Enable(EventCopy, true)
	n.Copy("", image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	if len(*got) != 1 || (*got)[0].icon == "" {
		t.Fatalf("expected preview icon, got %+v", *got)
	}
	if (*got)[0].body != "Copied coloring to clipboard" {
		t.Fatalf("body %q", (*got)[0].body)
	}
}

func TestMessagesFromEnv(t *testing.T) {
	t.Setenv("COLORBOOK_NOTIFY_TITLE", "Art")
	t.Setenv("COLORBOOK_NOTIFY_SAVE_TEXT", "Stored %s")
	m := MessagesFromEnv()
	if m.Title != "Art" || m.Templates[EventSave] != "Stored %s" {
		t.Fatalf("unexpected messages %+v", m)
	}
	if m.Templates[EventCopy] == "" {
		t.Fatal("copy template lost")
	}
}
