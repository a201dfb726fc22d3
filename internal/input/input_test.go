package input

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMailboxKeepsNewest(t *testing.T) {
	mb := NewMailbox[int]()
	if _, ok := mb.TryTake(); ok {
		t.Fatal("empty mailbox returned a value")
	}
	mb.Post(1)
	mb.Post(2)
	v, ok := mb.TryTake()
	if !ok || v != 2 {
		t.Fatalf("got %d/%v, want 2/true", v, ok)
	}
	if _, ok := mb.TryTake(); ok {
		t.Fatal("value taken twice")
	}
}

func TestMailboxChannel(t *testing.T) {
	mb := NewMailbox[string]()
	mb.Post("next")
	select {
	case v := <-mb.C():
		if v != "next" {
			t.Fatalf("got %q", v)
		}
	default:
		t.Fatal("channel empty after Post")
	}
}

func TestMailboxConcurrentPost(t *testing.T) {
	mb := NewMailbox[int]()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			mb.Post(i)
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		mb.TryTake()
	}
	<-done
	mb.Post(-1)
	if v, _ := mb.TryTake(); v != -1 {
		t.Fatalf("got %d, want -1", v)
	}
}

func TestListen(t *testing.T) {
	mb := NewMailbox[string]()
	if err := Listen(context.Background(), strings.NewReader("  2 \n"), mb); err != nil {
		t.Fatal(err)
	}
	if v, ok := mb.TryTake(); !ok || v != "2" {
		t.Fatalf("got %q/%v", v, ok)
	}

	if err := Listen(context.Background(), strings.NewReader("\n"), mb); err != nil {
		t.Fatal(err)
	}
	if v, ok := mb.TryTake(); !ok || v != Enter {
		t.Fatalf("got %q/%v, want Enter", v, ok)
	}
}

func TestListenStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mb := NewMailbox[string]()
	err := Listen(ctx, strings.NewReader("a\nb\n"), mb)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, ok := mb.TryTake(); ok {
		t.Fatal("line posted after cancel")
	}
}
