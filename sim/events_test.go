package sim

import (
	"errors"
	"testing"

	"github.com/wippyai/comproxy"
)

func TestEvents_SubscribeFire(t *testing.T) {
	rt := New()
	h := rt.NewObject("Workbook", nil)
	rt.EnableEvents(h)
	rt.AddRef(h)

	if !rt.HasEvents(h) {
		t.Fatal("HasEvents should be true after EnableEvents")
	}

	var got []comproxy.Value
	c, err := rt.Subscribe(h, 1, func(args []comproxy.Value) { got = append(got, args...) })
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if n := rt.Fire(h, 1, "a", int64(2)); n != 1 {
		t.Fatalf("Fire invoked %d sinks, want 1", n)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Fatalf("args = %v", got)
	}

	if n := rt.Fire(h, 2); n != 0 {
		t.Fatalf("Fire on unsubscribed event invoked %d sinks", n)
	}

	if err := rt.Unsubscribe(h, 1, c); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	if n := rt.Fire(h, 1); n != 0 {
		t.Fatalf("Fire after Unsubscribe invoked %d sinks", n)
	}
	if rt.Subscriptions(h) != 0 {
		t.Fatal("Expected no subscriptions left")
	}
	if len(rt.Violations()) != 0 {
		t.Fatalf("Unexpected violations: %v", rt.Violations())
	}
}

func TestEvents_NoEventSource(t *testing.T) {
	rt := New()
	h := rt.NewObject("Axis", nil)

	if rt.HasEvents(h) {
		t.Fatal("Axis should not have events")
	}
	if _, err := rt.Subscribe(h, 1, func([]comproxy.Value) {}); !errors.Is(err, ErrNoEvents) {
		t.Fatalf("Subscribe = %v, want ErrNoEvents", err)
	}
}

func TestEvents_UnsubscribeAfterRelease(t *testing.T) {
	rt := New()
	h := rt.NewObject("Chart", nil)
	rt.EnableEvents(h)
	rt.AddRef(h)

	c, _ := rt.Subscribe(h, 1, func([]comproxy.Value) {})
	rt.Release(h)
	rt.Unsubscribe(h, 1, c)

	v := rt.Violations()
	if len(v) != 1 || v[0].Kind != UnsubscribeAfterRelease {
		t.Fatalf("Violations = %v", v)
	}
}

func TestEvents_UnknownCookie(t *testing.T) {
	rt := New()
	h := rt.NewObject("Chart", nil)
	rt.EnableEvents(h)
	rt.AddRef(h)

	if err := rt.Unsubscribe(h, 1, 42); !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("Unsubscribe = %v, want ErrUnknownMember", err)
	}
}

func TestEvents_OnRelease(t *testing.T) {
	rt := New()
	h := rt.NewObject("Range", nil)
	rt.AddRef(h)

	fired := 0
	rt.OnRelease(h, func() { fired++ })
	rt.Release(h)

	if fired != 1 {
		t.Fatalf("OnRelease hook ran %d times", fired)
	}
}

func TestEvents_DestroyDropsSinks(t *testing.T) {
	rt := New()
	h := rt.NewObject("Workbook", nil)
	rt.EnableEvents(h)
	rt.AddRef(h)

	called := false
	rt.Subscribe(h, 1, func([]comproxy.Value) { called = true })
	rt.Destroy(h)

	if rt.Fire(h, 1) != 0 || called {
		t.Fatal("destroyed object must not raise events")
	}
}
