package sim

import (
	"errors"
	"sync"
	"testing"

	"github.com/wippyai/comproxy"
)

func TestRuntime_Basic(t *testing.T) {
	rt := New()

	h := rt.NewObject("Range", map[string]comproxy.Value{"Address": "$A$1"})
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}
	if !rt.Validate(h) {
		t.Fatal("Validate failed for a new object")
	}
	if rt.RefCount(h) != 0 {
		t.Fatalf("Expected 0 refs, got %d", rt.RefCount(h))
	}

	if err := rt.AddRef(h); err != nil {
		t.Fatalf("AddRef failed: %v", err)
	}
	v, err := rt.Get(h, "Address")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "$A$1" {
		t.Fatalf("Expected '$A$1', got %v", v)
	}

	name, err := rt.TypeName(h)
	if err != nil || name != "Range" {
		t.Fatalf("TypeName = %q, %v", name, err)
	}

	if err := rt.Release(h); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if len(rt.Violations()) != 0 {
		t.Fatalf("Unexpected violations: %v", rt.Violations())
	}
}

func TestRuntime_InvalidHandle(t *testing.T) {
	rt := New()

	if rt.Validate(0) {
		t.Fatal("Handle 0 should be invalid")
	}
	if err := rt.AddRef(0); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("AddRef(0) = %v", err)
	}
	if err := rt.Release(999); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Release(999) = %v", err)
	}
	if _, err := rt.Get(999, "Name"); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Get(999) = %v", err)
	}
}

func TestRuntime_OverRelease(t *testing.T) {
	rt := New()
	h := rt.NewObject("Axis", nil)

	rt.AddRef(h)
	if err := rt.Release(h); err != nil {
		t.Fatalf("first Release failed: %v", err)
	}
	if err := rt.Release(h); !errors.Is(err, ErrNoReference) {
		t.Fatalf("second Release = %v, want ErrNoReference", err)
	}

	v := rt.Violations()
	if len(v) != 1 || v[0].Kind != OverRelease || v[0].Handle != h {
		t.Fatalf("Violations = %v", v)
	}
}

func TestRuntime_ObjectPropertyAcquires(t *testing.T) {
	rt := New()
	chart := rt.NewObject("Chart", nil)
	axis := rt.NewObject("Axis", nil)
	rt.Link(chart, "Axes(1)", axis)
	rt.AddRef(chart)

	v, err := rt.Invoke(chart, "Axes", 1)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if v != axis {
		t.Fatalf("Expected axis handle %d, got %v", axis, v)
	}
	if rt.RefCount(axis) != 1 {
		t.Fatalf("Expected 1 ref on axis, got %d", rt.RefCount(axis))
	}

	parent, _ := rt.Prop(axis, "Parent")
	if parent != chart {
		t.Fatalf("Expected Parent %d, got %v", chart, parent)
	}
}

func TestRuntime_Collection(t *testing.T) {
	rt := New()
	book := rt.NewObject("Workbook", nil)
	sheets := rt.NewCollection("Worksheets", "Worksheet")
	rt.Link(book, "Worksheets", sheets)
	s1 := rt.NewObject("Worksheet", map[string]comproxy.Value{"Name": "Data"})
	s2 := rt.NewObject("Worksheet", map[string]comproxy.Value{"Name": "Notes"})
	rt.AddItem(sheets, s1)
	rt.AddItem(sheets, s2)
	rt.AddRef(sheets)

	n, err := rt.Get(sheets, "Count")
	if err != nil || n != int64(2) {
		t.Fatalf("Count = %v, %v", n, err)
	}

	byName, err := rt.Invoke(sheets, "Item", "Notes")
	if err != nil || byName != s2 {
		t.Fatalf("Item(Notes) = %v, %v", byName, err)
	}
	byIndex, err := rt.Invoke(sheets, "Item", 1)
	if err != nil || byIndex != s1 {
		t.Fatalf("Item(1) = %v, %v", byIndex, err)
	}
	if _, err := rt.Invoke(sheets, "Item", 3); !errors.Is(err, ErrIndex) {
		t.Fatalf("Item(3) = %v, want ErrIndex", err)
	}

	// Items skip the collection when resolving Parent.
	if p, _ := rt.Prop(s1, "Parent"); p != book {
		t.Fatalf("Expected Parent %d, got %v", book, p)
	}

	added, err := rt.Invoke(sheets, "Add")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	h := added.(comproxy.Handle)
	if rt.RefCount(h) != 1 {
		t.Fatalf("Expected added item to carry one reference, got %d", rt.RefCount(h))
	}
	if name, _ := rt.TypeName(h); name != "Worksheet" {
		t.Fatalf("Expected Worksheet, got %s", name)
	}
}

func TestRuntime_AccessAfterRelease(t *testing.T) {
	rt := New()
	h := rt.NewObject("Range", map[string]comproxy.Value{"Text": "x"})

	rt.Get(h, "Text")

	v := rt.Violations()
	if len(v) != 1 || v[0].Kind != AccessAfterRelease || v[0].Member != "Text" {
		t.Fatalf("Violations = %v", v)
	}
}

func TestRuntime_FailRelease(t *testing.T) {
	rt := New()
	h := rt.NewObject("Chart", nil)
	rt.AddRef(h)

	boom := errors.New("boom")
	rt.FailRelease(h, boom)
	if err := rt.Release(h); !errors.Is(err, boom) {
		t.Fatalf("Release = %v, want boom", err)
	}
	if rt.RefCount(h) != 1 {
		t.Fatal("Failed release must not change the reference count")
	}

	rt.FailRelease(h, nil)
	if err := rt.Release(h); err != nil {
		t.Fatalf("Release after clearing fault: %v", err)
	}
}

func TestRuntime_FailCall(t *testing.T) {
	rt := New()
	h := rt.NewObject("Workbook", nil)
	rt.AddRef(h)

	disk := errors.New("disk full")
	rt.FailCall(h, "Save", disk)
	if _, err := rt.Invoke(h, "Save"); !errors.Is(err, disk) {
		t.Fatalf("Invoke = %v, want disk full", err)
	}

	rt.FailCall(h, "Save", nil)
	if _, err := rt.Invoke(h, "Save"); err != nil {
		t.Fatalf("Invoke after clearing fault: %v", err)
	}
	if rt.Calls(h, "Save") != 2 {
		t.Fatalf("Expected 2 calls, got %d", rt.Calls(h, "Save"))
	}
}

func TestRuntime_Destroy(t *testing.T) {
	rt := New()
	h := rt.NewObject("Workbook", nil)
	rt.AddRef(h)

	rt.Destroy(h)
	if rt.Validate(h) {
		t.Fatal("Destroyed object should not validate")
	}
	if err := rt.AddRef(h); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("AddRef = %v, want ErrDestroyed", err)
	}
	if err := rt.Release(h); err != nil {
		t.Fatalf("Releasing an outstanding reference should succeed: %v", err)
	}

	// Slot is recycled after the last release.
	h2 := rt.NewObject("Range", nil)
	if h2 != h {
		t.Log("Handle not reused, but that's ok")
	}
	if !rt.Validate(h2) {
		t.Fatal("new object should validate")
	}
}

func TestRuntime_Root(t *testing.T) {
	rt := New()
	if rt.Root() != 0 {
		t.Fatal("Root without SetRoot should be 0")
	}
	app := rt.NewObject("Application", nil)
	rt.SetRoot(app)

	if rt.Root() != app {
		t.Fatal("Root returned the wrong handle")
	}
	if rt.RefCount(app) != 1 {
		t.Fatalf("Root should acquire a reference, got %d", rt.RefCount(app))
	}
}

func TestRuntime_Watch(t *testing.T) {
	rt := New()
	h := rt.NewObject("Range", nil)

	var ops []Op
	unwatch := rt.Watch(ObserverFunc(func(e Event) { ops = append(ops, e.Op) }))

	rt.AddRef(h)
	rt.Release(h)
	unwatch()
	rt.AddRef(h)

	if len(ops) != 2 || ops[0] != OpAddRef || ops[1] != OpRelease {
		t.Fatalf("ops = %v", ops)
	}
}

func TestRuntime_Concurrent(t *testing.T) {
	rt := New()
	h := rt.NewObject("Application", nil)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rt.AddRef(h)
			rt.Get(h, "Name")
			rt.Release(h)
		}()
	}

	wg.Wait()
	if rt.RefCount(h) != 0 {
		t.Fatalf("Expected balanced references, got %d", rt.RefCount(h))
	}
}

func TestRuntime_LenEach(t *testing.T) {
	rt := New()
	rt.NewObject("A", nil)
	rt.NewObject("B", nil)
	rt.NewObject("C", nil)

	if rt.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", rt.Len())
	}

	count := 0
	rt.Each(func(comproxy.Handle, string, int32) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Expected early termination after 1 item, got %d", count)
	}
}
