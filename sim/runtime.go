package sim

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/wippyai/comproxy"
)

var (
	ErrInvalidHandle = errors.New("sim: invalid handle")
	ErrDestroyed     = errors.New("sim: object destroyed")
	ErrUnknownMember = errors.New("sim: unknown member")
	ErrNoEvents      = errors.New("sim: object has no event source")
	ErrNoReference   = errors.New("sim: no outstanding reference")
	ErrIndex         = errors.New("sim: index out of range")
)

// Method implements a native method on one simulated object.
type Method func(args ...comproxy.Value) (comproxy.Value, error)

// Runtime is an in-memory, reference-counted native object model.
// It implements comproxy.Runtime and comproxy.EventSource.
//
// Objects belong to the simulated graph and are never freed by reaching a
// zero reference count; the count only tracks references held by this
// process, which is what proxies must balance.
type Runtime struct {
	objects    []object
	freeList   []comproxy.Handle
	observers  []watcher
	violations []Violation
	root       comproxy.Handle
	nextCookie comproxy.Cookie
	nextWatch  uint64
	mu         sync.RWMutex
	obsMu      sync.RWMutex
}

type object struct {
	props       map[string]comproxy.Value
	methods     map[string]Method
	calls       map[string]int
	failCalls   map[string]error
	sinks       map[comproxy.EventID][]sink
	failRelease error
	onRelease   func()
	typeName    string
	itemType    string
	items       []comproxy.Handle
	refs        int32
	collection  bool
	events      bool
	valid       bool
	destroyed   bool
}

type watcher struct {
	obs Observer
	id  uint64
}

type sink struct {
	cb     comproxy.Callback
	cookie comproxy.Cookie
}

// New creates an empty runtime.
func New() *Runtime {
	return &Runtime{
		objects:  make([]object, 0, 64),
		freeList: make([]comproxy.Handle, 0, 16),
	}
}

var (
	_ comproxy.Runtime     = (*Runtime)(nil)
	_ comproxy.EventSource = (*Runtime)(nil)
)

// NewObject creates an object of typeName with a copy of props. The new
// object has no outstanding references.
func (r *Runtime) NewObject(typeName string, props map[string]comproxy.Value) comproxy.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newObjectLocked(typeName, props)
}

func (r *Runtime) newObjectLocked(typeName string, props map[string]comproxy.Value) comproxy.Handle {
	o := object{
		typeName: typeName,
		props:    make(map[string]comproxy.Value, len(props)),
		valid:    true,
	}
	for k, v := range props {
		o.props[k] = v
	}

	if len(r.freeList) > 0 {
		h := r.freeList[len(r.freeList)-1]
		r.freeList = r.freeList[:len(r.freeList)-1]
		r.objects[h-1] = o
		return h
	}

	r.objects = append(r.objects, o)
	return comproxy.Handle(len(r.objects))
}

// NewCollection creates a collection object whose Add method creates objects
// of itemType.
func (r *Runtime) NewCollection(typeName, itemType string) comproxy.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.newObjectLocked(typeName, nil)
	o := &r.objects[h-1]
	o.collection = true
	o.itemType = itemType
	return h
}

// SetRoot designates the application object.
func (r *Runtime) SetRoot(h comproxy.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.root = h
}

// Root acquires and returns a reference to the application object. The
// caller owns the reference.
func (r *Runtime) Root() comproxy.Handle {
	r.mu.Lock()
	h := r.root
	o := r.lookup(h)
	if o == nil {
		r.mu.Unlock()
		return 0
	}
	o.refs++
	refs := o.refs
	r.mu.Unlock()

	r.notify(Event{Op: OpAddRef, Handle: h, Refs: refs})
	return h
}

// Link stores child as the object-valued property name of parent and points
// the child's Parent at parent unless it already has one.
func (r *Runtime) Link(parent comproxy.Handle, name string, child comproxy.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.lookup(parent)
	c := r.lookup(child)
	if p == nil || c == nil {
		return
	}
	p.props[name] = child
	if _, ok := c.props["Parent"]; !ok {
		c.props["Parent"] = r.ownerOf(parent)
	}
}

// AddItem appends child to a collection. The child's Parent becomes the
// collection's own Parent, matching how automation models skip collections.
func (r *Runtime) AddItem(collection, child comproxy.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addItemLocked(collection, child)
}

func (r *Runtime) addItemLocked(collection, child comproxy.Handle) {
	col := r.lookup(collection)
	c := r.lookup(child)
	if col == nil || c == nil {
		return
	}
	col.collection = true
	col.items = append(col.items, child)
	if _, ok := c.props["Parent"]; !ok {
		c.props["Parent"] = r.ownerOf(collection)
	}
}

// ownerOf skips collection objects when resolving a parent.
func (r *Runtime) ownerOf(h comproxy.Handle) comproxy.Handle {
	o := r.lookup(h)
	if o == nil || !o.collection {
		return h
	}
	if p, ok := o.props["Parent"].(comproxy.Handle); ok {
		return p
	}
	return h
}

// Define installs a native method on h.
func (r *Runtime) Define(h comproxy.Handle, method string, fn Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.lookup(h)
	if o == nil {
		return
	}
	if o.methods == nil {
		o.methods = make(map[string]Method)
	}
	o.methods[method] = fn
}

func (r *Runtime) lookup(h comproxy.Handle) *object {
	if h == 0 {
		return nil
	}
	idx := int(h - 1)
	if idx >= len(r.objects) {
		return nil
	}
	o := &r.objects[idx]
	if !o.valid {
		return nil
	}
	return o
}

// Validate reports whether h refers to a live object.
func (r *Runtime) Validate(h comproxy.Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o := r.lookup(h)
	return o != nil && !o.destroyed
}

// AddRef acquires one reference to h.
func (r *Runtime) AddRef(h comproxy.Handle) error {
	r.mu.Lock()
	o := r.lookup(h)
	if o == nil {
		r.mu.Unlock()
		return ErrInvalidHandle
	}
	if o.destroyed {
		r.mu.Unlock()
		return ErrDestroyed
	}
	o.refs++
	refs := o.refs
	r.mu.Unlock()

	r.notify(Event{Op: OpAddRef, Handle: h, Refs: refs})
	return nil
}

// Release drops one reference to h. Releasing an object with no outstanding
// references is recorded as an OverRelease violation.
func (r *Runtime) Release(h comproxy.Handle) error {
	r.mu.Lock()
	o := r.lookup(h)
	if o == nil {
		r.mu.Unlock()
		return ErrInvalidHandle
	}
	if o.failRelease != nil {
		err := o.failRelease
		refs := o.refs
		r.mu.Unlock()
		r.notify(Event{Op: OpRelease, Handle: h, Refs: refs, Err: err})
		return err
	}
	if o.refs <= 0 {
		r.violations = append(r.violations, Violation{Kind: OverRelease, Handle: h})
		r.mu.Unlock()
		r.notify(Event{Op: OpRelease, Handle: h, Err: ErrNoReference})
		return ErrNoReference
	}
	o.refs--
	refs := o.refs
	hook := o.onRelease
	if o.destroyed && refs == 0 {
		r.objects[h-1] = object{}
		r.freeList = append(r.freeList, h)
	}
	r.mu.Unlock()

	r.notify(Event{Op: OpRelease, Handle: h, Refs: refs})
	if hook != nil {
		hook()
	}
	return nil
}

// TypeName returns the native type name of h.
func (r *Runtime) TypeName(h comproxy.Handle) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o := r.lookup(h)
	if o == nil {
		return "", ErrInvalidHandle
	}
	return o.typeName, nil
}

// Get reads a property. Object-valued properties are returned with a new
// reference acquired for the caller. Collections expose Count.
func (r *Runtime) Get(h comproxy.Handle, name string) (comproxy.Value, error) {
	r.mu.Lock()
	o := r.lookup(h)
	if o == nil {
		r.mu.Unlock()
		return nil, ErrInvalidHandle
	}
	if o.destroyed {
		r.mu.Unlock()
		return nil, ErrDestroyed
	}
	r.checkAccessLocked(h, o, name)
	if err := o.failCalls[name]; err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if o.collection && name == "Count" {
		n := int64(len(o.items))
		r.mu.Unlock()
		return n, nil
	}
	v, ok := o.props[name]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMember, o.typeName, name)
	}
	child, isObject := v.(comproxy.Handle)
	if !isObject {
		r.mu.Unlock()
		return v, nil
	}
	c := r.lookup(child)
	if c == nil || c.destroyed {
		r.mu.Unlock()
		return nil, nil
	}
	c.refs++
	refs := c.refs
	r.mu.Unlock()

	r.notify(Event{Op: OpAddRef, Handle: child, Refs: refs})
	return child, nil
}

// Set writes a property. Unknown properties are created.
func (r *Runtime) Set(h comproxy.Handle, name string, v comproxy.Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.lookup(h)
	if o == nil {
		return ErrInvalidHandle
	}
	if o.destroyed {
		return ErrDestroyed
	}
	r.checkAccessLocked(h, o, name)
	if err := o.failCalls[name]; err != nil {
		return err
	}
	o.props[name] = v
	return nil
}

// Invoke calls a method. Collections implement Item (1-based index or item
// Name) and Add. Methods installed with Define take precedence; any other
// method is recorded and returns nil.
func (r *Runtime) Invoke(h comproxy.Handle, method string, args ...comproxy.Value) (comproxy.Value, error) {
	r.mu.Lock()
	o := r.lookup(h)
	if o == nil {
		r.mu.Unlock()
		return nil, ErrInvalidHandle
	}
	if o.destroyed {
		r.mu.Unlock()
		return nil, ErrDestroyed
	}
	r.checkAccessLocked(h, o, method)
	if o.calls == nil {
		o.calls = make(map[string]int)
	}
	o.calls[method]++
	if err := o.failCalls[method]; err != nil {
		r.mu.Unlock()
		r.notify(Event{Op: OpInvoke, Handle: h, Member: method, Err: err})
		return nil, err
	}
	fn := o.methods[method]
	if fn == nil && o.collection {
		switch method {
		case "Item":
			v, err := r.itemLocked(o, args)
			r.mu.Unlock()
			r.notify(Event{Op: OpInvoke, Handle: h, Member: method, Err: err})
			if child, ok := v.(comproxy.Handle); ok {
				r.notify(Event{Op: OpAddRef, Handle: child, Refs: r.RefCount(child)})
			}
			return v, err
		case "Add":
			props := map[string]comproxy.Value{
				"Name": fmt.Sprintf("%s%d", o.itemType, len(o.items)+1),
			}
			if r.root != 0 {
				props["Application"] = r.root
			}
			child := r.newObjectLocked(o.itemType, props)
			r.addItemLocked(h, child)
			r.objects[child-1].refs++
			r.mu.Unlock()
			r.notify(Event{Op: OpInvoke, Handle: h, Member: method})
			r.notify(Event{Op: OpAddRef, Handle: child, Refs: 1})
			return child, nil
		}
	}
	if fn == nil && len(args) > 0 {
		if v, ok := o.props[paramKey(method, args)]; ok {
			v = r.acquireLocked(v)
			r.mu.Unlock()
			r.notify(Event{Op: OpInvoke, Handle: h, Member: method})
			if child, ok := v.(comproxy.Handle); ok {
				r.notify(Event{Op: OpAddRef, Handle: child, Refs: r.RefCount(child)})
			}
			return v, nil
		}
	}
	r.mu.Unlock()

	r.notify(Event{Op: OpInvoke, Handle: h, Member: method})
	if fn == nil {
		return nil, nil
	}
	return fn(args...)
}

// paramKey names a parameterized property: Range("A1") is stored as
// "Range(A1)", Axes(1, 1) as "Axes(1,1)".
func paramKey(method string, args []comproxy.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return method + "(" + strings.Join(parts, ",") + ")"
}

// acquireLocked adds a reference when v is a live object handle.
func (r *Runtime) acquireLocked(v comproxy.Value) comproxy.Value {
	child, ok := v.(comproxy.Handle)
	if !ok {
		return v
	}
	c := r.lookup(child)
	if c == nil || c.destroyed {
		return nil
	}
	c.refs++
	return child
}

func (r *Runtime) itemLocked(col *object, args []comproxy.Value) (comproxy.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: Item takes one argument", ErrIndex)
	}
	var target comproxy.Handle
	switch key := args[0].(type) {
	case string:
		for _, item := range col.items {
			if c := r.lookup(item); c != nil && c.props["Name"] == key {
				target = item
				break
			}
		}
	default:
		idx, ok := toIndex(key)
		if ok && idx >= 1 && idx <= len(col.items) {
			target = col.items[idx-1]
		}
	}
	c := r.lookup(target)
	if c == nil || c.destroyed {
		return nil, fmt.Errorf("%w: %v", ErrIndex, args[0])
	}
	c.refs++
	return target, nil
}

func toIndex(v comproxy.Value) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint32:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// checkAccessLocked records access through a handle nobody holds.
func (r *Runtime) checkAccessLocked(h comproxy.Handle, o *object, member string) {
	if o.refs <= 0 {
		r.violations = append(r.violations, Violation{Kind: AccessAfterRelease, Handle: h, Member: member})
	}
}

// RefCount returns the number of outstanding references to h.
func (r *Runtime) RefCount(h comproxy.Handle) int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if o := r.lookup(h); o != nil {
		return o.refs
	}
	return 0
}

// Outstanding returns the total number of references held across all objects.
func (r *Runtime) Outstanding() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for i := range r.objects {
		if r.objects[i].valid {
			total += int(r.objects[i].refs)
		}
	}
	return total
}

// Len returns the number of live objects.
func (r *Runtime) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for i := range r.objects {
		if r.objects[i].valid {
			count++
		}
	}
	return count
}

// Each iterates over live objects.
func (r *Runtime) Each(fn func(h comproxy.Handle, typeName string, refs int32) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.objects {
		o := &r.objects[i]
		if o.valid {
			if !fn(comproxy.Handle(i+1), o.typeName, o.refs) {
				break
			}
		}
	}
}

// Calls returns how many times method was invoked on h.
func (r *Runtime) Calls(h comproxy.Handle, method string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if o := r.lookup(h); o != nil {
		return o.calls[method]
	}
	return 0
}

// Prop returns a raw property without acquiring references or recording
// access. Intended for assertions.
func (r *Runtime) Prop(h comproxy.Handle, name string) (comproxy.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o := r.lookup(h)
	if o == nil {
		return nil, false
	}
	v, ok := o.props[name]
	return v, ok
}

// Items returns the handles in a collection without acquiring references.
func (r *Runtime) Items(h comproxy.Handle) []comproxy.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o := r.lookup(h)
	if o == nil {
		return nil
	}
	return append([]comproxy.Handle(nil), o.items...)
}

// Watch adds an observer for native operations and returns a function that
// removes it.
func (r *Runtime) Watch(o Observer) (unwatch func()) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.nextWatch++
	id := r.nextWatch
	r.observers = append(r.observers, watcher{id: id, obs: o})
	return func() {
		r.obsMu.Lock()
		defer r.obsMu.Unlock()
		for i, w := range r.observers {
			if w.id == id {
				r.observers = append(r.observers[:i:i], r.observers[i+1:]...)
				return
			}
		}
	}
}

func (r *Runtime) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, w := range r.observers {
		w.obs.OnNativeEvent(e)
	}
}
