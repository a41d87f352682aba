package proxy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/event"
	"github.com/wippyai/comproxy/sim"
)

const (
	evActivated comproxy.EventID = 1
	evOpened    comproxy.EventID = 2
)

// node is a minimal domain proxy used across the package tests.
type node struct {
	*Object
	child     *node
	sheet     *node
	Activated event.Event[struct{}]
	Opened    event.Event[*node]
}

func newNode(s *Session, h comproxy.Handle) (*node, error) {
	o, err := New(s, h, "Node")
	if err != nil {
		return nil, err
	}
	n := &node{Object: o}
	if b, ok := o.Events(); ok {
		_ = On(b, n, evActivated, func(n *node, _ []comproxy.Value) {
			n.Activated.Emit(struct{}{})
		})
		_ = On(b, n, evOpened, func(n *node, args []comproxy.Value) {
			if len(args) == 0 {
				return
			}
			if arg, ok := WrapArg(n.Session(), args[0], newNode); ok {
				n.Opened.Emit(arg)
			}
		})
	}
	o.OnDispose(n.Activated.Clear)
	o.OnDispose(n.Opened.Clear)
	return n, nil
}

func (n *node) Child() *node {
	return Child(n.Object, &n.child, "Child", newNode)
}

func (n *node) Sheet() *node {
	return Child(n.Object, &n.sheet, "Sheet", newNode)
}

func (n *node) Name() string {
	return Get(n.Object, "Name", "")
}

// graph is a root with events, a child with events and a grandchild.
type graph struct {
	rt         *sim.Runtime
	root       comproxy.Handle
	child      comproxy.Handle
	grandchild comproxy.Handle
}

func newGraph(t *testing.T) *graph {
	t.Helper()
	rt := sim.New()
	g := &graph{rt: rt}
	g.root = rt.NewObject("Application", map[string]comproxy.Value{"Name": "root", "Count": int32(3)})
	g.child = rt.NewObject("Workbook", map[string]comproxy.Value{"Name": "child"})
	g.grandchild = rt.NewObject("Worksheet", map[string]comproxy.Value{"Name": "grandchild"})
	rt.Link(g.root, "Child", g.child)
	rt.Link(g.child, "Sheet", g.grandchild)
	rt.EnableEvents(g.root)
	rt.EnableEvents(g.child)
	rt.SetRoot(g.root)
	return g
}

// open wraps the runtime root in a node owned by the test.
func (g *graph) open(t *testing.T, opts ...Option) (*Session, *node) {
	t.Helper()
	s := NewSession(g.rt, opts...)
	n, err := newNode(s, g.rt.Root())
	require.NoError(t, err)
	return s, n
}

// recorder collects lifecycle events.
type recorder struct {
	events []Event
	mu     sync.Mutex
}

func (r *recorder) OnProxyEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(typ EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// opLog records native operations in order.
type opLog struct {
	ops []sim.Event
	mu  sync.Mutex
}

func (l *opLog) OnNativeEvent(e sim.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, e)
}

func (l *opLog) index(op sim.Op, h comproxy.Handle) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.ops {
		if e.Op == op && e.Handle == h {
			return i
		}
	}
	return -1
}
