package proxy

import (
	"fmt"

	"go.uber.org/zap"
)

// Registry holds the children a proxy created lazily, in creation order.
// Children are only removed when a recreated child takes their place; otherwise
// they live exactly as long as their parent. The zero value is ready to use.
type Registry struct {
	log      *zap.Logger
	children []Disposer
	closed   bool
}

// Add registers child. Adding to a registry that has already been torn down
// disposes the child immediately.
func (r *Registry) Add(child Disposer) {
	if child == nil {
		return
	}
	if r.closed {
		r.disposeOne(child)
		return
	}
	r.children = append(r.children, child)
}

// Replace puts child in the place old occupied, or appends it when old is not
// registered.
func (r *Registry) Replace(old, child Disposer) {
	if child == nil {
		return
	}
	if r.closed {
		r.disposeOne(child)
		return
	}
	for i, c := range r.children {
		if c == old {
			r.children[i] = child
			return
		}
	}
	r.children = append(r.children, child)
}

// Len returns the number of registered children.
func (r *Registry) Len() int {
	return len(r.children)
}

// DisposeAll disposes every child. A child that panics is logged and skipped
// so its siblings are still released. It reports how many children failed.
func (r *Registry) DisposeAll() (failed int) {
	children := r.children
	r.children = nil
	r.closed = true

	for _, c := range children {
		if !r.disposeOne(c) {
			failed++
		}
	}
	return failed
}

func (r *Registry) disposeOne(c Disposer) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			ok = false
			log := r.log
			if log == nil {
				log = Logger()
			}
			log.Warn("child dispose panicked",
				zap.String("child", fmt.Sprintf("%T", c)),
				zap.String("panic", fmt.Sprint(p)))
		}
	}()
	c.Dispose()
	return true
}
