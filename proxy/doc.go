// Package proxy implements the lifetime core shared by every domain proxy.
//
// An Object owns exactly one native reference and releases it exactly once,
// either from Dispose or from a GC cleanup when the proxy becomes unreachable.
// Children created lazily through Child, Fetch or Adopt are registered with
// their parent and disposed with it. Native events are wired once per proxy
// through a Bridge and unwired before the handle is released.
//
// Accessors degrade instead of failing: reads from a proxy that is no longer
// alive return the caller's default, writes are discarded, and Invoke returns
// (nil, nil). Only New fails on a null or invalid handle.
package proxy
