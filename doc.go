// Package comproxy provides managed proxies over a reference-counted,
// single-threaded automation object model, such as an office suite's
// in-process object graph.
//
// Every domain type is a one-to-one proxy: it holds one native handle,
// forwards properties and methods, and releases the handle exactly once.
// The interesting part is the lifetime core shared by all proxies.
//
// # Architecture Overview
//
//	comproxy/         Root package with the native boundary (Handle, Runtime, EventSource)
//	├── proxy/        Proxy base object, ownership registry, event bridge, accessors
//	├── event/        Typed public multicast events
//	├── enum/         Total native <-> public enum mappings
//	├── errors/       Structured error types
//	├── sim/          In-memory reference-counted runtime for tests and demos
//	├── metrics/      Prometheus lifecycle metrics
//	├── office/       Spreadsheet proxies built on the core
//	└── cmd/officectl Command line tool and interactive browser
//
// # Quick Start
//
//	rt, err := sim.LoadScenarioFile("book.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session := proxy.NewSession(rt)
//	app, err := office.NewApplication(session, rt.Root())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Dispose()
//
//	wb, err := app.Workbooks().Item(1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(wb.Name())
//
// # Lifetime Rules
//
// Disposing a proxy unsubscribes its native events, disposes every child it
// created, then releases its own handle. Disposing twice is a no-op. A proxy
// that becomes unreachable without Dispose is released by a GC cleanup that
// only performs native calls.
//
// Reading a disposed proxy returns a zero value and writing to it is
// discarded. Only construction from an invalid handle and genuinely failing
// native method calls return errors.
//
// # Thread Safety
//
// The native runtime is apartment-affine. All proxies of one graph must be
// created, used and disposed on the goroutine that created the root. Use
// proxy.WithDeferredFinalization together with Session.Reap when the runtime
// cannot accept releases from the GC cleanup goroutine.
package comproxy
