// Package sim provides an in-memory, reference-counted automation runtime.
//
// Runtime implements comproxy.Runtime and comproxy.EventSource so the proxy
// core and the office proxies can be exercised without a desktop
// application. It behaves like an apartment-affine automation server:
//
//   - every object-valued Get and every collection Item acquires a reference
//     the caller must release;
//   - objects may expose an event source; callbacks receive borrowed handles;
//   - misuse (over-release, unsubscribing or calling through a handle nobody
//     holds) is recorded as a Violation instead of corrupting anything.
//
// # Building a Graph
//
//	rt := sim.New()
//	app := rt.NewObject("Application", map[string]comproxy.Value{"Name": "Excel"})
//	rt.EnableEvents(app)
//	books := rt.NewCollection("Workbooks", "Workbook")
//	rt.Link(app, "Workbooks", books)
//	rt.SetRoot(app)
//
// or from YAML with LoadScenario / LoadScenarioFile.
//
// # Fault Injection
//
//	rt.FailRelease(h, errBoom)          // Release returns errBoom
//	rt.FailCall(h, "Save", errDisk)     // Get/Set/Invoke of Save fails
//	rt.OnRelease(h, func() { ... })     // hook after each Release
//	rt.Destroy(h)                       // object closed natively
//
// # Observers
//
// Watch records every AddRef, Release, Subscribe, Unsubscribe, Fire and
// Invoke, which lets tests assert ordering such as unsubscribe-before-release.
package sim
