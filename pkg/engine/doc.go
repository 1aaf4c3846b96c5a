// Package engine provides the mock server runtime: the Server that owns the
// listener, the Dispatcher that resolves inbound requests against the mock
// table, and the Registry that ties the two together with an
// init/start/shutdown lifecycle.
//
// A test harness builds a mock table, hands it to a Registry together with a
// Server, and points the client under test at the server's address:
//
//	table, _ := mock.NewTable(entries)
//	reg := engine.NewRegistry()
//	reg.Init(engine.NewServer(), table)
//	if err := reg.Start(engine.DefaultPort); err != nil {
//	    ...
//	}
//	defer reg.ShutDown()
//
// The table is immutable once installed, so dispatch needs no locking and
// is safe under the HTTP server's per-connection concurrency.
package engine
