// Package apicall tracks calls to the contacts API so the UI can show a busy
// indicator.
//
// Each call is registered with Begin and removed with End. The tracker is busy
// while the set of in-flight calls is non-empty, so two overlapping calls never
// reset each other's state: the indicator clears only when the last one settles.
//
//	tracker := apicall.NewTracker(nil)
//	contacts, err := apicall.Do(ctx, tracker, "fetch contacts", client.FetchAll)
//
// Do and Run always end the call, on success, on error and on panic, and pass
// the result and error through unchanged. There is no queuing and no
// cancellation beyond what the caller's context provides.
package apicall
