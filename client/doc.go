// Package client implements a resource-bound HTTPS client whose calls
// report their progress through lifecycle events.
//
// # Building a Client
//
// A [Client] is bound to one remote resource. Its path is
// URLPrefix + name + PathExtension and never changes:
//
//	c, err := client.New("users", client.Config{
//		Hostname:      "api.example.com",
//		PathExtension: ".json",
//		Headers:       map[string]string{"Authorization": "Bearer t0k3n"},
//	}, client.WithUserAgent("myapp/1.0"))
//
// The config is merged over [DefaultConfig] and validated; invalid fields
// are reported as [FieldErrors].
//
// # Events
//
// Subscribe before making calls. Every call publishes one [EventRequest],
// zero or more [EventData], then exactly one of [EventEnd] or [EventError]:
//
//	c.OnEnd(func(body client.Body, info client.EndInfo) {
//		fmt.Println(info.Response.StatusCode, body.Value())
//	})
//	c.OnError(func(err error, info client.ErrorInfo) {
//		log.Println(info.CallID, err)
//	})
//
// Handlers run synchronously on the call's goroutine. Calls on the same
// client have their handlers run one at a time.
//
// # Making Calls
//
// [Client.Get], [Client.Post] and [Client.Request] return as soon as the
// request is handed off. Per-call data and headers are merged over the
// client's own and never stick:
//
//	call, err := c.Post(ctx, client.WithData(map[string]any{"name": "alice"}))
//	if err != nil {
//		// Nothing was sent: the data could not be encoded or the
//		// method is not supported.
//	}
//	err = call.Err() // blocks until the terminal event was delivered
//
// Response bodies are gunzipped when Content-Encoding is gzip and parsed
// as JSON when Content-Type contains "application/json;". The status code
// is never interpreted; a 404 ends like a 200 does.
package client
