// Package throttle provides an [http.RoundTripper] that paces outbound
// calls using a token bucket from [golang.org/x/time/rate].
//
// Wrap an existing transport with [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.Config{RPS: 10, Burst: 5},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//
// A call that finds the bucket empty waits for a token. It fails only if
// its request context ends first.
package throttle
