package client_test

import (
	"errors"
	"testing"

	"github.com/adamwoolhether/httpapi/client"
	"github.com/google/go-cmp/cmp"
)

func TestResolve_Precedence(t *testing.T) {
	defaults := client.Config{
		URLPrefix: "/",
		Hostname:  "default.test",
		Port:      443,
		Headers:   map[string]string{"Content-Type": "application/json", "X-Layer": "defaults", "X-Default": "1"},
		Data:      map[string]any{"layer": "defaults", "default": 1},
	}
	instance := client.Config{
		Hostname: "instance.test",
		Headers:  map[string]string{"X-Layer": "instance", "X-Instance": "1"},
		Data:     map[string]any{"layer": "instance", "instance": 1},
	}
	overrides := client.Overrides{
		Headers: map[string]string{"X-Layer": "call"},
		Data:    map[string]any{"layer": "call", "call": 1},
	}

	eff, err := client.Resolve(defaults, instance, overrides)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	exp := client.Effective{
		Hostname: "instance.test",
		Port:     443,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"X-Layer":      "call",
			"X-Default":    "1",
			"X-Instance":   "1",
		},
		Data: map[string]any{
			"layer":    "call",
			"default":  1,
			"instance": 1,
			"call":     1,
		},
		Body: []byte(`{"call":1,"default":1,"instance":1,"layer":"call"}`),
	}

	if diff := cmp.Diff(exp, eff); diff != "" {
		t.Errorf("effective request mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_InputsUntouched(t *testing.T) {
	defaults := client.DefaultConfig()
	instance := client.Config{
		Hostname: "api.test",
		Headers:  map[string]string{"X-A": "a"},
		Data:     map[string]any{"a": 1},
	}
	overrides := client.Overrides{
		Headers: map[string]string{"X-A": "override", "X-B": "b"},
		Data:    map[string]any{"a": 2},
	}

	first, err := client.Resolve(defaults, instance, overrides)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(map[string]string{"X-A": "a"}, instance.Headers); diff != "" {
		t.Errorf("instance headers modified (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"a": 1}, instance.Data); diff != "" {
		t.Errorf("instance data modified (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(client.DefaultConfig(), defaults); diff != "" {
		t.Errorf("defaults modified (-want +got):\n%s", diff)
	}

	// Same inputs, same result.
	second, err := client.Resolve(defaults, instance, overrides)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("resolve is not repeatable (-first +second):\n%s", diff)
	}

	// The result owns its maps.
	first.Headers["X-A"] = "mutated"
	if overrides.Headers["X-A"] != "override" {
		t.Error("result headers alias the override map")
	}
}

func TestResolve_EmptyData(t *testing.T) {
	eff, err := client.Resolve(client.Config{}, client.Config{}, client.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if string(eff.Body) != "{}" {
		t.Errorf("exp body {}, got %s", eff.Body)
	}
}

func TestResolve_SerializationError(t *testing.T) {
	_, err := client.Resolve(client.DefaultConfig(), client.Config{}, client.Overrides{
		Data: map[string]any{"ch": make(chan int)},
	})

	if !errors.Is(err, client.ErrSerialization) {
		t.Fatalf("exp ErrSerialization, got: %v", err)
	}

	var serr *client.SerializationError
	if !errors.As(err, &serr) {
		t.Fatalf("exp *SerializationError, got %T", err)
	}
}

func TestResolve_HeaderNamesIgnoreCase(t *testing.T) {
	defaults := client.DefaultConfig()
	instance := client.Config{
		Hostname: "api.test",
		Headers:  map[string]string{"content-type": "text/plain", "x-trace": "instance"},
	}

	testCases := []struct {
		name      string
		overrides client.Overrides
		exp       map[string]string
	}{
		{
			name: "instance beats defaults",
			exp:  map[string]string{"Content-Type": "text/plain", "X-Trace": "instance"},
		},
		{
			name:      "call beats instance",
			overrides: client.Overrides{Headers: map[string]string{"CONTENT-TYPE": "application/xml"}},
			exp:       map[string]string{"Content-Type": "application/xml", "X-Trace": "instance"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Map iteration order is random; repeat to catch order dependence.
			for range 50 {
				eff, err := client.Resolve(defaults, instance, tc.overrides)
				if err != nil {
					t.Fatal(err)
				}
				if diff := cmp.Diff(tc.exp, eff.Headers); diff != "" {
					t.Fatalf("headers mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
