//go:build integration

package client_test

import (
	"strings"
	"testing"

	"github.com/adamwoolhether/httpapi/client"
)

func TestIntegration_GetRemoteText(t *testing.T) {
	c, err := client.New("VERSION", client.Config{
		Hostname:      "go.dev",
		PathExtension: "?m=text",
	})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	var got string
	if err := c.OnEnd(func(body client.Body, info client.EndInfo) {
		if info.Response.StatusCode != 200 {
			t.Errorf("unexpected status %d", info.Response.StatusCode)
		}
		got = body.Text()
	}); err != nil {
		t.Fatal(err)
	}

	call, err := c.Get(t.Context())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := call.Err(); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	if !strings.HasPrefix(got, "go") {
		t.Errorf("expected version text starting with \"go\", got %q", got)
	}
}

func TestIntegration_UnreachableHost(t *testing.T) {
	c, err := client.New("anything", client.Config{Hostname: "nonexistent.invalid"})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	call, err := c.Get(t.Context())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := call.Err(); err == nil {
		t.Fatal("expected transport error")
	}
	if call.State() != client.StateFailed {
		t.Errorf("expected failed state, got %s", call.State())
	}
}
