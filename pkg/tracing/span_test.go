package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNestedSpans(t *testing.T) {
	ctx, root := Start(context.Background(), "rebuild", "trace-1")
	_, load := Start(ctx, "load", "ignored")
	load.End()
	_, build := Start(ctx, "build", "")
	build.SetAttr("terms", 42)
	build.End()
	root.End()

	if FromContext(ctx) != root {
		t.Fatal("context does not carry the root span")
	}
	children := root.Children()
	if len(children) != 2 || children[0].Name != "load" || children[1].Name != "build" {
		t.Fatalf("unexpected children: %+v", children)
	}
	if load.TraceID != "trace-1" {
		t.Errorf("child trace id = %q, want trace-1", load.TraceID)
	}

	var buf bytes.Buffer
	root.Log(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	out := buf.String()
	for _, want := range []string{"span=rebuild", "span=load", "span=build", "terms=42", "depth=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestFromContextEmpty(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("expected nil span")
	}
}
