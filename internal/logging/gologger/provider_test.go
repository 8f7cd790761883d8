package gologger

import (
	"context"
	"slices"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-cms-layout/internal/logging"
	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestProviderReturnsNamedLoggers(t *testing.T) {
	p, err := NewProvider(Config{Level: "warn", Format: "console", Focus: []string{" layout.sync ", "", "sync"}})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	logger := p.GetLogger("sync")
	if logger == nil {
		t.Fatal("expected logger")
	}
	logging.WithFields(logger, map[string]any{"grid": "content"}).Debug("page.sync.skipped")
}

func TestFocusModulesQualifiesNames(t *testing.T) {
	got := FocusModules([]string{" sync ", "layout.sync", "", "layout", "layout.tree"})
	want := []string{"layout.sync", "layout", "layout.tree"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNilProviderFallsBackToNoOp(t *testing.T) {
	var p *Provider
	if p.GetLogger("layout") == nil {
		t.Fatal("expected no-op logger from nil provider")
	}
}

func TestModuleLoggerForwardsCallsAndClonesFields(t *testing.T) {
	stub := &stubLogger{}
	adapted := newModuleLogger(stub)

	adapted.Info("row.added")
	adapted.Warn("row.hydrate.truncated")

	fieldsLogger, ok := adapted.(interfaces.FieldsLogger)
	if !ok {
		t.Fatal("expected module logger to support fields")
	}
	fields := map[string]any{"node": "row-1"}
	fieldsLogger.WithFields(fields)
	fields["node"] = "row-2"

	if len(stub.fields) != 1 || stub.fields[0]["node"] != "row-1" {
		t.Fatalf("expected cloned fields, got %#v", stub.fields)
	}
	if fieldsLogger.WithFields(nil) != adapted {
		t.Fatal("expected empty fields to return the same logger")
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "layout")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}
	if len(stub.calls) != 2 || stub.calls[0] != "info" || stub.calls[1] != "warn" {
		t.Fatalf("unexpected calls %v", stub.calls)
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, fields)
	return s
}
