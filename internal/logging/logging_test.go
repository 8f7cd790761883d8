package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-layout/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, treeModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	SyncLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != syncModule {
		t.Fatalf("expected %s to be requested, got %v", syncModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != syncModule {
		t.Fatalf("expected module field %s, got %v", syncModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRoot(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	ModuleLogger(provider, "")
	if provider.requested[0] != rootModule {
		t.Fatalf("expected root module, got %v", provider.requested)
	}
}

func TestEnsureReturnsNoOpForNil(t *testing.T) {
	if _, ok := Ensure(nil).(noopLogger); !ok {
		t.Fatal("expected Ensure(nil) to return the no-op logger")
	}
}

func TestQualifyModule(t *testing.T) {
	cases := map[string]string{
		"":             "layout",
		" layout ":     "layout",
		"sync":         "layout.sync",
		"layout.tree":  "layout.tree",
		"layoutengine": "layout.layoutengine",
	}
	for in, want := range cases {
		if got := QualifyModule(in); got != want {
			t.Fatalf("QualifyModule(%q) = %q, want %q", in, got, want)
		}
	}
}
