package registry

import (
	"slices"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

type variant struct {
	title string
}

func (v *variant) Title() string { return v.title }

func TestRegisterAndLookupIsCaseInsensitive(t *testing.T) {
	reg := New[*variant]("content type")
	markdown := &variant{title: "Text using markdown"}
	if err := reg.Register(" Markdown ", markdown); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := reg.Lookup("MARKDOWN")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != markdown {
		t.Fatal("expected the exact registered descriptor")
	}
	if !reg.Has("markdown") || reg.Len() != 1 {
		t.Fatal("expected registry to report the entry")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := New[*variant]("wrapper")
	first := &variant{title: "Panel"}
	reg.MustRegister("panel", first)

	err := reg.Register("PANEL", &variant{title: "Other"})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryConflict) {
		t.Fatalf("expected conflict category, got %v", err)
	}
	got, _ := reg.Lookup("panel")
	if got != first {
		t.Fatal("duplicate registration must not overwrite the original")
	}
}

func TestRegisterRejectsBlankName(t *testing.T) {
	reg := New[*variant]("wrapper")
	if err := reg.Register("  ", &variant{}); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestLookupMissReturnsNotFound(t *testing.T) {
	reg := New[*variant]("content type")
	_, err := reg.Lookup("gallery")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestListSortedOrdersByTitleThenValue(t *testing.T) {
	reg := New[*variant]("content type")
	reg.MustRegister("versions", &variant{title: "Versions of libraries"})
	reg.MustRegister("blank", &variant{title: "Blank"})
	reg.MustRegister("datatable", &variant{title: "Data Grid"})
	reg.MustRegister("blank2", &variant{title: "Blank"})

	want := []Choice{
		{Value: "blank", Text: "Blank"},
		{Value: "blank2", Text: "Blank"},
		{Value: "datatable", Text: "Data Grid"},
		{Value: "versions", Text: "Versions of libraries"},
	}
	seq := reg.ListSorted()
	for pass := 0; pass < 2; pass++ {
		got := slices.Collect(seq)
		if !slices.Equal(got, want) {
			t.Fatalf("pass %d: unexpected order %v", pass, got)
		}
	}

	for choice := range seq {
		if choice.Value != "blank" {
			t.Fatalf("expected early break on first entry, got %v", choice)
		}
		break
	}
}

func TestConcurrentRegistration(t *testing.T) {
	reg := New[*variant]("content type")
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_ = reg.Register(name, &variant{title: name})
		}(name)
	}
	wg.Wait()

	if reg.Len() != len(names) {
		t.Fatalf("expected %d entries, got %d", len(names), reg.Len())
	}
}
