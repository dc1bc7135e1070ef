package erdraw

import (
	"errors"
	"testing"
)

func TestNewSceneNilRenderer(t *testing.T) {
	s, err := NewScene(nil)
	if !errors.Is(err, ErrNoSurface) {
		t.Fatalf("err = %v, want ErrNoSurface", err)
	}
	if s != nil {
		t.Error("scene returned alongside error")
	}
}

func TestNewSceneDefaults(t *testing.T) {
	s, err := NewScene(newFakeRenderer())
	if err != nil {
		t.Fatal(err)
	}
	if !s.showAddButtons {
		t.Error("add buttons hidden by default")
	}
	if s.pageOffset != defaultPageOffset {
		t.Errorf("pageOffset = %s, want %s", vecString(s.pageOffset), vecString(defaultPageOffset))
	}
	if s.Diagram().Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Diagram().Len())
	}
	if s.Selected() != nil || s.Hovering() {
		t.Error("fresh scene has a selection")
	}
	s.SetLogger(nil)
	s.Frame()
}

func TestAddErrors(t *testing.T) {
	b := newBlogScene(t)
	s := b.scene
	other := NewDiagram()
	stranger := other.NewTable("stranger")

	tests := []struct {
		name string
		e    *Element
		want error
	}{
		{"nil", nil, ErrNotRegistered},
		{"already registered table", b.users, ErrAlreadyRegistered},
		{"already registered reference", b.ref, ErrAlreadyRegistered},
		{"column", b.email, ErrWrongKind},
		{"add button", s.Diagram().Element(b.users.AddButton()), ErrWrongKind},
		{"foreign element", stranger, ErrNotRegistered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Add(tt.e); !errors.Is(err, tt.want) {
				t.Errorf("Add = %v, want %v", err, tt.want)
			}
		})
	}
	if got := s.Diagram().Len(); got != 3 {
		t.Errorf("Len = %d after failed adds, want 3", got)
	}
}

func TestAddColumnErrors(t *testing.T) {
	b := newBlogScene(t)
	s := b.scene
	detached := s.Diagram().NewTable("detached")

	tests := []struct {
		name  string
		table Handle
		want  error
	}{
		{"unknown handle", 9999, ErrNotRegistered},
		{"detached table", detached.ID, ErrNotRegistered},
		{"column", b.email.ID, ErrWrongKind},
		{"reference", b.ref.ID, ErrWrongKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.AddColumn(tt.table, "x", false); !errors.Is(err, tt.want) {
				t.Errorf("AddColumn = %v, want %v", err, tt.want)
			}
		})
	}
	if n := len(detached.Columns()); n != 0 {
		t.Errorf("detached table got %d columns", n)
	}
}

func TestAddReferenceErrors(t *testing.T) {
	b := newBlogScene(t)
	s := b.scene

	if _, err := s.AddReference(b.authorID.ID, b.users.ID); !errors.Is(err, ErrWrongKind) {
		t.Errorf("reference to table: err = %v, want ErrWrongKind", err)
	}
	if _, err := s.AddReference(b.posts.AddButton(), b.usersID.ID); !errors.Is(err, ErrWrongKind) {
		t.Errorf("reference from add button: err = %v, want ErrWrongKind", err)
	}
	if err := s.RemoveColumn(b.email.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddReference(b.authorID.ID, b.email.ID); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("reference to removed column: err = %v, want ErrNotRegistered", err)
	}
	if got := len(s.Diagram().References()); got != 1 {
		t.Errorf("References = %d, want 1", got)
	}
}

func TestAddReferenceDetached(t *testing.T) {
	b := newBlogScene(t)
	d := b.scene.Diagram()

	r, err := d.NewReference(b.postsID.ID, b.usersID.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.References()) != 1 {
		t.Fatal("detached reference joined the routing order")
	}
	if err := b.scene.Add(r); err != nil {
		t.Fatal(err)
	}
	refs := d.References()
	if len(refs) != 2 || refs[1] != r.ID {
		t.Errorf("References = %v, want [%d %d]", refs, b.ref.ID, r.ID)
	}
	if r.Recursive() {
		t.Error("cross-table reference marked recursive")
	}
}

func TestRemoveErrors(t *testing.T) {
	b := newBlogScene(t)
	s := b.scene
	detached := s.Diagram().NewTable("detached")

	tests := []struct {
		name string
		h    Handle
		want error
	}{
		{"zero handle", 0, ErrNotRegistered},
		{"unknown handle", 9999, ErrNotRegistered},
		{"detached table", detached.ID, ErrNotRegistered},
		{"add button", b.users.AddButton(), ErrNotRemovable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Remove(tt.h); !errors.Is(err, tt.want) {
				t.Errorf("Remove = %v, want %v", err, tt.want)
			}
		})
	}

	if err := s.Remove(b.ref.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(b.ref.ID); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second Remove = %v, want ErrNotRegistered", err)
	}
}

func TestRemoveTableCascade(t *testing.T) {
	tests := []struct {
		name   string
		remove func(b *blogScene) *Element
		keep   func(b *blogScene) *Element
	}{
		{"source table", func(b *blogScene) *Element { return b.posts }, func(b *blogScene) *Element { return b.users }},
		{"target table", func(b *blogScene) *Element { return b.users }, func(b *blogScene) *Element { return b.posts }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBlogScene(t)
			d := b.scene.Diagram()
			gone := tt.remove(b)
			kept := tt.keep(b)
			cols := append([]Handle(nil), gone.Columns()...)
			btn := gone.AddButton()

			if err := b.scene.Remove(gone.ID); err != nil {
				t.Fatal(err)
			}
			if d.Len() != 1 || d.Elements()[0] != kept {
				t.Errorf("Elements = %v, want only %s", d.Elements(), kept.Name)
			}
			if len(d.References()) != 0 || d.Element(b.ref.ID) != nil {
				t.Error("reference survived its table")
			}
			for _, c := range cols {
				if d.Element(c) != nil {
					t.Errorf("column %d survived its table", c)
				}
			}
			if d.Element(btn) != nil {
				t.Error("add button survived its table")
			}
			if got := d.Tables(); len(got) != 1 || got[0] != kept.ID {
				t.Errorf("Tables = %v, want [%d]", got, kept.ID)
			}
			if d.TableRank(kept.ID) != 0 {
				t.Errorf("TableRank(kept) = %d, want 0", d.TableRank(kept.ID))
			}
			if problems := d.debugCheck(); problems != nil {
				t.Errorf("debugCheck = %v", problems)
			}
		})
	}
}

func TestRemoveTableDropsDetachedReferences(t *testing.T) {
	b := newBlogScene(t)
	d := b.scene.Diagram()
	r, err := d.NewReference(b.postsID.ID, b.usersID.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.scene.Remove(b.users.ID); err != nil {
		t.Fatal(err)
	}
	if d.Element(r.ID) != nil {
		t.Error("detached reference to a removed column still resolves")
	}
	if err := d.Add(r); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Add(stale reference) = %v, want ErrNotRegistered", err)
	}
}

func TestRemoveColumn(t *testing.T) {
	b := newBlogScene(t)
	d := b.scene.Diagram()

	if err := b.scene.RemoveColumn(b.email.ID); err != nil {
		t.Fatal(err)
	}
	if cols := b.users.Columns(); len(cols) != 1 || cols[0] != b.usersID.ID {
		t.Errorf("users columns = %v, want [%d]", cols, b.usersID.ID)
	}
	if len(d.References()) != 1 {
		t.Error("unrelated reference removed")
	}

	if err := b.scene.Remove(b.usersID.ID); err != nil {
		t.Fatal(err)
	}
	if len(b.users.Columns()) != 0 {
		t.Errorf("users columns = %v, want none", b.users.Columns())
	}
	if len(d.References()) != 0 || d.Len() != 2 {
		t.Errorf("References = %v, Len = %d, want none and 2", d.References(), d.Len())
	}
	if err := b.scene.RemoveColumn(b.usersID.ID); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second RemoveColumn = %v, want ErrNotRegistered", err)
	}
	if err := b.scene.RemoveColumn(b.posts.ID); !errors.Is(err, ErrWrongKind) {
		t.Errorf("RemoveColumn(table) = %v, want ErrWrongKind", err)
	}
}

func TestElementsOrder(t *testing.T) {
	b := newBlogScene(t)
	got := b.scene.Diagram().Elements()
	want := []*Element{b.users, b.posts, b.ref}
	if len(got) != len(want) {
		t.Fatalf("Elements len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Elements[%d] = %s %d, want %s %d", i, got[i].Kind, got[i].ID, want[i].Kind, want[i].ID)
		}
	}
}

func TestPersistent(t *testing.T) {
	b := newBlogScene(t)
	d := b.scene.Diagram()
	for _, e := range []*Element{b.users, b.email, b.ref} {
		if !e.Persistent() {
			t.Errorf("%s not persistent", e.Kind)
		}
	}
	if d.Element(b.users.AddButton()).Persistent() {
		t.Error("add button persistent")
	}
}
