package store

import (
	"reflect"
	"testing"
)

func TestArgListBind(t *testing.T) {
	var a argList
	if p := a.bind("first"); p != "$1" {
		t.Errorf("bind: got %q, want $1", p)
	}
	if p := a.bind(42); p != "$2" {
		t.Errorf("bind: got %q, want $2", p)
	}
	if !reflect.DeepEqual(a.values(), []any{"first", 42}) {
		t.Errorf("values: got %v", a.values())
	}
}

func TestSetClause(t *testing.T) {
	var c setClause
	if !c.empty() {
		t.Error("fresh clause should be empty")
	}

	c.set("title", "New Title")
	c.set("is_featured", true)
	c.setRaw("updated_at = NOW()")

	want := "title = $1, is_featured = $2, updated_at = NOW()"
	if c.sql() != want {
		t.Errorf("sql: got %q, want %q", c.sql(), want)
	}
	if !reflect.DeepEqual(c.values(), []any{"New Title", true}) {
		t.Errorf("values: got %v", c.values())
	}

	// WHERE clause placeholders continue the same numbering.
	if p := c.bind("post-id"); p != "$3" {
		t.Errorf("bind after set: got %q, want $3", p)
	}
}
