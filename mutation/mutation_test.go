package mutation

import "testing"

func TestCompressFoldsAttrRuns(t *testing.T) {
	in := []Record{
		{Op: OpAttr, Path: "/html[1]/body[1]/div[1]", Name: "style", OldValue: "", Value: "opacity: 0"},
		{Op: OpAttr, Path: "/html[1]/body[1]/div[1]", Name: "style", OldValue: "opacity: 0", Value: "opacity: 0.5"},
		{Op: OpAttr, Path: "/html[1]/body[1]/div[1]", Name: "style", OldValue: "opacity: 0.5", Value: "opacity: 1"},
	}
	out := Compress(in)
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].Value != "opacity: 1" || out[0].OldValue != "" {
		t.Fatalf("folded record = %+v", out[0])
	}
}

func TestCompressKeepsDistinctTargets(t *testing.T) {
	in := []Record{
		{Op: OpAttr, Path: "/a", Name: "style", Value: "1"},
		{Op: OpAttr, Path: "/b", Name: "style", Value: "2"},
		{Op: OpAttr, Path: "/a", Name: "class", Value: "3"},
	}
	if out := Compress(in); len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
}

func TestCompressFoldsTextRuns(t *testing.T) {
	in := []Record{
		{Op: OpText, Path: "/a", Value: "h"},
		{Op: OpText, Path: "/a", Value: "he"},
		{Op: OpText, Path: "/a", Value: "hel"},
		{Op: OpText, Path: "/b", Value: "x"},
	}
	out := Compress(in)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Value != "hel" {
		t.Fatalf("folded text = %q", out[0].Value)
	}
}

func TestCompressNeverFoldsStructural(t *testing.T) {
	in := []Record{
		{Op: OpInsert, Path: "/a"},
		{Op: OpInsert, Path: "/a"},
		{Op: OpRemove, Path: "/a"},
		{Op: OpRemove, Path: "/a"},
		{Op: OpDocReset},
		{Op: OpDocReset},
	}
	if out := Compress(in); len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}
}

func TestCompressShortInputs(t *testing.T) {
	if out := Compress(nil); len(out) != 0 {
		t.Fatal("nil input")
	}
	one := []Record{{Op: OpAttr, Path: "/a", Name: "x", Value: "1"}}
	if out := Compress(one); len(out) != 1 {
		t.Fatal("single input")
	}
}
