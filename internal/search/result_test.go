package search

import "testing"

func TestParseAttrRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Attr
		out  string
	}{
		{"", 0, ""},
		{"R", AttrReadOnly, "R"},
		{"rhs", AttrReadOnly | AttrHidden | AttrSystem, "RHS"},
		{"DL", AttrDirectory | AttrReparse, "DL"},
		{"XD", AttrDirectory, "D"}, // unknown letters ignored
	}

	for _, tt := range tests {
		got := ParseAttr(tt.in)
		if got != tt.want {
			t.Fatalf("ParseAttr(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if s := got.String(); s != tt.out {
			t.Fatalf("Attr(%q).String() = %q, want %q", tt.in, s, tt.out)
		}
	}
}

func TestItemExtDerivesFromName(t *testing.T) {
	t.Parallel()

	i := Item{Name: "Report.PDF"}
	if got := i.Ext(); got != ".pdf" {
		t.Fatalf("Ext() = %q, want %q", got, ".pdf")
	}

	i.Extension = ".doc"
	if got := i.Ext(); got != ".doc" {
		t.Fatalf("Ext() = %q, want supplied %q", got, ".doc")
	}
}

func TestIsDir(t *testing.T) {
	t.Parallel()

	if (Item{Attr: AttrDirectory}).IsDir() != true {
		t.Fatal("directory attr not detected")
	}
	if (Item{Attr: AttrHidden}).IsDir() {
		t.Fatal("non-directory reported as directory")
	}
}
