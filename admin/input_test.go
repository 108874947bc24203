package admin

import (
	"strings"
	"testing"
)

func TestCleanName(t *testing.T) {
	if _, err := CleanName("   "); err == nil {
		t.Fatal("blank name accepted")
	}
	if _, err := CleanName(strings.Repeat("x", 200)); err == nil {
		t.Fatal("oversized name accepted")
	}
	got, err := CleanName("  Acme  ")
	if err != nil {
		t.Fatalf("CleanName: %v", err)
	}
	if got != "Acme" {
		t.Fatalf("CleanName = %q", got)
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"199.99", "199.99", false},
		{" 42 ", "42", false},
		{"10,50", "10.5", false},
		{"0", "", true},
		{"-5", "", true},
		{"abc", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := ParsePrice(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParsePrice(%q) accepted", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePrice(%q): %v", c.in, err)
			continue
		}
		if got.String() != c.want {
			t.Errorf("ParsePrice(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseDescription(t *testing.T) {
	if ParseDescription("-") != nil {
		t.Fatal("dash did not skip description")
	}
	if ParseDescription("  ") != nil {
		t.Fatal("blank description not skipped")
	}
	d := ParseDescription(" Classic loafer ")
	if d == nil || *d != "Classic loafer" {
		t.Fatalf("ParseDescription = %v", d)
	}
}
