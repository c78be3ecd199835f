package domain

import "testing"

func TestParseMode(t *testing.T) {
	cases := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"method-check", ModeMethod, false},
		{"method", ModeMethod, false},
		{"1", ModeMethod, false},
		{"ACTIVE", ModeActive, false},
		{"2", ModeActive, false},
		{"payload", ModePayload, false},
		{"3", ModePayload, false},
		{"related-domain-lookup", ModeRelated, false},
		{"4", ModeRelated, false},
		{"none", ModeNone, false},
		{"", ModeNone, false},
		{"  method  ", ModeMethod, false},
		{"5", ModeNone, true},
		{"bogus", ModeNone, true},
	}
	for _, c := range cases {
		got, err := ParseMode(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("ParseMode(%q): want error, got %v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseMode(%q): want %v, got %v", c.in, c.want, got)
		}
	}
}

func TestModeString_RoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeNone, ModeMethod, ModeActive, ModePayload, ModeRelated} {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m.String(), err)
		}
		if got != m {
			t.Fatalf("round-trip %v: got %v", m, got)
		}
	}
}
