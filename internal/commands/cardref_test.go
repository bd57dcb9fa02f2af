package commands

import (
	"errors"
	"testing"
)

func TestParseCardRef(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     CardRef
		consumed int
		wantErr  string
	}{
		{name: "dotted", args: []string{"2.3"}, want: CardRef{List: 1, Card: 2}, consumed: 1},
		{name: "dotted with trailing args", args: []string{"1.1", "x"}, want: CardRef{List: 0, Card: 0}, consumed: 1},
		{name: "separated", args: []string{"4", "12"}, want: CardRef{List: 3, Card: 11}, consumed: 2},
		{name: "empty", args: nil, wantErr: "card reference required"},
		{name: "list only", args: []string{"3"}, wantErr: "card reference required"},
		{name: "zero card", args: []string{"1.0"}, wantErr: "invalid card reference: 1.0"},
		{name: "zero list", args: []string{"0", "1"}, wantErr: "invalid card reference: 0 1"},
		{name: "missing card", args: []string{"1."}, wantErr: "invalid card reference: 1."},
		{name: "letters", args: []string{"a1"}, wantErr: "invalid card reference: a1"},
		{name: "second not number", args: []string{"1", "b"}, wantErr: "invalid card reference: 1 b"},
		{name: "negative", args: []string{"-1.2"}, wantErr: "invalid card reference: -1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := ParseCardRef(tt.args)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got ref %+v", tt.wantErr, got)
				}
				if err.Error() != tt.wantErr {
					t.Errorf("expected error %q, got %q", tt.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != tt.consumed {
				t.Errorf("expected %d args consumed, got %d", tt.consumed, n)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseCardRef_RequiredIsSentinel(t *testing.T) {
	_, _, err := ParseCardRef([]string{"7"})
	if !errors.Is(err, ErrCardRefRequired) {
		t.Errorf("expected ErrCardRefRequired, got %v", err)
	}
}

func TestCardRef_String(t *testing.T) {
	if got := (CardRef{List: 0, Card: 4}).String(); got != "1.5" {
		t.Errorf("expected %q, got %q", "1.5", got)
	}
}
