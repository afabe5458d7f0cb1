package filter

import (
	"strings"
	"testing"
)

func TestCompileUnknownColumn(t *testing.T) {
	_, err := Compile("missing > 1", []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
	if !strings.Contains(err.Error(), "unknown column in filter") {
		t.Fatalf("error = %v", err)
	}
}

func TestCompileBadExpression(t *testing.T) {
	if _, err := Compile("age >>> 1", []string{"age"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMatchNumericAndString(t *testing.T) {
	e, err := Compile("country == 'US' && age > 30", []string{"country", "age"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	tests := []struct {
		rec  []string
		want bool
	}{
		{[]string{"US", "31"}, true},
		{[]string{"US", "30"}, false},
		{[]string{"DE", "45"}, false},
		{[]string{" US ", "99"}, true}, // cells are trimmed
	}
	for _, tt := range tests {
		got, err := e.Match(tt.rec)
		if err != nil {
			t.Fatalf("Match(%v): %v", tt.rec, err)
		}
		if got != tt.want {
			t.Errorf("Match(%v) = %v, want %v", tt.rec, got, tt.want)
		}
	}
}

func TestMatchCaseInsensitiveHeader(t *testing.T) {
	e, err := Compile("AGE > 10", []string{"Age"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ok, err := e.Match([]string{"11"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !ok {
		t.Fatal("Match = false, want true")
	}
}

func TestMatchBracketName(t *testing.T) {
	e, err := Compile("[Listening Time] > 30", []string{"Listening Time"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ok, err := e.Match([]string{"42"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !ok {
		t.Fatal("Match = false, want true")
	}
}

func TestMatchShortRecord(t *testing.T) {
	e, err := Compile("b == ''", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ok, err := e.Match([]string{"only-a"})
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !ok {
		t.Fatal("missing cell should compare equal to empty string")
	}
}

func TestMatchNonBoolean(t *testing.T) {
	e, err := Compile("age + 1", []string{"age"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := e.Match([]string{"2"}); err == nil {
		t.Fatal("expected error for non-boolean result")
	}
}
