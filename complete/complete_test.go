package complete

import (
	"reflect"
	"testing"
)

func TestSinkAddOrdersCaseInsensitive(t *testing.T) {
	var s Sink
	s.Add("banana")
	s.Add("Apple")
	s.Add("cherry")
	s.Add("apple") // duplicate (different case), not deduped

	want := []string{"Apple", "apple", "banana", "cherry"}
	if got := s.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestExtractWord(t *testing.T) {
	tests := []struct {
		line      string
		cursor    int
		word      string
		start     int
		end       int
	}{
		{"ls -la /var/lo", 14, "/var/lo", 7, 14},
		{"echo hello", 4, "echo", 0, 4},
		{"a b c", 5, "c", 4, 5},
		{"", 0, "", 0, 0},
		{"trailing ", 9, "", 9, 9},
	}
	for _, tt := range tests {
		word, start, end := ExtractWord(tt.line, tt.cursor)
		if word != tt.word || start != tt.start || end != tt.end {
			t.Errorf("ExtractWord(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
				tt.line, tt.cursor, word, start, end, tt.word, tt.start, tt.end)
		}
	}
}

func TestLongestCommonPrefix(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"alpha"}, "alpha"},
		{[]string{"alpha", "album"}, "al"},
		{[]string{"alpha", "beta"}, ""},
		{[]string{"foo.txt", "foo.tar", "foo.tgz"}, "foo.t"},
	}
	for _, tt := range tests {
		if got := LongestCommonPrefix(tt.in); got != tt.want {
			t.Errorf("LongestCommonPrefix(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColumns(t *testing.T) {
	if got := Columns(80, 10); got != 6 {
		t.Errorf("Columns(80, 10) = %d, want 6", got)
	}
	if got := Columns(80, 0); got != 1 {
		t.Errorf("Columns(80, 0) = %d, want 1", got)
	}
}

func TestApplyListModeSingleCandidate(t *testing.T) {
	res := ApplyListMode("fo", []string{"foo"}, ' ')
	if res.Insert != "o" {
		t.Errorf("Insert = %q, want %q", res.Insert, "o")
	}
	if res.Beep {
		t.Error("Beep should be false, prefix extends the word")
	}
	if res.ShowGrid {
		t.Error("ShowGrid should be false for a single candidate")
	}
	if res.AppendChar != ' ' {
		t.Errorf("AppendChar = %q, want ' '", res.AppendChar)
	}
}

func TestApplyListModeMultipleCandidatesBeepsOnNoProgress(t *testing.T) {
	res := ApplyListMode("foo", []string{"foo.txt", "foobar"}, ' ')
	if res.Insert != "" {
		t.Errorf("Insert = %q, want empty (no common suffix beyond word)", res.Insert)
	}
	if !res.Beep {
		t.Error("Beep should be true when the prefix adds nothing")
	}
	if !res.ShowGrid {
		t.Error("ShowGrid should be true for 2+ candidates")
	}
}

func TestApplyListModeNoCandidatesBeeps(t *testing.T) {
	res := ApplyListMode("zz", nil, ' ')
	if !res.Beep {
		t.Error("Beep should be true with no candidates")
	}
	if res.ShowGrid {
		t.Error("ShowGrid should be false with no candidates")
	}
}

func TestRotationAdvanceWraps(t *testing.T) {
	r := NewRotation([]string{"one", "two"}, "orig")
	if r.Empty() {
		t.Fatal("Empty() should be false with candidates")
	}
	if got := r.Current(); got != "one" {
		t.Errorf("Current() = %q, want %q", got, "one")
	}
	text, wrapped := r.Advance()
	if text != "two" || wrapped {
		t.Errorf("Advance() = (%q, %v), want (\"two\", false)", text, wrapped)
	}
	text, wrapped = r.Advance()
	if text != "orig" || !wrapped {
		t.Errorf("Advance() wrap = (%q, %v), want (\"orig\", true)", text, wrapped)
	}
}

func TestRotationAbortRestoresOriginal(t *testing.T) {
	r := NewRotation([]string{"one", "two"}, "orig")
	r.Advance()
	if got := r.Abort(); got != "orig" {
		t.Errorf("Abort() = %q, want %q", got, "orig")
	}
}

func TestFormatGridAppliesDisplayFilter(t *testing.T) {
	candidates := []string{"/etc/passwd", "/etc/profile"}
	filter := func(c string) (string, bool) {
		for i := len(c) - 1; i >= 0; i-- {
			if c[i] == '/' {
				return c[i+1:], true
			}
		}
		return c, false
	}
	rows := FormatGrid(candidates, 80, filter)
	if len(rows) == 0 {
		t.Fatal("expected at least one row")
	}
	for _, row := range rows {
		if len(row) > 0 && row[0] == '/' {
			t.Errorf("row %q still shows full path, display filter not applied", row)
		}
	}
}
