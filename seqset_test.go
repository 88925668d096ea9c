package imap

import (
	"reflect"
	"testing"
)

func TestParseSeqSetRoundTrip(t *testing.T) {
	// format(parse(s)) must reproduce s exactly.
	inputs := []string{
		"1",
		"*",
		"1:5",
		"7:*",
		"1:3,5,7:*",
		"4294967295",
		"304,319:320",
	}
	for _, input := range inputs {
		set, err := ParseSeqSet(input)
		if err != nil {
			t.Errorf("ParseSeqSet(%q): %v", input, err)
			continue
		}
		if got := set.String(); got != input {
			t.Errorf("ParseSeqSet(%q).String() = %q", input, got)
		}
	}
}

func TestParseSeqSetInvalid(t *testing.T) {
	inputs := []string{
		"",
		"0",
		"01",
		"1:",
		":5",
		"a",
		"1,,2",
		"4294967296",
	}
	for _, input := range inputs {
		if _, err := ParseSeqSet(input); err == nil {
			t.Errorf("ParseSeqSet(%q) succeeded, want error", input)
		}
	}
}

func TestParseSeqSetInvertedRange(t *testing.T) {
	set, err := ParseSeqSet("5:1")
	if err != nil {
		t.Fatalf("ParseSeqSet: %v", err)
	}
	if !reflect.DeepEqual(set, SeqSet{{Start: 1, Stop: 5}}) {
		t.Errorf("set = %v", set)
	}

	set, err = ParseSeqSet("*:4")
	if err != nil {
		t.Fatalf("ParseSeqSet: %v", err)
	}
	if !reflect.DeepEqual(set, SeqSet{{Start: 4, Stop: 0}}) {
		t.Errorf("set = %v", set)
	}
}

func TestSeqSetAdd(t *testing.T) {
	var s SeqSet
	s.AddNum(1)
	s.AddNum(2)
	s.AddNum(3)
	if got := s.String(); got != "1:3" {
		t.Errorf("contiguous nums = %q, want \"1:3\"", got)
	}

	s = nil
	s.AddNum(5)
	s.AddNum(7)
	if got := s.String(); got != "5,7" {
		t.Errorf("gapped nums = %q, want \"5,7\"", got)
	}

	s = nil
	s.AddRange(1, 10)
	s.AddRange(5, 20)
	if got := s.String(); got != "1:20" {
		t.Errorf("overlap = %q, want \"1:20\"", got)
	}

	s = nil
	s.AddRange(10, 0)
	s.AddNum(15)
	if got := s.String(); got != "10:*" {
		t.Errorf("star absorb = %q, want \"10:*\"", got)
	}
}

func TestSeqSetNumAndRange(t *testing.T) {
	if got := SeqSetNum(4, 2, 9).String(); got != "4,2,9" {
		t.Errorf("SeqSetNum = %q", got)
	}
	if got := SeqSetRange(3, 0).String(); got != "3:*" {
		t.Errorf("SeqSetRange = %q", got)
	}
}

func TestSeqSetContains(t *testing.T) {
	set, err := ParseSeqSet("1:3,5,7:*")
	if err != nil {
		t.Fatalf("ParseSeqSet: %v", err)
	}
	tests := []struct {
		q    uint32
		want bool
	}{
		{1, true},
		{2, true},
		{3, true},
		{4, false},
		{5, true},
		{6, false},
		{7, true},
		{4000000000, true},
		{0, true}, // "*"
	}
	for _, test := range tests {
		if got := set.Contains(test.q); got != test.want {
			t.Errorf("Contains(%v) = %v, want %v", test.q, got, test.want)
		}
	}

	fixed, _ := ParseSeqSet("1:3")
	if fixed.Contains(0) {
		t.Error("1:3 should not contain \"*\"")
	}
}

func TestSeqSetDynamic(t *testing.T) {
	set, _ := ParseSeqSet("1:3,5")
	if set.Dynamic() {
		t.Error("1:3,5 reported dynamic")
	}
	set, _ = ParseSeqSet("1:*")
	if !set.Dynamic() {
		t.Error("1:* not reported dynamic")
	}
	set, _ = ParseSeqSet("*")
	if !set.Dynamic() {
		t.Error("* not reported dynamic")
	}
}
