package utf7

import "testing"

func TestEncode(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"", ""},
		{"INBOX", "INBOX"},
		{"a b", "a b"},
		{"&", "&-"},
		{"a&b&c", "a&-b&-c"},
		{"café", "caf&AOk-"},
		{"boîte", "bo&AO4-te"},
		{"ÿÿÿ", "&AP8A,wD,-"},
		{"mail/日本語", "mail/&ZeVnLIqe-"},
		{"\U0001F4E7", "&2D3c5w-"},
	}
	for _, test := range tests {
		if got := Encode(test.in); got != test.out {
			t.Errorf("Encode(%q) = %q, want %q", test.in, got, test.out)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		in  string
		out string
		ok  bool
	}{
		{"", "", true},
		{"abc", "abc", true},
		{"&-abc", "&abc", true},
		{"abc&-", "abc&", true},
		{"a&-b&-c", "a&b&c", true},
		{"&AOk-", "é", true},
		{"caf&AOk-", "café", true},
		{"ABk-", "ABk-", true},
		{"&-,&-&AP8-&-", "&,&ÿ&", true},
		{"abc &- &AP8A,wD,- &- xyz", "abc & ÿÿÿ & xyz", true},
		{"&2D3c5w-", "\U0001F4E7", true},

		// Raw control or non-ASCII bytes
		{"\x00", "", false},
		{"\x1F", "", false},
		{"café", "", false},

		// Unfinished shift
		{"&", "", false},
		{"&AOk", "", false},

		// Bad base64 and odd-sized UTF-16 data
		{"&:-", "", false},
		{"&AO-", "", false},

		// Shift sequence for characters that did not need it
		{"&AGE-", "", false},
	}
	for _, test := range tests {
		got, err := Decode(test.in)
		if test.ok != (err == nil) {
			t.Errorf("Decode(%q): err = %v, want ok = %v", test.in, err, test.ok)
			continue
		}
		if err == nil && got != test.out {
			t.Errorf("Decode(%q) = %q, want %q", test.in, got, test.out)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"INBOX",
		"Entwürfe",
		"日本語/2026",
		"A & B",
		"~peter/mail/台北/日本語",
	}
	for _, input := range inputs {
		enc := Encode(input)
		got, err := Decode(enc)
		if err != nil {
			t.Errorf("Decode(Encode(%q) = %q): %v", input, enc, err)
			continue
		}
		if got != input {
			t.Errorf("round trip %q -> %q -> %q", input, enc, got)
		}
	}
}
