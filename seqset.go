package imap

import (
	"fmt"
	"strconv"
	"strings"
)

// SeqRange is a single seq-number or seq-range. A seq-number has Start ==
// Stop. The value 0 stands for "*", the highest number in the mailbox: the
// range "n:*" has Start = n and Stop = 0, and "*" alone has Start = Stop =
// 0. Otherwise Start <= Stop.
type SeqRange struct {
	Start, Stop uint32
}

// SeqSet is a set of message sequence numbers or UIDs, e.g. "1:3,5,7:*".
//
// Ranges parsed from the wire are not merged, so that formatting a parsed
// set reproduces the input, except that an inverted range such as "5:1" is
// normalized to "1:5".
type SeqSet []SeqRange

// SeqSetNum returns a set containing the given numbers.
func SeqSetNum(nums ...uint32) SeqSet {
	var s SeqSet
	for _, n := range nums {
		s.AddNum(n)
	}
	return s
}

// SeqSetRange returns a set containing the single range start:stop.
func SeqSetRange(start, stop uint32) SeqSet {
	var s SeqSet
	s.AddRange(start, stop)
	return s
}

// ParseSeqSet parses a sequence set in wire form.
func ParseSeqSet(s string) (SeqSet, error) {
	if s == "" {
		return nil, fmt.Errorf("imap: empty sequence set")
	}
	var set SeqSet
	for _, part := range strings.Split(s, ",") {
		r, err := parseSeqRange(part)
		if err != nil {
			return nil, err
		}
		set = append(set, r)
	}
	return set, nil
}

func parseSeqRange(s string) (SeqRange, error) {
	var r SeqRange
	var err error
	if sep := strings.IndexByte(s, ':'); sep < 0 {
		r.Start, err = parseSeqNum(s)
		r.Stop = r.Start
		return r, err
	} else if r.Start, err = parseSeqNum(s[:sep]); err == nil {
		if r.Stop, err = parseSeqNum(s[sep+1:]); err == nil {
			if (r.Stop < r.Start && r.Stop != 0) || r.Start == 0 {
				r.Start, r.Stop = r.Stop, r.Start
			}
			return r, nil
		}
	}
	return r, fmt.Errorf("imap: bad sequence set value %q", s)
}

// parseSeqNum parses a single seq-number: a non-zero uint32 or "*".
func parseSeqNum(s string) (uint32, error) {
	if s == "*" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 || s[0] == '0' {
		return 0, fmt.Errorf("imap: bad sequence number %q", s)
	}
	return uint32(n), nil
}

// AddNum adds the number n to the set. n may be 0 to add "*".
func (s *SeqSet) AddNum(n uint32) {
	s.AddRange(n, n)
}

// AddRange adds the range start:stop to the set. Contiguous or overlapping
// additions are merged into the preceding range.
func (s *SeqSet) AddRange(start, stop uint32) {
	if (stop < start && stop != 0) || start == 0 {
		start, stop = stop, start
	}
	r := SeqRange{start, stop}
	if n := len(*s); n > 0 {
		if merged, ok := (*s)[n-1].merge(r); ok {
			(*s)[n-1] = merged
			return
		}
	}
	*s = append(*s, r)
}

// Contains reports whether the number q is a member of the set. q == 0
// stands for "*" and is contained only in ranges reaching "*".
func (s SeqSet) Contains(q uint32) bool {
	for _, r := range s {
		if r.Contains(q) {
			return true
		}
	}
	return false
}

// Dynamic reports whether the set contains "*" in any form, making its
// meaning depend on the current size of the mailbox.
func (s SeqSet) Dynamic() bool {
	for _, r := range s {
		if r.Stop == 0 {
			return true
		}
	}
	return false
}

// String formats the set in wire form.
func (s SeqSet) String() string {
	var sb strings.Builder
	for i, r := range s {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}

// Contains reports whether q is within the range. The dynamic range "n:*"
// contains "*" (q == 0) and every number >= n.
func (r SeqRange) Contains(q uint32) bool {
	if q == 0 {
		return r.Stop == 0
	}
	return r.Start != 0 && r.Start <= q && (q <= r.Stop || r.Stop == 0)
}

// merge unions r with t when the two intersect or touch; ok is false when
// they cannot be combined into one range.
func (r SeqRange) merge(t SeqRange) (union SeqRange, ok bool) {
	if r == t {
		return r, true
	}
	if r.Start != 0 && t.Start != 0 {
		if r.Start > t.Start {
			r, t = t, r
		}
		if (r.Stop >= t.Stop && t.Stop != 0) || r.Stop == 0 {
			return r, true
		}
		if r.Stop+1 >= t.Start || r.Stop == ^uint32(0) {
			return SeqRange{r.Start, t.Stop}, true
		}
		return r, false
	}
	// one of the two is "*"
	if r.Start == 0 {
		r, t = t, r
	}
	if r.Stop == 0 {
		return r, true
	}
	return r, false
}

// String formats the range in wire form.
func (r SeqRange) String() string {
	if r.Start == r.Stop {
		if r.Start == 0 {
			return "*"
		}
		return strconv.FormatUint(uint64(r.Start), 10)
	}
	start := strconv.FormatUint(uint64(r.Start), 10)
	if r.Stop == 0 {
		return start + ":*"
	}
	return start + ":" + strconv.FormatUint(uint64(r.Stop), 10)
}
