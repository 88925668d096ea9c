package imap

import "strings"

// BodyStructure describes the MIME structure of a message as reported by the
// BODYSTRUCTURE (or BODY) fetch attribute.
//
// A part is multipart if and only if Type is "multipart"; then Parts is
// non-empty and the single-part media fields (ID, Description, Encoding,
// Size, Lines, Envelope) are unused. Params of a multipart part holds the
// parameters from its extension data, e.g. "boundary".
type BodyStructure struct {
	Type    string
	Subtype string
	Params  map[string]string

	ID          string
	Description string
	Encoding    string
	Size        uint32
	// Lines is set for text and message/rfc822 parts.
	Lines int64

	// Extension data, if the server sent any.
	MD5         string
	Disposition *BodyDisposition
	Language    []string
	Location    string

	// Envelope is set for message/rfc822 parts.
	Envelope *Envelope

	// Parts are the children of a multipart part.
	Parts []*BodyStructure
}

// Multipart reports whether the part is a multipart container.
func (bs *BodyStructure) Multipart() bool {
	return strings.EqualFold(bs.Type, "multipart")
}

// MediaType returns the full "type/subtype" media type, lowercased.
func (bs *BodyStructure) MediaType() string {
	return strings.ToLower(bs.Type) + "/" + strings.ToLower(bs.Subtype)
}

// Walk calls f for each part of the structure in depth-first order, starting
// with bs itself. The path identifies the part the way BODY[...] section
// numbers do; it is nil for the root. Walk stops early if f returns false.
func (bs *BodyStructure) Walk(f func(path []int, part *BodyStructure) (cont bool)) {
	bs.walk(f, nil)
}

func (bs *BodyStructure) walk(f func([]int, *BodyStructure) bool, path []int) bool {
	if !f(path, bs) {
		return false
	}
	for i, child := range bs.Parts {
		childPath := append(path[:len(path):len(path)], i+1)
		if !child.walk(f, childPath) {
			return false
		}
	}
	return true
}

// BodyDisposition is the Content-Disposition of a part.
type BodyDisposition struct {
	Value  string
	Params map[string]string
}
