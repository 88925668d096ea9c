package wire

import (
	"fmt"
	"mime"
	"strings"

	"github.com/emersion/go-message/charset"

	"github.com/tidemail/imap"
)

// maxBodyStructureDepth bounds the nesting of multipart body structures.
const maxBodyStructureDepth = 64

var wordDecoder = mime.WordDecoder{CharsetReader: charset.Reader}

// decodeWords decodes RFC 2047 encoded-words in s. On decoding failure the
// raw input is returned.
func decodeWords(s string) string {
	out, err := wordDecoder.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}

// Parse turns the tokens of one complete response line into a typed
// response.
func Parse(toks []Token) (imap.Response, error) {
	if len(toks) > 0 && toks[len(toks)-1].Kind == TokenCRLF {
		toks = toks[:len(toks)-1]
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("wire: empty response line")
	}

	p := &parser{toks: toks}
	switch toks[0].Kind {
	case TokenPlus:
		p.next()
		return p.continuation()
	case TokenStar:
		p.next()
		return p.untagged()
	case TokenAtom:
		return p.tagged()
	default:
		return nil, fmt.Errorf("wire: response starts with %q", toks[0])
	}
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) more() bool {
	return p.pos < len(p.toks)
}

func (p *parser) peek() (Token, bool) {
	if !p.more() {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) accept(kind TokenKind) (Token, bool) {
	tok, ok := p.peek()
	if !ok || tok.Kind != kind {
		return Token{}, false
	}
	p.pos++
	return tok, true
}

func (p *parser) expect(kind TokenKind, name string) (Token, error) {
	tok, ok := p.accept(kind)
	if !ok {
		if got, gotOK := p.peek(); gotOK {
			return Token{}, fmt.Errorf("expected %v, got %q", name, got)
		}
		return Token{}, fmt.Errorf("expected %v at end of line", name)
	}
	return tok, nil
}

// joinRemaining renders every remaining token, separated by single spaces.
func (p *parser) joinRemaining() string {
	var parts []string
	for p.more() {
		tok, _ := p.next()
		parts = append(parts, tok.String())
	}
	return strings.Join(parts, " ")
}

func (p *parser) continuation() (imap.Response, error) {
	if tok, ok := p.peek(); ok && tok.Kind == TokenAtom && p.pos == len(p.toks)-1 && isBase64(tok.Str) {
		return &imap.ContinuationRequest{Base64: tok.Str}, nil
	}
	return &imap.ContinuationRequest{Text: p.joinRemaining()}, nil
}

func isBase64(s string) bool {
	if s == "" {
		return false
	}
	pad := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '=':
			pad = true
		case pad:
			return false
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '+', ch == '/':
		default:
			return false
		}
	}
	return true
}

func (p *parser) tagged() (imap.Response, error) {
	tag, _ := p.next()
	status, err := p.status()
	if err != nil {
		return nil, fmt.Errorf("in response-tagged: %v", err)
	}
	code, text, err := p.respText()
	if err != nil {
		return nil, fmt.Errorf("in resp-text: %v", err)
	}
	return &imap.TaggedResponse{Tag: tag.Str, Status: status, Code: code, Text: text}, nil
}

func (p *parser) status() (imap.StatusType, error) {
	tok, err := p.expect(TokenAtom, "status condition")
	if err != nil {
		return "", err
	}
	switch strings.ToUpper(tok.Str) {
	case "OK":
		return imap.StatusOK, nil
	case "NO":
		return imap.StatusNo, nil
	case "BAD":
		return imap.StatusBad, nil
	default:
		return "", fmt.Errorf("expected OK, NO or BAD, got %q", tok.Str)
	}
}

// respText parses "[code] text".
func (p *parser) respText() (*imap.RespCode, string, error) {
	var code *imap.RespCode
	if _, ok := p.accept(TokenLBracket); ok {
		var err error
		code, err = p.respTextCode()
		if err != nil {
			return nil, "", err
		}
		if _, err := p.expect(TokenRBracket, "']'"); err != nil {
			return nil, "", err
		}
	}
	return code, p.joinRemaining(), nil
}

func (p *parser) respTextCode() (*imap.RespCode, error) {
	tok, err := p.expect(TokenAtom, "resp-text-code name")
	if err != nil {
		return nil, err
	}
	code := &imap.RespCode{Name: imap.NormalizeCode(tok.Str)}
	switch code.Name {
	case imap.CodeCapability:
		for {
			tok, ok := p.peek()
			if !ok || tok.Kind == TokenRBracket {
				break
			}
			p.next()
			code.Caps = append(code.Caps, tok.String())
		}
	case imap.CodePermanentFlags:
		flags, err := p.flagList()
		if err != nil {
			return nil, err
		}
		code.Flags = flags
	case imap.CodeUIDNext, imap.CodeUIDValidity:
		num, err := p.expect(TokenNumber, "number")
		if err != nil {
			return nil, err
		}
		code.Num = uint32(num.Num)
	case imap.CodeAppendUID:
		validity, err := p.expect(TokenNumber, "uidvalidity")
		if err != nil {
			return nil, err
		}
		uid, err := p.expect(TokenNumber, "uid")
		if err != nil {
			return nil, err
		}
		code.AppendUID = &imap.AppendData{UIDValidity: uint32(validity.Num), UID: uid.Num}
	case imap.CodeCopyUID:
		validity, err := p.expect(TokenNumber, "uidvalidity")
		if err != nil {
			return nil, err
		}
		src, err := p.uidSet()
		if err != nil {
			return nil, err
		}
		dst, err := p.uidSet()
		if err != nil {
			return nil, err
		}
		code.CopyUID = &imap.CopyData{UIDValidity: uint32(validity.Num), SrcUIDs: src, DstUIDs: dst}
	default:
		var parts []string
		for {
			tok, ok := p.peek()
			if !ok || tok.Kind == TokenRBracket {
				break
			}
			p.next()
			parts = append(parts, tok.String())
		}
		code.Arg = strings.Join(parts, " ")
	}
	return code, nil
}

// uidSet collects a uid-set such as "304,319:320". At the token level the
// set appears as a number followed by atoms beginning with "," or ":",
// because those bytes open a fresh atom after a numeric token.
func (p *parser) uidSet() (string, error) {
	num, err := p.expect(TokenNumber, "uid-set")
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(num.Str)
	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != TokenAtom {
			break
		}
		if tok.Str == "" || (tok.Str[0] != ',' && tok.Str[0] != ':') {
			break
		}
		p.next()
		sb.WriteString(tok.Str)
	}
	return sb.String(), nil
}

func (p *parser) untagged() (imap.Response, error) {
	tok, ok := p.peek()
	if !ok {
		return p.unknown(), nil
	}

	if tok.Kind == TokenNumber {
		p.next()
		num := uint32(tok.Num)
		kw, ok := p.accept(TokenAtom)
		if !ok {
			return p.unknownFromStart(), nil
		}
		switch strings.ToUpper(kw.Str) {
		case "EXISTS":
			return imap.UntaggedExists(num), nil
		case "EXPUNGE":
			return imap.UntaggedExpunge(num), nil
		case "FETCH":
			return p.fetch(num)
		default:
			return p.unknownFromStart(), nil
		}
	}

	if tok.Kind != TokenAtom {
		return p.unknownFromStart(), nil
	}
	p.next()
	switch strings.ToUpper(tok.Str) {
	case "CAPABILITY":
		caps := imap.UntaggedCapability(p.atomStrings())
		return caps, nil
	case "FLAGS":
		flags, err := p.flagList()
		if err != nil {
			return nil, fmt.Errorf("in flag-list: %v", err)
		}
		return imap.UntaggedFlags(flags), nil
	case "LIST":
		return p.list()
	case "STATUS":
		return p.statusData()
	case "ESEARCH":
		return p.esearch()
	case "BYE":
		_, text, err := p.respText()
		if err != nil {
			return nil, fmt.Errorf("in resp-cond-bye: %v", err)
		}
		return &imap.UntaggedBye{Text: text}, nil
	case "OK", "NO", "BAD":
		p.pos-- // re-read the status condition
		status, _ := p.status()
		code, text, err := p.respText()
		if err != nil {
			return nil, fmt.Errorf("in resp-cond-state: %v", err)
		}
		return &imap.UntaggedCond{Status: status, Code: code, Text: text}, nil
	case "PREAUTH":
		code, text, err := p.respText()
		if err != nil {
			return nil, fmt.Errorf("in resp-cond-auth: %v", err)
		}
		return &imap.UntaggedPreAuth{Code: code, Text: text}, nil
	case "ENABLED":
		return imap.UntaggedEnabled(p.atomStrings()), nil
	default:
		return p.unknownFromStart(), nil
	}
}

// unknownFromStart rewinds to just after the "*" and captures the whole
// line.
func (p *parser) unknownFromStart() *imap.UntaggedUnknown {
	p.pos = 1
	return p.unknown()
}

func (p *parser) unknown() *imap.UntaggedUnknown {
	var parts []string
	for p.more() {
		tok, _ := p.next()
		parts = append(parts, tok.String())
	}
	return &imap.UntaggedUnknown{Tokens: parts}
}

func (p *parser) atomStrings() []string {
	var out []string
	for p.more() {
		tok, _ := p.next()
		out = append(out, tok.String())
	}
	return out
}

func (p *parser) flagList() ([]imap.Flag, error) {
	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}
	var flags []imap.Flag
	for {
		tok, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("unterminated flag list")
		}
		switch tok.Kind {
		case TokenRParen:
			return flags, nil
		case TokenFlag:
			flags = append(flags, imap.CanonicalFlag(`\`+tok.Str))
		case TokenAtom:
			flags = append(flags, imap.CanonicalFlag(tok.Str))
		default:
			return nil, fmt.Errorf("unexpected %q in flag list", tok)
		}
	}
}

// astring reads an atom, quoted string, literal or number as a string.
func (p *parser) astring() (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", fmt.Errorf("expected astring at end of line")
	}
	switch tok.Kind {
	case TokenAtom, TokenQuoted, TokenNumber, TokenLiteral:
		return tok.String(), nil
	case TokenNIL:
		return "NIL", nil
	default:
		return "", fmt.Errorf("expected astring, got %q", tok)
	}
}

// nstring reads a quoted string or literal, or NIL for the empty string.
func (p *parser) nstring() (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", fmt.Errorf("expected nstring at end of line")
	}
	switch tok.Kind {
	case TokenNIL:
		return "", nil
	case TokenQuoted, TokenLiteral, TokenAtom:
		return tok.String(), nil
	default:
		return "", fmt.Errorf("expected nstring, got %q", tok)
	}
}

// string_ reads a quoted string or literal.
func (p *parser) string_() (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", fmt.Errorf("expected string at end of line")
	}
	switch tok.Kind {
	case TokenQuoted, TokenLiteral, TokenAtom:
		return tok.String(), nil
	default:
		return "", fmt.Errorf("expected string, got %q", tok)
	}
}

func (p *parser) list() (imap.Response, error) {
	var data imap.ListData

	attrs, err := p.flagList()
	if err != nil {
		return nil, fmt.Errorf("in mbx-list-flags: %v", err)
	}
	data.Attrs = attrs

	tok, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("in list: missing delimiter")
	}
	switch tok.Kind {
	case TokenNIL:
		data.Delim = 0
	case TokenQuoted:
		for _, r := range tok.Str {
			data.Delim = r
			break
		}
	default:
		return nil, fmt.Errorf("in list: bad delimiter %q", tok)
	}

	name, err := p.astring()
	if err != nil {
		return nil, fmt.Errorf("in list: %v", err)
	}
	data.Mailbox = name

	ul := imap.UntaggedList(data)
	return &ul, nil
}

func (p *parser) statusData() (imap.Response, error) {
	var data imap.StatusData

	name, err := p.astring()
	if err != nil {
		return nil, fmt.Errorf("in status: %v", err)
	}
	data.Mailbox = name

	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}
	for {
		tok, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("in status-att-list: unterminated list")
		}
		if tok.Kind == TokenRParen {
			break
		}
		if tok.Kind != TokenAtom {
			return nil, fmt.Errorf("in status-att-list: unexpected %q", tok)
		}
		val, err := p.expect(TokenNumber, "status value")
		if err != nil {
			return nil, fmt.Errorf("in status-att-list: %v", err)
		}
		v := uint32(val.Num)
		switch strings.ToUpper(tok.Str) {
		case "MESSAGES":
			data.NumMessages = &v
		case "RECENT":
			data.Recent = &v
		case "UNSEEN":
			data.Unseen = &v
		case "UIDNEXT":
			data.UIDNext = &v
		case "UIDVALIDITY":
			data.UIDValidity = &v
		}
	}

	us := imap.UntaggedStatus(data)
	return &us, nil
}

func (p *parser) esearch() (imap.Response, error) {
	var data imap.ESearchData

	if _, ok := p.accept(TokenLParen); ok {
		kw, err := p.expect(TokenAtom, "search correlator")
		if err != nil {
			return nil, fmt.Errorf("in esearch: %v", err)
		}
		if !strings.EqualFold(kw.Str, "TAG") {
			return nil, fmt.Errorf("in esearch: expected TAG, got %q", kw.Str)
		}
		tag, err := p.astring()
		if err != nil {
			return nil, fmt.Errorf("in esearch: %v", err)
		}
		data.Tag = tag
		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, fmt.Errorf("in esearch: %v", err)
		}
	}

	if tok, ok := p.peek(); ok && tok.Kind == TokenAtom && strings.EqualFold(tok.Str, "UID") {
		p.next()
		data.UID = true
	}

	for p.more() {
		kw, err := p.expect(TokenAtom, "search return item")
		if err != nil {
			return nil, fmt.Errorf("in esearch: %v", err)
		}
		switch strings.ToUpper(kw.Str) {
		case "MIN":
			num, err := p.expect(TokenNumber, "number")
			if err != nil {
				return nil, fmt.Errorf("in esearch: %v", err)
			}
			data.Min = uint32(num.Num)
		case "MAX":
			num, err := p.expect(TokenNumber, "number")
			if err != nil {
				return nil, fmt.Errorf("in esearch: %v", err)
			}
			data.Max = uint32(num.Num)
		case "COUNT":
			num, err := p.expect(TokenNumber, "number")
			if err != nil {
				return nil, fmt.Errorf("in esearch: %v", err)
			}
			data.Count = uint32(num.Num)
		case "ALL":
			set, err := p.uidSet()
			if err != nil {
				return nil, fmt.Errorf("in esearch: %v", err)
			}
			data.All = set
		default:
			// unknown return item, skip its value
			p.next()
		}
	}

	ue := imap.UntaggedESearch(data)
	return &ue, nil
}

func (p *parser) fetch(seqNum uint32) (imap.Response, error) {
	data := imap.FetchData{SeqNum: seqNum}

	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, fmt.Errorf("in msg-att: %v", err)
	}
	for {
		tok, ok := p.next()
		if !ok {
			return nil, fmt.Errorf("in msg-att: unterminated list")
		}
		if tok.Kind == TokenRParen {
			break
		}
		if tok.Kind != TokenAtom {
			return nil, fmt.Errorf("in msg-att: unexpected %q", tok)
		}
		if err := p.fetchAtt(strings.ToUpper(tok.Str), &data); err != nil {
			return nil, fmt.Errorf("in msg-att: %v", err)
		}
	}

	uf := imap.UntaggedFetch(data)
	return &uf, nil
}

func (p *parser) fetchAtt(key string, data *imap.FetchData) error {
	switch key {
	case "FLAGS":
		flags, err := p.flagList()
		if err != nil {
			return err
		}
		data.Flags = flags
	case "UID":
		num, err := p.expect(TokenNumber, "uid")
		if err != nil {
			return err
		}
		data.UID = num.Num
	case "RFC822.SIZE":
		num, err := p.expect(TokenNumber, "size")
		if err != nil {
			return err
		}
		data.RFC822Size = num.Num
	case "INTERNALDATE":
		tok, err := p.expect(TokenQuoted, "date-time")
		if err != nil {
			return err
		}
		data.InternalDate = tok.Str
	case "ENVELOPE":
		env, err := p.envelope()
		if err != nil {
			return fmt.Errorf("in envelope: %v", err)
		}
		data.Envelope = env
	case "BODYSTRUCTURE":
		bs, err := p.bodyStructure(0)
		if err != nil {
			return fmt.Errorf("in body: %v", err)
		}
		data.BodyStructure = bs
	case "BODY":
		if _, ok := p.accept(TokenLBracket); ok {
			return p.bodySection(data)
		}
		bs, err := p.bodyStructure(0)
		if err != nil {
			return fmt.Errorf("in body: %v", err)
		}
		data.BodyStructure = bs
	default:
		// unknown attribute, skip its value
		p.skipValue()
	}
	return nil
}

// bodySection parses the remainder of a "BODY[section]<partial> value"
// item; the opening bracket has been consumed.
func (p *parser) bodySection(data *imap.FetchData) error {
	key, err := p.sectionKey()
	if err != nil {
		return err
	}

	// partial offset, e.g. "<42>", appended to the section key
	if tok, ok := p.peek(); ok && tok.Kind == TokenAtom && strings.HasPrefix(tok.Str, "<") {
		p.next()
		key += tok.Str
	}

	tok, ok := p.next()
	if !ok {
		return fmt.Errorf("in body-section: missing value")
	}
	var value []byte
	switch tok.Kind {
	case TokenNIL:
		value = nil
	case TokenQuoted:
		value = []byte(tok.Str)
	case TokenLiteral:
		value = tok.Bytes
	default:
		return fmt.Errorf("in body-section: unexpected value %q", tok)
	}

	if data.BodySections == nil {
		data.BodySections = make(map[string][]byte)
	}
	data.BodySections[key] = value
	return nil
}

// sectionKey renders the tokens up to the closing bracket as the section
// key: "" for the whole message, "HEADER", "1.2.MIME", or a form like
// "HEADER.FIELDS (DATE FROM)".
func (p *parser) sectionKey() (string, error) {
	var sb strings.Builder
	depth := 0
	first := true
	for {
		tok, ok := p.peek()
		if !ok {
			return "", fmt.Errorf("in section: missing ']'")
		}
		if tok.Kind == TokenRBracket && depth == 0 {
			p.next()
			return sb.String(), nil
		}
		p.next()
		switch tok.Kind {
		case TokenLParen:
			sb.WriteString(" (")
			depth++
			first = true
		case TokenRParen:
			sb.WriteByte(')')
			depth--
			first = false
		default:
			if depth > 0 && !first {
				sb.WriteByte(' ')
			}
			sb.WriteString(tok.String())
			first = false
		}
	}
}

// skipValue consumes one value: a parenthesized group or a single token.
func (p *parser) skipValue() {
	tok, ok := p.next()
	if !ok {
		return
	}
	if tok.Kind != TokenLParen {
		return
	}
	depth := 1
	for depth > 0 {
		tok, ok := p.next()
		if !ok {
			return
		}
		switch tok.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		}
	}
}

func (p *parser) envelope() (*imap.Envelope, error) {
	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}

	var env imap.Envelope
	var err error
	if env.Date, err = p.nstring(); err != nil {
		return nil, err
	}
	if env.Subject, err = p.nstring(); err != nil {
		return nil, err
	}
	env.Subject = decodeWords(env.Subject)

	addrLists := []*[]imap.Address{&env.From, &env.Sender, &env.ReplyTo, &env.To, &env.Cc, &env.Bcc}
	for _, list := range addrLists {
		if *list, err = p.addressList(); err != nil {
			return nil, err
		}
	}

	if env.InReplyTo, err = p.nstring(); err != nil {
		return nil, err
	}
	if env.MessageID, err = p.nstring(); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}
	return &env, nil
}

func (p *parser) addressList() ([]imap.Address, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	if _, err := p.expect(TokenLParen, "address list"); err != nil {
		return nil, err
	}
	var addrs []imap.Address
	for {
		if _, ok := p.accept(TokenRParen); ok {
			return addrs, nil
		}
		addr, err := p.address()
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
}

func (p *parser) address() (imap.Address, error) {
	var addr imap.Address
	if _, err := p.expect(TokenLParen, "address"); err != nil {
		return addr, err
	}
	var err error
	if addr.Name, err = p.nstring(); err != nil {
		return addr, err
	}
	addr.Name = decodeWords(addr.Name)
	if addr.ADL, err = p.nstring(); err != nil {
		return addr, err
	}
	if addr.Mailbox, err = p.nstring(); err != nil {
		return addr, err
	}
	if addr.Host, err = p.nstring(); err != nil {
		return addr, err
	}
	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return addr, err
	}
	return addr, nil
}

func (p *parser) bodyStructure(depth int) (*imap.BodyStructure, error) {
	if depth > maxBodyStructureDepth {
		return nil, fmt.Errorf("body structure nested deeper than %v", maxBodyStructureDepth)
	}
	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}

	var bs *imap.BodyStructure
	var err error
	if tok, ok := p.peek(); ok && tok.Kind == TokenLParen {
		bs, err = p.bodyTypeMultipart(depth)
	} else {
		bs, err = p.bodyType1part(depth)
	}
	if err != nil {
		return nil, err
	}

	// discard unread extension data
	if err := p.skipGroup(); err != nil {
		return nil, err
	}
	return bs, nil
}

// skipGroup consumes tokens up to and including the ')' closing the group
// the parser is currently inside.
func (p *parser) skipGroup() error {
	depth := 1
	for depth > 0 {
		tok, ok := p.next()
		if !ok {
			return fmt.Errorf("missing ')'")
		}
		switch tok.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		}
	}
	return nil
}

func (p *parser) bodyType1part(depth int) (*imap.BodyStructure, error) {
	bs := &imap.BodyStructure{}

	var err error
	if bs.Type, err = p.string_(); err != nil {
		return nil, err
	}
	if bs.Subtype, err = p.string_(); err != nil {
		return nil, err
	}
	if bs.Params, err = p.paramList(); err != nil {
		return nil, err
	}
	if name, ok := bs.Params["name"]; ok {
		bs.Params["name"] = decodeWords(name)
	}
	if bs.ID, err = p.nstring(); err != nil {
		return nil, err
	}
	if bs.Description, err = p.nstring(); err != nil {
		return nil, err
	}
	bs.Description = decodeWords(bs.Description)
	if bs.Encoding, err = p.string_(); err != nil {
		return nil, err
	}
	size, err := p.expect(TokenNumber, "body-fld-octets")
	if err != nil {
		return nil, err
	}
	bs.Size = uint32(size.Num)

	if strings.EqualFold(bs.Type, "message") &&
		(strings.EqualFold(bs.Subtype, "rfc822") || strings.EqualFold(bs.Subtype, "global")) {
		env, err := p.envelope()
		if err != nil {
			return nil, fmt.Errorf("in envelope: %v", err)
		}
		bs.Envelope = env
		child, err := p.bodyStructure(depth + 1)
		if err != nil {
			return nil, err
		}
		bs.Parts = append(bs.Parts, child)
		lines, err := p.expect(TokenNumber, "body-fld-lines")
		if err != nil {
			return nil, err
		}
		bs.Lines = int64(lines.Num)
	} else if strings.EqualFold(bs.Type, "text") {
		lines, err := p.expect(TokenNumber, "body-fld-lines")
		if err != nil {
			return nil, err
		}
		bs.Lines = int64(lines.Num)
	}

	if err := p.bodyExt1part(bs); err != nil {
		return nil, fmt.Errorf("in body-ext-1part: %v", err)
	}
	return bs, nil
}

// bodyExt1part parses whatever extension fields are present before the
// closing ')': md5, disposition, language, location.
func (p *parser) bodyExt1part(bs *imap.BodyStructure) error {
	if p.atGroupEnd() {
		return nil
	}
	var err error
	if bs.MD5, err = p.nstring(); err != nil {
		return err
	}

	if p.atGroupEnd() {
		return nil
	}
	if bs.Disposition, err = p.disposition(); err != nil {
		return err
	}

	if p.atGroupEnd() {
		return nil
	}
	if bs.Language, err = p.language(); err != nil {
		return err
	}

	if p.atGroupEnd() {
		return nil
	}
	bs.Location, err = p.nstring()
	return err
}

func (p *parser) atGroupEnd() bool {
	tok, ok := p.peek()
	return !ok || tok.Kind == TokenRParen
}

func (p *parser) bodyTypeMultipart(depth int) (*imap.BodyStructure, error) {
	bs := &imap.BodyStructure{Type: "multipart"}

	for {
		tok, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("in body-type-mpart: unterminated part list")
		}
		if tok.Kind != TokenLParen {
			break
		}
		child, err := p.bodyStructure(depth + 1)
		if err != nil {
			return nil, err
		}
		bs.Parts = append(bs.Parts, child)
	}
	if len(bs.Parts) == 0 {
		return nil, fmt.Errorf("in body-type-mpart: no parts")
	}

	var err error
	if bs.Subtype, err = p.string_(); err != nil {
		return nil, err
	}

	if err := p.bodyExtMultipart(bs); err != nil {
		return nil, fmt.Errorf("in body-ext-mpart: %v", err)
	}
	return bs, nil
}

func (p *parser) bodyExtMultipart(bs *imap.BodyStructure) error {
	if p.atGroupEnd() {
		return nil
	}
	var err error
	if bs.Params, err = p.paramList(); err != nil {
		return err
	}

	if p.atGroupEnd() {
		return nil
	}
	if bs.Disposition, err = p.disposition(); err != nil {
		return err
	}

	if p.atGroupEnd() {
		return nil
	}
	if bs.Language, err = p.language(); err != nil {
		return err
	}

	if p.atGroupEnd() {
		return nil
	}
	bs.Location, err = p.nstring()
	return err
}

func (p *parser) disposition() (*imap.BodyDisposition, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	if _, err := p.expect(TokenLParen, "body-fld-dsp"); err != nil {
		return nil, err
	}
	var disp imap.BodyDisposition
	var err error
	if disp.Value, err = p.string_(); err != nil {
		return nil, err
	}
	if disp.Params, err = p.paramList(); err != nil {
		return nil, err
	}
	if filename, ok := disp.Params["filename"]; ok {
		disp.Params["filename"] = decodeWords(filename)
	}
	if _, err := p.expect(TokenRParen, "')'"); err != nil {
		return nil, err
	}
	return &disp, nil
}

func (p *parser) language() ([]string, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	if _, ok := p.accept(TokenLParen); ok {
		var langs []string
		for {
			if _, ok := p.accept(TokenRParen); ok {
				return langs, nil
			}
			s, err := p.string_()
			if err != nil {
				return nil, err
			}
			langs = append(langs, s)
		}
	}
	s, err := p.string_()
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

// paramList parses NIL or "(key value ...)".
func (p *parser) paramList() (map[string]string, error) {
	if _, ok := p.accept(TokenNIL); ok {
		return nil, nil
	}
	if _, err := p.expect(TokenLParen, "parameter list"); err != nil {
		return nil, err
	}
	var params map[string]string
	for {
		if _, ok := p.accept(TokenRParen); ok {
			return params, nil
		}
		k, err := p.string_()
		if err != nil {
			return nil, err
		}
		v, err := p.string_()
		if err != nil {
			return nil, err
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[strings.ToLower(k)] = v
	}
}
