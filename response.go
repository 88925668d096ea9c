package imap

// Response is a single complete server response: tagged, untagged or a
// continuation request.
type Response interface {
	response()
}

// TaggedResponse is the final response of a command. It carries the tag of
// the command it completes, an OK/NO/BAD status, an optional response code
// and human-readable text.
type TaggedResponse struct {
	Tag    string
	Status StatusType
	Code   *RespCode
	Text   string
}

func (*TaggedResponse) response() {}

// ContinuationRequest is a "+" response: the server invites the client to
// send more data (a literal body or a SASL response).
//
// If the trailing content is a single base64 atom it is recorded in Base64,
// otherwise the content is free-form Text.
type ContinuationRequest struct {
	Text   string
	Base64 string
}

func (*ContinuationRequest) response() {}

// UntaggedResponse is a server response beginning with "*".
type UntaggedResponse interface {
	Response
	untagged()
}

// UntaggedCapability is an untagged CAPABILITY response.
type UntaggedCapability []string

// UntaggedExists reports the number of messages in the selected mailbox.
type UntaggedExists uint32

// UntaggedExpunge reports the permanent removal of the message with the
// carried sequence number.
type UntaggedExpunge uint32

// UntaggedFlags reports the flags applicable in the selected mailbox.
type UntaggedFlags []Flag

// UntaggedList is a single LIST reply line.
type UntaggedList ListData

// UntaggedStatus is a STATUS reply.
type UntaggedStatus StatusData

// UntaggedESearch is an extended search (ESEARCH) reply.
type UntaggedESearch ESearchData

// UntaggedFetch is a single FETCH reply line.
type UntaggedFetch FetchData

// UntaggedBye announces that the server is about to close the connection.
type UntaggedBye struct {
	Text string
}

// UntaggedCond is an untagged OK, NO or BAD response.
type UntaggedCond struct {
	Status StatusType
	Code   *RespCode
	Text   string
}

// UntaggedPreAuth is the PREAUTH greeting: the connection starts out
// authenticated.
type UntaggedPreAuth struct {
	Code *RespCode
	Text string
}

// UntaggedEnabled lists the capabilities enabled by an ENABLE command.
type UntaggedEnabled []string

// UntaggedUnknown carries a response this library does not recognize. Tokens
// holds the stringified tokens of the line after the "*".
type UntaggedUnknown struct {
	Tokens []string
}

func (UntaggedCapability) response() {}
func (UntaggedCapability) untagged() {}
func (UntaggedExists) response()     {}
func (UntaggedExists) untagged()     {}
func (UntaggedExpunge) response()    {}
func (UntaggedExpunge) untagged()    {}
func (UntaggedFlags) response()      {}
func (UntaggedFlags) untagged()      {}
func (*UntaggedList) response()      {}
func (*UntaggedList) untagged()      {}
func (*UntaggedStatus) response()    {}
func (*UntaggedStatus) untagged()    {}
func (*UntaggedESearch) response()   {}
func (*UntaggedESearch) untagged()   {}
func (*UntaggedFetch) response()     {}
func (*UntaggedFetch) untagged()     {}
func (*UntaggedBye) response()       {}
func (*UntaggedBye) untagged()       {}
func (*UntaggedCond) response()      {}
func (*UntaggedCond) untagged()      {}
func (*UntaggedPreAuth) response()   {}
func (*UntaggedPreAuth) untagged()   {}
func (UntaggedEnabled) response()    {}
func (UntaggedEnabled) untagged()    {}
func (*UntaggedUnknown) response()   {}
func (*UntaggedUnknown) untagged()   {}
