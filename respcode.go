package imap

import "strings"

// Response code names in normalized form: lowercase, with "-" replaced by
// "_". Unrecognized codes are normalized the same way.
const (
	CodeAlert                = "alert"
	CodeAlreadyExists        = "alreadyexists"
	CodeAuthenticationFailed = "authenticationfailed"
	CodeAuthorizationFailed  = "authorizationfailed"
	CodeCannot               = "cannot"
	CodeClientBug            = "clientbug"
	CodeClosed               = "closed"
	CodeContactAdmin         = "contactadmin"
	CodeCorruption           = "corruption"
	CodeExpired              = "expired"
	CodeExpungeIssued        = "expungeissued"
	CodeHasChildren          = "haschildren"
	CodeInUse                = "inuse"
	CodeLimit                = "limit"
	CodeNonExistent          = "nonexistent"
	CodeNoPerm               = "noperm"
	CodeNotSaved             = "notsaved"
	CodeOverQuota            = "overquota"
	CodeParse                = "parse"
	CodePrivacyRequired      = "privacyrequired"
	CodeReadOnly             = "read_only"
	CodeReadWrite            = "read_write"
	CodeServerBug            = "serverbug"
	CodeTryCreate            = "trycreate"
	CodeUnavailable          = "unavailable"
	CodeUIDNotSticky         = "uidnotsticky"
	CodeUnknownCTE           = "unknown_cte"

	CodeCapability     = "capability"
	CodePermanentFlags = "permanentflags"
	CodeUIDNext        = "uidnext"
	CodeUIDValidity    = "uidvalidity"
	CodeAppendUID      = "appenduid"
	CodeCopyUID        = "copyuid"
)

// NormalizeCode normalizes a resp-text-code name: lowercased, "-" mapped to
// "_".
func NormalizeCode(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// RespCode is the bracketed response code of a status response, e.g. the
// "[READ-WRITE]" in "A0002 OK [READ-WRITE] SELECT completed".
//
// Name identifies the code; the payload fields are populated depending on
// Name, all others are left zero.
type RespCode struct {
	Name string

	// Caps is set for "capability".
	Caps []string
	// Flags is set for "permanentflags".
	Flags []Flag
	// Num is set for "uidnext" and "uidvalidity".
	Num uint32
	// AppendUID is set for "appenduid".
	AppendUID *AppendData
	// CopyUID is set for "copyuid".
	CopyUID *CopyData
	// Arg carries the raw remainder of an unrecognized code, or "" if the
	// code had no arguments.
	Arg string
}

// AppendData is the payload of an APPENDUID response code (RFC 9051 section
// 7.1: UIDPLUS data carried over into IMAP4rev2).
type AppendData struct {
	UIDValidity uint32
	UID         uint64
}

// CopyData is the payload of a COPYUID response code. The UID sets keep
// their wire string representation, e.g. "304,319:320".
type CopyData struct {
	UIDValidity uint32
	SrcUIDs     string
	DstUIDs     string
}
