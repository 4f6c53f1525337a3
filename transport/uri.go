package transport

import (
	"regexp"
	"strings"
)

// SocketRole is the tagged variant captured in a socket URI's options
// qualifier: one of the reader roles {Sub, Router, Rep} or writer roles
// {Pub, Dealer, Req}.
type SocketRole int

const (
	RoleNone SocketRole = iota
	RoleSub
	RoleRouter
	RoleRep
	RolePub
	RoleDealer
	RoleReq
)

func (r SocketRole) String() string {
	switch r {
	case RoleSub:
		return "sub"
	case RoleRouter:
		return "router"
	case RoleRep:
		return "rep"
	case RolePub:
		return "pub"
	case RoleDealer:
		return "dealer"
	case RoleReq:
		return "req"
	default:
		return ""
	}
}

// IsReader reports whether the role is one of the three reader roles.
func (r SocketRole) IsReader() bool {
	return r == RoleSub || r == RoleRouter || r == RoleRep
}

// IsWriter reports whether the role is one of the three writer roles.
func (r SocketRole) IsWriter() bool {
	return r == RolePub || r == RoleDealer || r == RoleReq
}

var roleFromWord = map[string]SocketRole{
	"sub":    RoleSub,
	"router": RoleRouter,
	"rep":    RoleRep,
	"pub":    RolePub,
	"dealer": RoleDealer,
	"req":    RoleReq,
}

// URI is the immutable-after-parsing descriptor produced by ParseURI.
//
// Invariant: Source != nil implies Role.IsWriter(). Bind != nil iff Role != RoleNone.
type URI struct {
	Endpoint string
	Role     SocketRole
	Bind     *bool
	Source   *string
}

// socketURIPattern mirrors the original grammar's capture groups exactly,
// including its quirk of stopping the endpoint capture at the first colon
// after the scheme (so "tcp://host:5555" splits into endpoint "tcp://host"
// and a ":5555" tail) — this is load-bearing: it is what makes ParseURI's
// treatment of "sub+bind:tcp://h:1234" (spec scenario 6) come out right.
var (
	socketURIPattern     = regexp.MustCompile(`^([a-z]+\+[a-z]+:)?((?:tcp|ipc)://[^:]+)(:.+)?$`)
	socketOptionsPattern = regexp.MustCompile(`^(pub|sub|req|rep|dealer|router)\+(bind|connect)$`)
)

// ParseURI parses a string matching the grammar
//
//	[role+direction:]scheme://endpoint[:source]
//
// into a URI descriptor. See spec §4.A / §6 for the full grammar and
// invariants.
func ParseURI(uri string) (*URI, error) {
	m := socketURIPattern.FindStringSubmatch(uri)
	if m == nil {
		return nil, &InvalidUriError{URI: uri, Reason: "does not match the socket uri grammar"}
	}

	optionsRaw, endpoint, tailRaw := m[1], m[2], m[3]

	var (
		role SocketRole
		bind *bool
	)
	if optionsRaw != "" {
		options := strings.TrimSuffix(optionsRaw, ":")
		om := socketOptionsPattern.FindStringSubmatch(options)
		if om == nil {
			return nil, &InvalidUriError{URI: uri, Reason: "unknown role or direction in " + options}
		}
		role = roleFromWord[om[1]]
		b := om[2] == "bind"
		bind = &b
	}

	var source *string
	if tailRaw != "" {
		if !role.IsWriter() {
			return nil, &InvalidUriError{URI: uri, Reason: "source specification is not allowed for reader sockets"}
		}
		s := strings.TrimPrefix(tailRaw, ":")
		source = &s
	}

	return &URI{Endpoint: endpoint, Role: role, Bind: bind, Source: source}, nil
}

// String renders the canonical textual form of the descriptor such that
// ParseURI(desc.String()) reproduces an equal descriptor (the round-trip
// law from spec §8).
func (u *URI) String() string {
	var sb strings.Builder
	if u.Role != RoleNone && u.Bind != nil {
		sb.WriteString(u.Role.String())
		sb.WriteByte('+')
		if *u.Bind {
			sb.WriteString("bind")
		} else {
			sb.WriteString("connect")
		}
		sb.WriteByte(':')
	}
	sb.WriteString(u.Endpoint)
	if u.Source != nil {
		sb.WriteByte(':')
		sb.WriteString(*u.Source)
	}
	return sb.String()
}

// IsIPC reports whether the endpoint uses the ipc:// transport.
func (u *URI) IsIPC() bool { return strings.HasPrefix(u.Endpoint, "ipc://") }
