package freedb

import (
	"fmt"
	"strings"

	"platter/internal/fault"
)

// Default connection identity values.
const (
	DefaultUser      = "emailname"
	DefaultUserEmail = "emailhost.com"
	DefaultHost      = "platter_instance1"
	DefaultApp       = "platter"
	DefaultVersion   = "0.0.3"
	DefaultProtocol  = "5"
)

// DefaultServers lists the public freedb-compatible endpoints.
var DefaultServers = []string{
	"http://gnudb.gnudb.org/~cddb/cddb.cgi",
	"http://freedb.freedb.org/~cddb/cddb.cgi",
}

// CommandKind selects which command grammar applies.
type CommandKind int

const (
	Query CommandKind = iota + 1
	Read
)

func (k CommandKind) String() string {
	switch k {
	case Query:
		return "query"
	case Read:
		return "read"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// ParseCommandKind accepts "query" or "read".
func ParseCommandKind(value string) (CommandKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "query":
		return Query, nil
	case "read":
		return Read, nil
	default:
		return 0, fault.Invalid("freedb", "command kind", fmt.Sprintf("unknown command kind %q", value))
	}
}

// Identity is the hello/proto part of every command plus the defaults used
// when generating commands for many albums.
//
// Fields are written into the command verbatim, without URL escaping. They
// are meant to hold operator configuration; never put disc metadata in them.
type Identity struct {
	User      string
	UserEmail string
	Host      string
	App       string
	Version   string
	Protocol  string
	Category  Category
	QueryType CommandKind
}

// DefaultIdentity returns the stock identity.
func DefaultIdentity() Identity {
	return Identity{
		User:      DefaultUser,
		UserEmail: DefaultUserEmail,
		Host:      DefaultHost,
		App:       DefaultApp,
		Version:   DefaultVersion,
		Protocol:  DefaultProtocol,
		Category:  Misc,
		QueryType: Query,
	}
}
