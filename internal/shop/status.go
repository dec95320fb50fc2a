package shop

import "fmt"

type Status string

const (
	StatusUnauthorized Status = "unauthorized"
	StatusAuthorized   Status = "authorized"
	StatusExpired      Status = "expired"
	StatusRevoked      Status = "revoked"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusUnauthorized, StatusAuthorized, StatusExpired, StatusRevoked:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusUnauthorized: {StatusAuthorized: true},
	StatusAuthorized:   {StatusExpired: true, StatusRevoked: true},
	StatusExpired:      {StatusAuthorized: true, StatusRevoked: true},
	StatusRevoked:      {StatusAuthorized: true}, // seller can re-install
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}
