package models

// Identity is the verified subject carried by a bearer token.
type Identity struct {
	Username string `json:"username"`
}
