package chttp

// Authenticator configures a Client to authenticate its requests.
type Authenticator interface {
	Authenticate(*Client) error
}
