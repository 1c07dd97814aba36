package transport

// RegisterRequest is the registration payload. There is no activity field:
// whatever the client sends, accounts are created inactive.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
