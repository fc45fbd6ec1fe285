package models

// PasswordRecoveryRequest is the JSON body of the recovery form.
type PasswordRecoveryRequest struct {
	Username string `json:"username"`
}

// PasswordChangeResponse is what the change-password view answers: an empty object on
// success, an "error" entry otherwise.
type PasswordChangeResponse struct {
	Error interface{} `json:"error,omitempty"`
}
