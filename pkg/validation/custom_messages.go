package validation

// CustomMessage returns hand-written messages for a struct field, keyed by
// validator tag. Fields without an entry fall back to DefaultMessage.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Username": {
			"required": "username is required",
			"min":      "username must be at least 3 characters",
			"max":      "username must be at most 50 characters",
		},
		"Email": {
			"required": "email is required",
			"email":    "email is not a valid address",
		},
		"Password": {
			"required": "password is required",
			"min":      "password must be at least 8 characters",
			"max":      "password must be at most 72 characters",
		},
		"Grade": {
			"required": "grade is required",
			"min":      "grade must be between 1 and 5",
			"max":      "grade must be between 1 and 5",
		},
		"RefreshToken": {
			"required": "refresh_token is required",
		},
	}
	return customValidationMessages[field]
}
