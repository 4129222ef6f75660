package constants

// Username length bounds, checked again after trimming
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Rating bounds
const (
	MinGrade = 1
	MaxGrade = 5
)

// Default comment stored when feedback is submitted without text
const DefaultComment = "No comment"
