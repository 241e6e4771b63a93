package handler

const (
	errInternalServer    = "Internal server error"
	errUserNotFound      = "User not found"
	errBookNotFound      = "Book not found or not owned by user"
	errEmailTaken        = "Email is already registered"
	errBadCredentials    = "Invalid email or password"
	errSearchUnavailable = "Book search is currently unavailable"
	errQueryRequired     = "Query is required"
	errInvalidStatus     = "Reading status must be one of WantToRead, Reading, Finished"
)
