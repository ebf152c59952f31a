package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrTeamNameInvalid  = errors.New("team name must be between 3 and 40 characters")
	ErrJoinCodeInvalid  = errors.New("join code is invalid")
	ErrMissingFields    = errors.New("event id and team id are required")
	ErrApproveFailed    = errors.New("membership is not pending approval")
	ErrEventMismatch    = errors.New("team is registered for a different event")
	ErrTeamSizeInvalid  = errors.New("team size does not satisfy the event bounds")
	ErrMessageBodyEmpty = errors.New("message body must not be empty")

	// Conflicts
	ErrAlreadyInTeam         = errors.New("user already has an active team")
	ErrTeamFull              = errors.New("team is full")
	ErrDuplicateRegistration = errors.New("team is already registered for this event")
	ErrJoinCodeExhausted     = errors.New("could not generate a unique join code")
	ErrEventNameConflict     = errors.New("event name already exists")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrLeaderActionForbidden  = errors.New("only the team leader can perform this action")
	ErrCannotJoinOwnTeam      = errors.New("leader cannot join their own team")
	ErrNotTeamMember          = errors.New("user is not an accepted member of this team")
	ErrOnlyLeaderCanDelete    = errors.New("only the team leader can delete the team")

	// Entity-specific not-found errors
	ErrUserNotFound  = errors.New("user not found")
	ErrTeamNotFound  = errors.New("team not found")
	ErrEventNotFound = errors.New("event not found")
)
