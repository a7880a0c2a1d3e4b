/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that an inbound frame was not valid JSON.
	ErrInvalidJSONFormat = 1002

	// ErrUnsupportedEventType indicates that an inbound frame carried an unknown event type.
	ErrUnsupportedEventType = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1004
)

// 2xxx: Join and Message Business Logic Errors
const (
	// ErrCredentialsRequired indicates an empty or whitespace-only username or room at join time.
	ErrCredentialsRequired = 2101

	// ErrUsernameTaken indicates the requested username is already registered in the target room.
	ErrUsernameTaken = 2102

	// ErrRoomNotFound indicates that the requested room has no registered members.
	ErrRoomNotFound = 2103

	// ErrMessageContentTooLong indicates that message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrProfanity indicates that message content failed the profanity predicate.
	ErrProfanity = 2202
)

// 3xxx: Session Errors
const (
	// ErrInvalidUser indicates a message event from a connection with no registry entry.
	ErrInvalidUser = 3001

	// ErrAlreadyJoined indicates a join event from a connection that is already registered in a room.
	ErrAlreadyJoined = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
