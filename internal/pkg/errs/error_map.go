/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
// The join/message error texts are part of the wire contract with existing clients and
// must not be reworded.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrUnsupportedEventType: {Code: ErrUnsupportedEventType, Message: "Unsupported event type."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Join and Message Business Logic Errors
	ErrCredentialsRequired:   {Code: ErrCredentialsRequired, Message: "Username and room are required!"},
	ErrUsernameTaken:         {Code: ErrUsernameTaken, Message: "Username is in use!"},
	ErrRoomNotFound:          {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrProfanity:             {Code: ErrProfanity, Message: "Profanity is not allowed!"},

	// 3xxx: Session Errors
	ErrInvalidUser:   {Code: ErrInvalidUser, Message: "Invalid User."},
	ErrAlreadyJoined: {Code: ErrAlreadyJoined, Message: "You have already joined a room."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
