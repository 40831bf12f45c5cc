/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room and Messaging Business Logic Errors
	ErrRoomShapeInvalid:       {Code: ErrRoomShapeInvalid, Message: "Member list does not fit the requested room kind."},
	ErrRoomNotFound:           {Code: ErrRoomNotFound, Message: "Chat room not found.", Status: http.StatusNotFound},
	ErrJoinNotAllowed:         {Code: ErrJoinNotAllowed, Message: "This room cannot be joined.", Status: http.StatusForbidden},
	ErrNotAMember:             {Code: ErrNotAMember, Message: "You are not a member of this room.", Status: http.StatusForbidden},
	ErrInvalidTarget:          {Code: ErrInvalidTarget, Message: "Message target is not a known user or room."},
	ErrMessageContentTooLong:  {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrAttachmentCountInvalid: {Code: ErrAttachmentCountInvalid, Message: "A message can carry at most %d attachments."},
	ErrAttachmentKeyInvalid:   {Code: ErrAttachmentKeyInvalid, Message: "Invalid attachment."},
	ErrAttachmentTypeInvalid:  {Code: ErrAttachmentTypeInvalid, Message: "Attachment type %q is not allowed."},

	// 3xxx: Authentication and Session Errors
	ErrAuthRejected:    {Code: ErrAuthRejected, Message: "Authentication failed. Please sign in again.", Status: http.StatusUnauthorized},
	ErrSessionReplaced: {Code: ErrSessionReplaced, Message: "You were signed in on another device."},
	ErrUnauthorized:    {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrForbidden:       {Code: ErrForbidden, Message: "You do not have access to this resource.", Status: http.StatusForbidden},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrInfrastructure:    {Code: ErrInfrastructure, Message: "Service temporarily unavailable. Please try again.", Status: http.StatusServiceUnavailable},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},
}
