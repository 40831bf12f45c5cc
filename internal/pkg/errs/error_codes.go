/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in responses sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Room and Messaging Business Logic Errors
const (
	// ErrRoomShapeInvalid indicates that the member set supplied at room creation
	// does not fit the requested room kind (e.g., a private room without exactly two members).
	ErrRoomShapeInvalid = 2101

	// ErrRoomNotFound indicates that the referenced room does not exist.
	ErrRoomNotFound = 2102

	// ErrJoinNotAllowed indicates an attempt to join a room whose kind forbids joining.
	ErrJoinNotAllowed = 2103

	// ErrNotAMember indicates that the sender is not part of the target room's member set.
	ErrNotAMember = 2104

	// ErrInvalidTarget indicates that a message target is neither a valid user id nor a valid room code.
	ErrInvalidTarget = 2201

	// ErrMessageContentTooLong indicates that the message body exceeded the maximum length limit.
	ErrMessageContentTooLong = 2202

	// ErrAttachmentCountInvalid indicates an invalid number of attachments on a message.
	ErrAttachmentCountInvalid = 2203

	// ErrAttachmentKeyInvalid indicates an attachment storage key outside the allowed prefix.
	ErrAttachmentKeyInvalid = 2204

	// ErrAttachmentTypeInvalid indicates an attachment whose file type is not allowed.
	ErrAttachmentTypeInvalid = 2205
)

// 3xxx: Authentication and Session Errors
const (
	// ErrAuthRejected indicates a malformed, expired, or mismatched handshake token.
	// Terminal for that handshake; the client must re-authenticate.
	ErrAuthRejected = 3001

	// ErrSessionReplaced indicates that the connection was superseded by a newer
	// connection for the same identity.
	ErrSessionReplaced = 3002

	// ErrUnauthorized indicates a request without valid credentials.
	ErrUnauthorized = 3003

	// ErrForbidden indicates valid credentials lacking the required role.
	ErrForbidden = 3004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrInfrastructure represents a dependency failure (database, storage)
	// distinct from caller errors; retried by the surrounding layer, not here.
	ErrInfrastructure = 5001

	// ErrFileStorageFailed indicates a failure talking to the object storage service.
	ErrFileStorageFailed = 5002
)
