package constants

var (
	VERSION = "0.1.0"

	// Line terminator used by every wire line.
	LINE_TERMINATOR = "\r\n"

	// Default listening port.
	DEFAULT_PORT uint32 = 1234

	// Default upper bound on a single received line, including the
	// terminator.
	DEFAULT_MAX_LINE_LENGTH uint64 = 4096

	// Any input line starting with this ends the client session.
	SESSION_SENTINEL = "."

	// Acknowledgment codes.
	ACK_NONCE_RECEIVED = 220
	ACK_KEY_RECEIVED   = 226

	ACK_NONCE_RECEIVED_TEXT = "nOnce received"
	ACK_KEY_RECEIVED_TEXT   = "public key received"
)
