package signatureverification

import "errors"

// ErrDerDecode is returned when a byte string does not parse as a valid
// DER-encoded (r,s) signature.
var ErrDerDecode = errors.New("malformed DER signature")
