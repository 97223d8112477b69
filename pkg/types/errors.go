// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrInvalidArgument marks a precondition violation at an API boundary: an
// empty candidate set handed to the selector, a non-positive word limit, and
// similar caller bugs. Callers test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")
