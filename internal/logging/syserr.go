package logger

import (
	"errors"
	"syscall"
)

// UnknownErrno is the code reported for an error that does not wrap a
// syscall.Errno.
const UnknownErrno = -1

// SysError is the operating system error context of a message.
type SysError struct {
	Code        int
	Description string
}

// CaptureSysError extracts the errno code and text from err. A nil error
// yields code 0.
func CaptureSysError(err error) SysError {
	if err == nil {
		return SysError{Code: 0, Description: "success"}
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == 0 {
			return SysError{Code: 0, Description: "success"}
		}
		return SysError{Code: int(errno), Description: errno.Error()}
	}
	return SysError{Code: UnknownErrno, Description: err.Error()}
}
