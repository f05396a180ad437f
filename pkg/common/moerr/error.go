// Copyright 2021 - 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package moerr

import (
	"fmt"
)

const (
	// 0 - 99 is OK. They do not contain info.
	Ok    uint16 = 0
	OkMax uint16 = 99

	// Group 1: Internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101
	ErrOOM      uint16 = 20103

	// Group 2: invalid argument
	ErrInvalidArg uint16 = 20203

	// Group 3: invalid input
	ErrBadConfig uint16 = 20300

	// Group 4: unexpected state
	ErrInvalidState uint16 = 20400

	// ErrEnd, the max value of MOErrorCode
	ErrEnd uint16 = 65535
)

type moErrorMsgItem struct {
	errorMsgOrFormat string
}

var errorMsgRefer = map[uint16]moErrorMsgItem{
	// Group 1: Internal errors
	ErrStart:    {"internal error: error code start"},
	ErrInternal: {"internal error: %s"},
	ErrOOM:      {"error: out of memory"},

	// Group 2
	ErrInvalidArg: {"invalid argument %s, bad value %s"},

	// Group 3
	ErrBadConfig: {"invalid configuration: %s"},

	// Group 4
	ErrInvalidState: {"invalid state %s"},

	// Group End: max value of MOErrorCode
	ErrEnd: {"internal error: end of errcode code"},
}

func newError(code uint16, args ...any) *Error {
	item, has := errorMsgRefer[code]
	if !has {
		panic(NewInternalError("not exist MOErrorCode: %d", code))
	}
	if len(args) == 0 {
		return &Error{
			code:    code,
			message: item.errorMsgOrFormat,
		}
	}
	return &Error{
		code:    code,
		message: fmt.Sprintf(item.errorMsgOrFormat, args...),
	}
}

// Error is an error carrying one of the codes above.
type Error struct {
	code    uint16
	message string
	detail  string
}

// Error returns the formatted message without the detail.
func (e *Error) Error() string {
	return e.message
}

func (e *Error) Detail() string {
	return e.detail
}

// WithDetail attaches extra text that Display appends to the message.
func (e *Error) WithDetail(detail string) *Error {
	e.detail = detail
	return e
}

// Display returns the message followed by the detail, if any.
func (e *Error) Display() string {
	if len(e.detail) == 0 {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.message, e.detail)
}

// ErrorCode returns the code the error was created with.
func (e *Error) ErrorCode() uint16 {
	return e.code
}

// IsMoErrCode reports whether e is an *Error with code rc. A nil error
// matches Ok.
func IsMoErrCode(e error, rc uint16) bool {
	if e == nil {
		return rc == Ok
	}

	me, ok := e.(*Error)
	if !ok {
		// This is not a moerr
		return false
	}
	return me.code == rc
}

// ConvertPanicError converts a recovered panic value to internal error.
func ConvertPanicError(v interface{}) *Error {
	if e, ok := v.(*Error); ok {
		return e
	}
	return newError(ErrInternal, fmt.Sprintf("panic %v", v))
}

func NewInternalError(msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ErrInternal, xmsg)
}

func NewOOM() *Error {
	return newError(ErrOOM)
}

func NewInvalidArg(arg string, val any) *Error {
	return newError(ErrInvalidArg, arg, fmt.Sprintf("%v", val))
}

func NewBadConfig(msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ErrBadConfig, xmsg)
}

func NewInvalidState(msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ErrInvalidState, xmsg)
}
