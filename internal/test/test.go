package test

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/ava12/prd"
)

func fatalf(t *testing.T, message string, params ...any) {
	t.Helper()
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

func Assert(t *testing.T, cond bool, message string, params ...any) {
	t.Helper()
	if !cond {
		fatalf(t, message, params...)
	}
}

func Expect(t *testing.T, cond bool, expected, got any) {
	t.Helper()
	if !cond {
		fatalf(t, "expecting %v, got %v", expected, got)
	}
}

func ExpectBool(t *testing.T, expected, got bool) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

func ExpectInt(t *testing.T, expected, got int) {
	t.Helper()
	Expect(t, expected == got, expected, got)
}

func ExpectString(t *testing.T, expected, got string) {
	t.Helper()
	Expect(t, expected == got, fmt.Sprintf("%q", expected), fmt.Sprintf("%q", got))
}

// ErrorCode returns the code of the first *prd.Error in the chain of e or 0.
func ErrorCode(e error) int {
	var pe *prd.Error
	if errors.As(e, &pe) {
		return pe.Code
	}
	return 0
}

func ExpectErrorCode(t *testing.T, expected int, e error) {
	t.Helper()
	if e != nil && ErrorCode(e) == expected {
		return
	}

	fatalf(t, "expecting error code %d, got %v", expected, e)
}
