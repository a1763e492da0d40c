package status

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want Code
	}{
		{nil, CodeOK},
		{BadLen, CodeBadLen},
		{BadState, CodeBadState},
		{UnknownID, CodeUnknownID},
		{Range, CodeRange},
		{Internal, CodeInternal},
		{NoSpace, CodeNoSpace},
		{ParseFail, CodeParseFail},
		{fmt.Errorf("apply: %w", NoSpace), CodeNoSpace},
		{errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		if got := CodeOf(tt.err); got != tt.want {
			t.Fatalf("CodeOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestResultErr(t *testing.T) {
	if err := OK.Err(); err != nil {
		t.Fatalf("OK.Err() = %v, want nil", err)
	}
	if err := Range.Err(); !errors.Is(err, Range) {
		t.Fatalf("Range.Err() = %v, want Range", err)
	}
}

func TestStrings(t *testing.T) {
	if got := ParseFail.String(); got != "parse_fail" {
		t.Fatalf("ParseFail.String() = %q", got)
	}
	if got := CodeStreamErr.String(); got != "STREAM_ERR" {
		t.Fatalf("CodeStreamErr.String() = %q", got)
	}
	if got := Result(42).Code(); got != CodeInternal {
		t.Fatalf("Result(42).Code() = %v, want INTERNAL", got)
	}
}
