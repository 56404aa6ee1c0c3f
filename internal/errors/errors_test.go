package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lcampanari/gamebook-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "section not found",
			expected: "NOT_FOUND: section not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "invalid dice notation",
			expected: "INVALID_ARGUMENT: invalid dice notation",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("session not found").
		WithMeta("session_id", "123").
		WithMeta("user_id", "456")

	s.Assert().Equal("123", err.Meta["session_id"])
	s.Assert().Equal("456", err.Meta["user_id"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("redis connection refused")
	wrapped := errors.Wrap(baseErr, "failed to load session")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to load session", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	base := errors.NotFound("section 99 not found")
	wrapped := errors.Wrap(base, "retrieval failed")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().True(errors.IsNotFound(wrapped))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := fmt.Errorf("context deadline exceeded")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeDeadlineExceeded, "narration timed out")

	s.Assert().Equal(errors.CodeDeadlineExceeded, wrapped.Code)
	s.Assert().True(errors.IsDeadlineExceeded(wrapped))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("plain error")))
	s.Assert().Equal(errors.CodeAborted, errors.GetCode(errors.Aborted("version conflict")))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	s.Assert().Equal("", errors.GetMessage(nil))
	s.Assert().Equal("plain error", errors.GetMessage(fmt.Errorf("plain error")))
	s.Assert().Equal("no narrator slot", errors.GetMessage(errors.ResourceExhausted("no narrator slot")))
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "ignored"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeInternal, "ignored"))
}
