// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package validation

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"
)

var (
	errFirst  = errors.New("first")
	errSecond = errors.New("second")
)

type validationTestSuite struct {
	suite.Suite
}

func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain with options", func() {
		s.Assert().True(New(FailFast()).failFast)
		s.Assert().False(New(AllErrors()).failFast)
		s.Assert().Empty(New().validators)
	})
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with every check passing", func() {
		err := New().
			AddAssertion(true, errFirst).
			AddValidator(NewPatternValidator(regexp.MustCompile(`^a+$`), "aaa", errSecond)).
			Validate()
		s.Assert().NoError(err)
	})
	s.Run("with FailFast option", func() {
		err := New(FailFast()).
			AddAssertion(false, errFirst).
			AddAssertion(false, errSecond).
			Validate()
		s.Assert().ErrorIs(err, errFirst)
		s.Assert().NotErrorIs(err, errSecond)
	})
	s.Run("with AllErrors option", func() {
		chain := New(AllErrors()).
			AddAssertion(false, errFirst).
			AddValidator(NewPatternValidator(regexp.MustCompile(`^a+$`), "b", errSecond))
		err := chain.Validate()
		s.Assert().ErrorIs(err, errFirst)
		s.Assert().ErrorIs(err, errSecond)
		s.Assert().EqualError(err, "first; second")
		// running twice does not accumulate
		s.Assert().EqualError(chain.Validate(), "first; second")
	})
}
