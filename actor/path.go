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

package actor

import (
	"regexp"
	"strings"

	gerrors "github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/internal/validation"
)

const (
	pathScheme    = "actorcell://"
	pathSeparator = "/"
	parentElement = ".."
	// generatedNamePrefix prefixes the names the system generates. Users
	// cannot pick such names.
	generatedNamePrefix = "$"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.~]*$`)

// Path locates an actor in the hierarchy of its system.
type Path struct {
	system string
	name   string
	parent *Path
	value  string
}

func newRootPath(system string) *Path {
	return &Path{
		system: system,
		value:  pathScheme + system + pathSeparator,
	}
}

// Child returns the path of the child called name
func (p *Path) Child(name string) *Path {
	value := p.value + name
	if p.parent != nil {
		value = p.value + pathSeparator + name
	}
	return &Path{
		system: p.system,
		name:   name,
		parent: p,
		value:  value,
	}
}

// Name returns the last element of the path. The root has an empty name.
func (p *Path) Name() string {
	return p.name
}

// Parent returns the parent path or nil for the root.
func (p *Path) Parent() *Path {
	return p.parent
}

// System returns the name of the actor system
func (p *Path) System() string {
	return p.system
}

// Elements returns the names from the root down to this path.
func (p *Path) Elements() []string {
	var elements []string
	for current := p; current.parent != nil; current = current.parent {
		elements = append(elements, current.name)
	}
	for i, j := 0, len(elements)-1; i < j; i, j = i+1, j-1 {
		elements[i], elements[j] = elements[j], elements[i]
	}
	return elements
}

// String returns the full path, like actorcell://system/user/a
func (p *Path) String() string {
	return p.value
}

// Equals is true when both paths designate the same location
func (p *Path) Equals(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.value == other.value
}

// validateName checks a user supplied actor name.
func validateName(name string) error {
	invalid := gerrors.NewErrInvalidName(name)
	return validation.New(validation.FailFast()).
		AddAssertion(!strings.HasPrefix(name, generatedNamePrefix), invalid).
		AddValidator(validation.NewPatternValidator(namePattern, name, invalid)).
		Validate()
}

// splitSelection turns a relative selection like "../b/*" into elements.
func splitSelection(selection string) []string {
	parts := strings.Split(selection, pathSeparator)
	elements := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		elements = append(elements, part)
	}
	return elements
}
