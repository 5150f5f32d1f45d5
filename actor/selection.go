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
	"path"
	"strings"
)

// ActorSelection addresses the actors matching a relative path from an
// anchor actor. Elements are child names, ".." or glob patterns.
type ActorSelection struct {
	anchor   *PID
	elements []string
}

func newActorSelection(anchor *PID, selection string) *ActorSelection {
	return &ActorSelection{
		anchor:   anchor,
		elements: splitSelection(selection),
	}
}

// Tell delivers message to every actor matching the selection
func (s *ActorSelection) Tell(message any, sender *PID) {
	s.anchor.Tell(&ActorSelectionMessage{
		Message:  message,
		Elements: s.elements,
		Wildcard: hasWildcard(s.elements),
	}, sender)
}

// String implements fmt.Stringer
func (s *ActorSelection) String() string {
	return s.anchor.path.String() + pathSeparator + strings.Join(s.elements, pathSeparator)
}

// receiveSelection walks one element of the selection and forwards the
// rest to the matching actors.
func (c *Cell) receiveSelection(selection *ActorSelectionMessage, sender *PID) error {
	if len(selection.Elements) == 0 {
		return c.invoke(NewEnvelope(selection.Message, sender))
	}

	element := selection.Elements[0]
	next := &ActorSelectionMessage{
		Message:  selection.Message,
		Elements: selection.Elements[1:],
		Wildcard: selection.Wildcard,
	}

	switch {
	case element == parentElement:
		c.parent.Tell(next, sender)
		return nil
	case isPattern(element):
		for _, child := range c.children.pids() {
			if matched, _ := path.Match(element, child.Name()); matched {
				child.Tell(next, sender)
			}
		}
		return nil
	default:
		if child, ok := c.children.getByName(element); ok {
			child.Tell(next, sender)
			return nil
		}
		// a missing wildcard match is not worth a dead letter
		if !selection.Wildcard {
			c.system.deadLetters.Tell(&DeadLetter{
				Message:   selection,
				Sender:    sender,
				Recipient: c.self,
			}, sender)
		}
	}
	return nil
}

func isPattern(element string) bool {
	return strings.ContainsAny(element, "*?[")
}

func hasWildcard(elements []string) bool {
	for _, element := range elements {
		if isPattern(element) {
			return true
		}
	}
	return false
}
