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

package eventstream

import "time"

// Message is one publication as seen by a subscriber. Every subscriber of
// the topic shares the same Message.
type Message struct {
	topic       string
	payload     any
	publishedAt time.Time
}

// NewMessage wraps payload for delivery on topic.
func NewMessage(topic string, payload any, publishedAt time.Time) *Message {
	return &Message{topic: topic, payload: payload, publishedAt: publishedAt}
}

func (m *Message) Topic() string { return m.topic }

// Payload is the published value, a *DeadLetter or *UnhandledMessage for
// the actor system topics.
func (m *Message) Payload() any { return m.payload }

// PublishedAt returns when the message was handed to the stream.
func (m *Message) PublishedAt() time.Time { return m.publishedAt }
