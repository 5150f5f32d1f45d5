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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestStream(t *testing.T) {
	t.Run("With Subscription", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		broker := New()

		sub1 := broker.AddSubscriber()
		sub2 := broker.AddSubscriber()
		broker.Subscribe(sub1, "deadletters")
		broker.Subscribe(sub2, "deadletters")
		broker.Subscribe(sub2, "unhandled")

		assert.Equal(t, 2, broker.SubscribersCount("deadletters"))
		assert.Equal(t, 1, broker.SubscribersCount("unhandled"))
		assert.Zero(t, broker.SubscribersCount("other"))
		assert.ElementsMatch(t, []string{"deadletters", "unhandled"}, sub2.Topics())

		broker.Unsubscribe(sub2, "unhandled")
		assert.Zero(t, broker.SubscribersCount("unhandled"))

		broker.RemoveSubscriber(sub1)
		assert.False(t, sub1.Active())
		assert.Empty(t, sub1.Topics())
		assert.Equal(t, 1, broker.SubscribersCount("deadletters"))
		broker.Close()
	})
	t.Run("With Publication", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		broker := New()
		sub := broker.AddSubscriber()
		broker.Subscribe(sub, "t1")

		broker.Publish("t1", "hi")
		broker.Publish("t1", "there")
		broker.Publish("t2", "ignored")

		var payloads []any
		for msg := range sub.Iterator() {
			assert.Equal(t, "t1", msg.Topic())
			assert.False(t, msg.PublishedAt().IsZero())
			payloads = append(payloads, msg.Payload())
		}
		require.Equal(t, []any{"hi", "there"}, payloads)
		require.Empty(t, sub.Iterator())

		broker.Close()
		assert.False(t, sub.Active())
		broker.Publish("t1", "after close")
		require.Empty(t, sub.Iterator())
	})
	t.Run("Inactive subscriber is not subscribed", func(t *testing.T) {
		broker := New()
		sub := broker.AddSubscriber()
		sub.Shutdown()
		broker.Subscribe(sub, "t1")
		assert.Zero(t, broker.SubscribersCount("t1"))
	})
}
