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

package metric

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CellMetric groups the instruments shared by every cell of an actor system.
// Each recording is tagged with the actor path.
type CellMetric struct {
	processedCount  metric.Int64Counter
	restartCount    metric.Int64Counter
	stashCount      metric.Int64Counter
	deadLetterCount metric.Int64Counter
	receiveDuration metric.Float64Histogram
}

// NewCellMetric creates an instance of CellMetric
func NewCellMetric(meter metric.Meter) (*CellMetric, error) {
	cellMetric := new(CellMetric)
	var err error

	if cellMetric.processedCount, err = meter.Int64Counter(
		"actor_processed_count",
		metric.WithDescription("Total number of user messages processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	if cellMetric.restartCount, err = meter.Int64Counter(
		"actor_restart_count",
		metric.WithDescription("Total number of restarts"),
	); err != nil {
		return nil, fmt.Errorf("failed to create restartCount instrument, %w", err)
	}

	if cellMetric.stashCount, err = meter.Int64Counter(
		"actor_system_message_stash_count",
		metric.WithDescription("Total number of system messages stashed while suspended"),
	); err != nil {
		return nil, fmt.Errorf("failed to create stashCount instrument, %w", err)
	}

	if cellMetric.deadLetterCount, err = meter.Int64Counter(
		"actor_dead_letter_count",
		metric.WithDescription("Total number of messages redirected to dead letters"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadLetterCount instrument, %w", err)
	}

	if cellMetric.receiveDuration, err = meter.Float64Histogram(
		"actor_received_duration",
		metric.WithDescription("The latency of processed user messages in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create receiveDuration instrument, %w", err)
	}

	return cellMetric, nil
}

// RecordProcessed records one processed user message and its latency
func (x *CellMetric) RecordProcessed(ctx context.Context, path string, latency time.Duration) {
	opt := pathOption(path)
	x.processedCount.Add(ctx, 1, opt)
	x.receiveDuration.Record(ctx, float64(latency)/float64(time.Millisecond), opt)
}

// RecordRestart records one restart
func (x *CellMetric) RecordRestart(ctx context.Context, path string) {
	x.restartCount.Add(ctx, 1, pathOption(path))
}

// RecordStashed records one stashed system message
func (x *CellMetric) RecordStashed(ctx context.Context, path string) {
	x.stashCount.Add(ctx, 1, pathOption(path))
}

// RecordDeadLetter records one dead letter
func (x *CellMetric) RecordDeadLetter(ctx context.Context, path string) {
	x.deadLetterCount.Add(ctx, 1, pathOption(path))
}

func pathOption(path string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("actor.path", path))
}
