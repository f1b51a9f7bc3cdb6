// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/kehilla/ai"
	"github.com/poiesic/kehilla/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Basic(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 4, 1)

	p.Start()
	p.Record(false)
	p.Record(true)
	p.Record(false)
	p.Record(false)
	p.Finish()

	done, degraded := p.Counts()
	assert.Equal(t, 4, done)
	assert.Equal(t, 1, degraded)
	assert.Greater(t, p.Elapsed(), time.Duration(0))

	out := buf.String()
	assert.Contains(t, out, "4/4")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "1 degraded")
	assert.Contains(t, out, "queries/s")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestProgress_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 10, 1)

	p.Record(false)
	p.Finish()

	assert.Equal(t, "", buf.String())
	assert.Zero(t, p.Elapsed())
}

func TestProgress_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 2, 1)

	p.Start()
	for range 5 {
		p.Record(false)
	}
	done, _ := p.Counts()
	assert.Equal(t, 2, done)
}

func TestProgress_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 10, 5)
	p.Start()

	for range 4 {
		p.Record(false)
	}
	assert.Equal(t, "", buf.String(), "should not print under interval")

	p.Record(false)
	assert.Contains(t, buf.String(), "5/10")
}

func TestProgress_NilWriter(t *testing.T) {
	p := NewProgress(nil, 1, 0)
	p.Start()
	p.Record(false)
	p.Finish()
	done, _ := p.Counts()
	assert.Equal(t, 1, done)
}

func TestBatch(t *testing.T) {
	var calls atomic.Int32
	s := newTestSearcher(t, discoverFunc(func(_ context.Context, q string) ([]core.Institution, error) {
		calls.Add(1)
		if strings.Contains(q, "fail") {
			return nil, &ai.TransportError{StatusCode: 500}
		}
		return []core.Institution{{Name: "ext " + q}}, nil
	}))

	queries := []string{"temple in Houston", "fail reform", "", "chabad"}
	var progress bytes.Buffer
	results, err := s.Batch(context.Background(), queries, 2, &progress)
	require.NoError(t, err)
	require.Len(t, results, len(queries))

	for i, r := range results {
		assert.Equal(t, queries[i], r.Query)
		require.NoError(t, r.Err)
		require.NotNil(t, r.Result)
	}
	assert.Equal(t, StateDone, results[0].Result.State)
	assert.Equal(t, "ext temple in Houston", results[0].Result.Institutions[0].Name)
	assert.Equal(t, StateDegraded, results[1].Result.State)
	assert.Equal(t, StateIdle, results[2].Result.State)
	assert.Equal(t, StateDone, results[3].Result.State)

	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, progress.String(), "4/4")
	assert.Contains(t, progress.String(), "1 degraded")
}

func TestBatch_InvalidWorkers(t *testing.T) {
	s := newTestSearcher(t, externals())
	_, err := s.Batch(context.Background(), []string{"a"}, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidPoolSize)
}
