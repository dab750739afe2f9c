// Copyright 2017 Fortio Authors
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

package run

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"grol.io/grol/eval"
	"grol.io/grol/repl"

	"github.com/LiveSplit/livesplit-core/timeval"
)

// evalGoalExpr lets a host express a Goal comparison's target total as a
// small grol script instead of a fixed duration - e.g. "Personal_Best +
// 30000000000" to aim for "PB plus thirty seconds of slack". Every
// comparison's real-time final split is bound as a nanosecond-count
// variable before the expression runs, using the eval.NewState +
// repl.EvalAll pairing for scripted (non-interactive) evaluation: build a
// tiny source buffer, run it through the interpreter into an in-memory
// buffer instead of stdout, and parse the last printed value back into a
// Duration (a bare integer is a nanosecond count).
func evalGoalExpr(r *Run, expr string) (time.Duration, error) {
	var prelude strings.Builder
	for _, name := range r.ComparisonNames() {
		total := finalComparisonTotal(r, name, RealTime)
		if total == nil {
			continue
		}
		fmt.Fprintf(&prelude, "%s = %d\n", grolIdent(name), total.Nanoseconds())
	}

	src := prelude.String() + expr + "\n"
	state := eval.NewState()
	var out bytes.Buffer
	errs := repl.EvalAll(state, strings.NewReader(src), &out, repl.Options{ShowEval: true})
	if len(errs) > 0 {
		return 0, fmt.Errorf("run: goal expression %q: %v", expr, errs)
	}

	result := lastNonEmptyLine(out.String())
	if ns, err := strconv.ParseInt(result, 10, 64); err == nil {
		return time.Duration(ns), nil
	}
	d, err := timeval.ParseLenient(result)
	if err != nil {
		return 0, fmt.Errorf("run: goal expression %q: unparsable result %q", expr, result)
	}
	return d, nil
}

// finalComparisonTotal returns the last segment's split time for a named
// comparison under method, or nil if either the comparison or the final
// segment is absent.
func finalComparisonTotal(r *Run, name string, method TimingMethod) *time.Duration {
	if len(r.segments) == 0 {
		return nil
	}
	last := r.segments[len(r.segments)-1]
	t, ok := last.Comparisons[name]
	if !ok {
		return nil
	}
	return t.Get(method)
}

// grolIdent turns a comparison name into a valid grol identifier by
// collapsing everything that isn't a letter, digit or underscore.
func grolIdent(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	ident := sb.String()
	if ident == "" || (ident[0] >= '0' && ident[0] <= '9') {
		ident = "v_" + ident
	}
	return ident
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return strings.TrimSpace(lines[i])
		}
	}
	return ""
}
