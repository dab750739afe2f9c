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

// Package timerscript is a tiny line-oriented command interpreter over the
// timer, driven by testscript scenario files. Each line is one timer
// command or one query; queries print a single stable line the scenario
// asserts on. Time never passes on its own - an explicit `advance`
// command moves the fake clock - so scripts are fully deterministic.
package timerscript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fortio.org/log"

	"github.com/LiveSplit/livesplit-core/clock"
	"github.com/LiveSplit/livesplit-core/run"
	"github.com/LiveSplit/livesplit-core/timer"
	"github.com/LiveSplit/livesplit-core/timeval"
)

// Main reads a script from stdin, executes it, and returns a process exit
// code. Registered as a testscript command in the package tests.
func Main() int {
	if err := Run(os.Stdin, os.Stdout); err != nil {
		return log.FErrf("timerscript: %v", err)
	}
	return 0
}

// interp carries the state one script execution mutates.
type interp struct {
	fake *clock.Fake
	tm   *timer.Timer
	out  io.Writer
}

// Run executes the script from r, writing query output to w.
func Run(r io.Reader, w io.Writer) error {
	it := &interp{fake: clock.NewFake(), out: w}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := it.exec(text); err != nil {
			return fmt.Errorf("line %d (%q): %w", line, text, err)
		}
	}
	return scanner.Err()
}

func (it *interp) exec(text string) error {
	fields := strings.Fields(text)
	cmd, args := fields[0], fields[1:]
	if cmd != "segments" && it.tm == nil {
		return fmt.Errorf("no run yet: %q must follow a segments command", cmd)
	}
	switch cmd {
	case "segments":
		return it.cmdSegments(args)
	case "offset":
		d, err := parseDur(args)
		if err != nil {
			return err
		}
		return it.tm.Run().SetOffset(d)
	case "start":
		it.tm.Start()
	case "advance":
		d, err := parseDur(args)
		if err != nil {
			return err
		}
		it.fake.Advance(d)
	case "split":
		it.tm.Split()
	case "skip":
		it.tm.SkipSplit()
	case "undo":
		it.tm.UndoSplit()
	case "pause":
		it.tm.Pause()
	case "resume":
		it.tm.Resume()
	case "reset":
		it.tm.Reset(len(args) > 0 && args[0] == "save")
	case "loading":
		d, err := parseDur(args)
		if err != nil {
			return err
		}
		it.tm.SetLoadingTimes(d)
	case "gametime-set":
		if len(args) != 1 {
			return fmt.Errorf("gametime-set wants one time argument")
		}
		return it.tm.SetGameTimeString(args[0])
	case "gametime-pause":
		it.tm.PauseGameTime()
	case "gametime-resume":
		it.tm.ResumeGameTime()
	case "goal":
		return it.cmdGoal(args)
	case "phase":
		fmt.Fprintf(it.out, "phase %v\n", it.tm.Phase())
	case "time":
		m, err := parseMethod(args, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(it.out, "time %s %s\n", args[0], fmtDur(it.tm.Snapshot().CurrentTime().Get(m)))
	case "split-time":
		i, m, err := parseIndexMethod(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(it.out, "split %d %s %s\n", i, args[1], fmtDur(it.tm.CurrentAttemptSplit(i).Get(m)))
	case "delta":
		i, m, err := parseIndexMethod(args)
		if err != nil {
			return err
		}
		d := it.tm.Snapshot().Delta(i, run.ComparisonPersonalBest, m)
		fmt.Fprintf(it.out, "delta %d %s %s\n", i, args[1], fmtDur(d))
	case "comparison-split":
		return it.cmdComparisonSplit(args)
	case "best-segment":
		i, m, err := parseIndexMethod(args)
		if err != nil {
			return err
		}
		v := it.tm.Run().Segments()[i].BestSegmentTime.Get(m)
		fmt.Fprintf(it.out, "best-segment %d %s %s\n", i, args[1], fmtDur(v))
	case "attempts":
		fmt.Fprintf(it.out, "attempts %d\n", it.tm.Run().AttemptCount)
	case "finished":
		fmt.Fprintf(it.out, "finished %d\n", it.tm.Run().FinishedCount)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (it *interp) cmdSegments(names []string) error {
	if len(names) == 0 {
		return run.ErrEmptyRun
	}
	segs := make([]*run.Segment, len(names))
	for i, n := range names {
		segs[i] = run.NewSegment(n)
	}
	r, err := run.New(segs...)
	if err != nil {
		return err
	}
	it.tm = timer.New(r, timer.WithClocks(it.fake, it.fake))
	return nil
}

func (it *interp) cmdGoal(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("goal wants a name and a target duration")
	}
	target, err := parseDur(args[len(args)-1:])
	if err != nil {
		return err
	}
	name := strings.Join(args[:len(args)-1], " ")
	return it.tm.Run().AddGoalComparison(name, target)
}

func (it *interp) cmdComparisonSplit(args []string) error {
	i, m, err := parseIndexMethod(args)
	if err != nil {
		return err
	}
	if len(args) < 3 {
		return fmt.Errorf("comparison-split wants index, method, name")
	}
	name := strings.Join(args[2:], " ")
	v := it.tm.Snapshot().ComparisonSplit(i, name, m)
	fmt.Fprintf(it.out, "comparison %s %d %s %s\n", name, i, args[1], fmtDur(v))
	return nil
}

func parseDur(args []string) (d time.Duration, err error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing duration argument")
	}
	return timeval.ParseLenient(args[0])
}

func parseMethod(args []string, pos int) (run.TimingMethod, error) {
	if len(args) <= pos {
		return run.RealTime, fmt.Errorf("missing method argument (real|game)")
	}
	switch args[pos] {
	case "real":
		return run.RealTime, nil
	case "game":
		return run.GameTime, nil
	default:
		return run.RealTime, fmt.Errorf("bad method %q (want real or game)", args[pos])
	}
}

func parseIndexMethod(args []string) (int, run.TimingMethod, error) {
	if len(args) < 2 {
		return 0, run.RealTime, fmt.Errorf("missing index and method arguments")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, run.RealTime, fmt.Errorf("bad index %q: %w", args[0], err)
	}
	m, err := parseMethod(args, 1)
	return i, m, err
}

func fmtDur(d *time.Duration) string {
	return timeval.Format(d, timeval.Milliseconds, timeval.SingleDigitMinutes)
}
