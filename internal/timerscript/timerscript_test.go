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

package timerscript

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"fortio.org/assert"
	"fortio.org/testscript"
)

func TestMain(m *testing.M) {
	// Runs the testdata/*.txtar scenarios.
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"timerscript": Main,
	}))
}

func TestScenarios(t *testing.T) {
	testscript.Run(t, testscript.Params{Dir: "./testdata"})
}

func TestRunErrorsCarryLineContext(t *testing.T) {
	err := Run(strings.NewReader("segments A\nbogus\n"), os.Stdout)
	assert.True(t, err != nil)
	assert.True(t, strings.Contains(err.Error(), "line 2"), fmt.Sprintf("got %v", err))
}

func TestCommandBeforeSegmentsRejected(t *testing.T) {
	err := Run(strings.NewReader("start\n"), os.Stdout)
	assert.True(t, err != nil)
}
