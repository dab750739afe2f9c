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

// Package version holds version and build information for the timer core.
// The reusable detection logic lives in [fortio.org/version]; this package
// only burns in the module's own path.
package version // import "github.com/LiveSplit/livesplit-core/version"
import (
	"fortio.org/version"
)

var (
	// The following are (re)computed in init().
	shortVersion = "dev"
	longVersion  = "unknown long"
	fullVersion  = "unknown full"
)

// Short returns the 3 digit short core version string Major.Minor.Patch,
// matching the project git tag (without the leading v), or "dev" when not
// built from a tagged module version.
func Short() string {
	return shortVersion
}

// Long returns the long version and build information.
// Format is "X.Y.Z hash go-version processor os".
func Long() string {
	return longVersion
}

// Full returns the Long version plus all the run time BuildInfo, ie all the
// dependent modules and their version and hash.
func Full() string {
	return fullVersion
}

func init() { //nolint:gochecknoinits // version burn-in has to happen before any caller
	shortVersion, longVersion, fullVersion = version.FromBuildInfoPath("github.com/LiveSplit/livesplit-core")
}
