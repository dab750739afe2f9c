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

// comparisonSet is the set of custom comparison names a Run carries. The
// only operations a Run needs - membership, add, remove, count - are one
// line each, so a plain map with named helpers keeps the call sites
// readable without reaching for a generic set type.
type comparisonSet map[string]struct{}

func (s comparisonSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s comparisonSet) Add(name string) { s[name] = struct{}{} }

func (s comparisonSet) Remove(name string) { delete(s, name) }

func (s comparisonSet) Len() int { return len(s) }
