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

import "github.com/google/uuid"

// ImageID is an opaque handle into an external image cache, used for icon
// handles (game icon, per-segment icon). This package never decodes or
// stores image bytes; it only hands out and compares stable identifiers -
// the cache owns the bytes, the run owns the id, and the two lifetimes
// stay decoupled.
type ImageID uuid.UUID

// NoImage is the zero ImageID, meaning "no icon set".
var NoImage ImageID

// NewImageID mints a fresh opaque handle for a newly registered image.
func NewImageID() ImageID { return ImageID(uuid.New()) }

// IsSet reports whether id is anything other than NoImage.
func (id ImageID) IsSet() bool { return id != NoImage }

// String implements fmt.Stringer.
func (id ImageID) String() string { return uuid.UUID(id).String() }
