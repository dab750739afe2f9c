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

package layout

// TextSettings configures a static text row: either a single centered
// line, or a left/right pair.
type TextSettings struct {
	Background      Gradient
	Center          string
	Left            string
	Right           string
	LeftCenterColor *Color
	RightColor      *Color
	DisplayTwoRows  bool
}

// TextState is the renderable state of a static text row. Center is set
// for the one-line form, Left/Right for the pair form.
type TextState struct {
	Background      Gradient `json:"background"`
	Center          string   `json:"center,omitempty"`
	Left            string   `json:"left,omitempty"`
	Right           string   `json:"right,omitempty"`
	LeftCenterColor *Color   `json:"left_center_color,omitempty"`
	RightColor      *Color   `json:"right_color,omitempty"`
	DisplayTwoRows  bool     `json:"display_two_rows"`
}

func (ts *TextSettings) update(state *TextState) {
	state.Background = ts.Background
	state.Center = ts.Center
	state.Left = ts.Left
	state.Right = ts.Right
	state.LeftCenterColor = ts.LeftCenterColor
	state.RightColor = ts.RightColor
	state.DisplayTwoRows = ts.DisplayTwoRows
}

// BlankSpaceSettings configures an empty spacer row.
type BlankSpaceSettings struct {
	Background Gradient
	Size       int
}

// BlankSpaceState is the renderable state of a spacer row.
type BlankSpaceState struct {
	Background Gradient `json:"background"`
	Size       int      `json:"size"`
}

func (bs *BlankSpaceSettings) update(state *BlankSpaceState) {
	state.Background = bs.Background
	state.Size = bs.Size
}

// SeparatorSettings configures a thin horizontal rule; it carries no
// options today but keeps the variant symmetric.
type SeparatorSettings struct{}

// SeparatorState is the (empty) renderable state of a separator.
type SeparatorState struct{}
