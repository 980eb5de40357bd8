// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"bytes"

	"github.com/samber/lo"
)

type Column struct {
	Name  string
	Alias string
	Typ   T
}

// OutputName is the display name of the column.
func (c Column) OutputName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// Schema is the ordered column list of an operator's output.
type Schema struct {
	Columns []Column
}

func NewSchema(cols ...Column) *Schema {
	return &Schema{Columns: cols}
}

func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Columns)
}

func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	return lo.Map(s.Columns, func(c Column, _ int) string {
		return c.OutputName()
	})
}

// Index returns the position of the column whose output name is name,
// -1 if there is none.
func (s *Schema) Index(name string) int {
	if s == nil {
		return -1
	}
	_, idx, ok := lo.FindIndexOf(s.Columns, func(c Column) bool {
		return c.OutputName() == name
	})
	if !ok {
		return -1
	}
	return idx
}

func (s *Schema) Column(name string) (Column, bool) {
	if idx := s.Index(name); idx >= 0 {
		return s.Columns[idx], true
	}
	return Column{}, false
}

func (s *Schema) Clone() *Schema {
	if s == nil {
		return NewSchema()
	}
	cols := make([]Column, len(s.Columns))
	copy(cols, s.Columns)
	return &Schema{Columns: cols}
}

func (s *Schema) String() string {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i, c := range s.Columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(c.OutputName())
		buf.WriteString(" ")
		buf.WriteString(c.Typ.String())
	}
	buf.WriteString("]")
	return buf.String()
}
