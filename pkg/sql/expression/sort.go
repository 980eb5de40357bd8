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

package expression

import (
	"github.com/matrixorigin/mosearch/pkg/container/types"
)

type SortOrder int8

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

type NullOrder int8

const (
	NullsFirst NullOrder = iota
	NullsLast
)

type SortOption struct {
	Order     SortOrder
	NullOrder NullOrder
}

var (
	DefaultAsc  = SortOption{Order: Ascending, NullOrder: NullsFirst}
	DefaultDesc = SortOption{Order: Descending, NullOrder: NullsLast}
)

func (o SortOption) String() string {
	s := o.Order.String()
	if o.NullOrder == NullsFirst {
		return s + " nulls first"
	}
	return s + " nulls last"
}

type SortItem struct {
	Option SortOption
	Expr   Expression
}

func (s SortItem) String() string {
	return s.Expr.String() + " " + s.Option.String()
}

// CompareRows orders two rows by a sort list. NULL and MISSING sort
// together and are placed by the null order of each item.
func CompareRows(items []SortItem, a, b *types.Tuple) (int, error) {
	for _, item := range items {
		va, err := item.Expr.Eval(a)
		if err != nil {
			return 0, err
		}
		vb, err := item.Expr.Eval(b)
		if err != nil {
			return 0, err
		}
		c, err := compareSortValues(item.Option, va, vb)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return 0, nil
}

func compareSortValues(opt SortOption, a, b types.Value) (int, error) {
	an, bn := a.IsNullOrMissing(), b.IsNullOrMissing()
	switch {
	case an && bn:
		return 0, nil
	case an:
		if opt.NullOrder == NullsFirst {
			return -1, nil
		}
		return 1, nil
	case bn:
		if opt.NullOrder == NullsFirst {
			return 1, nil
		}
		return -1, nil
	}
	c, err := types.Compare(a, b)
	if err != nil {
		return 0, err
	}
	if opt.Order == Descending {
		c = -c
	}
	return c, nil
}
