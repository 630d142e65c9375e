// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys is the set of storage keys an operation may touch and how it may
// touch them. Use Add so that duplicate declarations union their
// permissions instead of overriding them.
type Keys map[string]Permissions

type Permissions byte

func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Merge unions every key of [other] into [k].
func (k Keys) Merge(other Keys) Keys {
	for name, p := range other {
		k.Add(name, p)
	}
	return k
}

// Sorted returns the key names in lexicographic order. Locks are always
// taken in this order.
func (k Keys) Sorted() []string {
	names := maps.Keys(k)
	slices.Sort(names)
	return names
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}

func (p Permissions) String() string {
	if p == None {
		return "none"
	}
	var parts []string
	if p.Has(Read) {
		parts = append(parts, "read")
	}
	if p.Has(Allocate) {
		parts = append(parts, "allocate")
	}
	if p.Has(Write) {
		parts = append(parts, "write")
	}
	return strings.Join(parts, "|")
}
