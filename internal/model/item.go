package model

import "strings"

// ItemType groups items for neighbour bonuses, e.g. every "cat_N" is a "cat"
type ItemType string

// UnknownItemType is used for ids without a type prefix
const UnknownItemType ItemType = "unknown"

// Type returns the part of the id before the first underscore
func (id ItemID) Type() ItemType {
	prefix, _, _ := strings.Cut(string(id), "_")
	if prefix == "" {
		return UnknownItemType
	}
	return ItemType(prefix)
}
