package models

import (
	"sort"
	"strings"
)

// Option is an {id, name} pair used to fill the detail-form dropdowns.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DamageOptions holds the dropdown data returned by getTypeDamage.
type DamageOptions struct {
	TypeDamage []Option `json:"typeDamage"`
	Origin     []Option `json:"origin"`
}

// SortOptionsByName returns a copy ordered alphabetically, ignoring case.
func SortOptionsByName(options []Option) []Option {
	out := make([]Option, len(options))
	copy(out, options)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToUpper(out[i].Name) < strings.ToUpper(out[j].Name)
	})
	return out
}
