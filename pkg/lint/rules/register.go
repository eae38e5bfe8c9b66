package rules

import (
	"strings"

	"github.com/yaklabco/idiomlint/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
// Registration order is the order rules run in at each node.
func RegisterAll(registry *lint.Registry) {
	// Signatures and naming
	registry.Register(NewUseSelfRule())              // IL001
	registry.Register(NewShouldImplementTraitRule()) // IL002
	registry.Register(NewWrongSelfConventionRule())  // IL003
	registry.Register(NewNewRetNoSelfRule())         // IL004

	// Option and Result combinators
	registry.Register(NewOptionMapUnwrapOrRule())     // IL005
	registry.Register(NewOptionMapUnwrapOrElseRule()) // IL006
	registry.Register(NewOptionMapOrNoneRule())       // IL007
	registry.Register(NewResultMapUnwrapOrElseRule()) // IL008

	// Iterators
	registry.Register(NewFilterNextRule())   // IL009
	registry.Register(NewSearchIsSomeRule()) // IL010
	registry.Register(NewIterSkipNextRule()) // IL011
	registry.Register(NewIterNthRule())      // IL012
	registry.Register(NewMapFlattenRule())   // IL013

	// Lazy evaluation
	registry.Register(NewOrFunCallRule())     // IL014
	registry.Register(NewExpectFunCallRule()) // IL015

	// Discouraged calls
	registry.Register(NewOptionUnwrapUsedRule()) // IL016
	registry.Register(NewResultUnwrapUsedRule()) // IL017
	registry.Register(NewOkExpectRule())         // IL018

	// Formatting
	registry.Register(NewUselessFormatRule()) // IL019
}

// RegisterClippyAliases registers the snake_case clippy lint names as
// aliases. Registry.Resolve also accepts them with a "clippy::" prefix.
func RegisterClippyAliases(registry *lint.Registry) {
	for _, rule := range registry.Rules() {
		registry.RegisterAlias(ClippyName(rule.Name()), rule.ID())
	}

	// Names clippy used before renaming its lints.
	registry.RegisterAlias("option_map_unwrap_or", "IL005")
	registry.RegisterAlias("option_map_unwrap_or_else", "IL006")
	registry.RegisterAlias("result_map_unwrap_or_else", "IL008")
	registry.RegisterAlias("option_unwrap_used", "IL016")
	registry.RegisterAlias("result_unwrap_used", "IL017")
	registry.RegisterAlias("unwrap_used", "IL016")
}

// ClippyName converts a rule name to its clippy spelling: filter-next
// becomes filter_next.
func ClippyName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	RegisterClippyAliases(lint.DefaultRegistry)
}
