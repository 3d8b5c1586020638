// Package ir defines the parsed-source representation consumed by the
// checker.
//
// The entities in this package form a closed vocabulary for the declarations
// and expressions the checker reasons about: containers (classes, mixins,
// extensions, enums) with their members, top-level functions and variables,
// and the expression forms whose evaluation touches a declared symbol. A
// front-end parser produces these trees; the checker never reads source text
// itself.
//
// Static types are recorded as plain names resolved by the front end. The
// checker only needs enough typing to map a member access to its declaring
// container, so there is no type-expression grammar here.
package ir
