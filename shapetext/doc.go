// Package shapetext parses a compact S-expression syntax for finite shapes.
//
// The syntax follows the WebAssembly component text format and produces
// wit.Type values ready for witshape:
//
//	node, err := shapetext.Compile(`
//		(type level (enum low mid high))
//		(record
//			(field level level)
//			(field boost (option u8)))`)
//
// Grammar:
//
//	type   := prim | '(' form ')'
//	prim   := bool | u8 | u16 | u32 | u64 | s8 | s16 | s32 | s64 | f32 | f64 | char | string
//	form   := tuple type*
//	        | option type
//	        | result [type] ['(' error type ')']
//	        | record ('(' field name type ')')*
//	        | variant ('(' case name [type] ')')*
//	        | enum name*
//	        | flags name*
//	        | type name type
//	name   := identifier | "quoted"
//
// A source is a sequence of types; the last one is the root. (type name t)
// binds name for every later type. Comments are ;; to end of line and
// (; ... ;) blocks, which nest.
//
// Errors are errors.PhaseParse with errors.KindInvalidInput and name the
// line they occurred on.
package shapetext
