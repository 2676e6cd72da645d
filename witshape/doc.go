// Package witshape builds finite shapes from WebAssembly Interface Types.
//
// Every WIT type whose values form a finite set compiles to a Node, which
// is a finiterepr.Shape over dynamically typed Go values:
//
//	node, err := witshape.Compile(&wit.TypeDef{
//	    Kind: &wit.Option{Type: wit.U8{}},
//	})
//	n, err := finiterepr.Encode[uint16, any](node, nil) // 256
//
// Records and tuples are products in field order, flags are products of
// booleans, enums and variants are sums in case order. string, list and
// resource handles are rejected with errors.KindUnsupported.
//
// The JSON type converts dynamic values to and from JSON for command line
// use.
package witshape
