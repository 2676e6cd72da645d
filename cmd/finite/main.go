// Command finite computes cardinalities and converts values of finite
// shapes to and from fixed-width integers.
//
// Types are written in shape text, inline or from a file with @path:
//
//	finite card '(tuple u8 bool)'
//	finite encode --backend u16 '(option u8)' null
//	finite decode @types.shape 42
//	finite table '(enum red green blue)'
//	finite explore @types.shape
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
