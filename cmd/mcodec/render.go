package main

import (
	"encoding/hex"
	"math/big"
)

// render converts a decoded value into something encoding/json prints the
// way encode reads it back: big integers as decimal strings and bytes as
// 0x-prefixed hex.
func render(v any) any {
	switch x := v.(type) {
	case *big.Int:
		return x.String()
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = render(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = render(e)
		}
		return out
	default:
		return v
	}
}
