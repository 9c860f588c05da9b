// Command mstctl drives an MST directly against a chosen KV backend,
// for manual inspection and scripting; it is not part of the MST's
// own contract (§6.4 notes the tree has no CLI boundary).
package main

import "github.com/jdchain-core/mst/cmd/mstctl/cmd"

func main() {
	cmd.Execute()
}
