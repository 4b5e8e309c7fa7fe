// Command uniwatch watches university web pages and forwards newly
// published posts to webhook endpoints.
package main

import (
	"fmt"
	"os"

	"github.com/uniwatch/uniwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
