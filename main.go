// main is the entrypoint of the douremember CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/douremember/cmd"
	"github.com/huangsam/douremember/internal/datastore"
)

func main() {
	err := cmd.Execute()
	datastore.CloseStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
