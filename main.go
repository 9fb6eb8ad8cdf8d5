// main is the entry point of the cyclereport CLI.
package main

import (
	"github.com/huangsam/cyclereport/cmd"
	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/internal/history"
)

func main() {
	defer history.CloseStores()
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Cannot start cyclereport", err)
	}
}
