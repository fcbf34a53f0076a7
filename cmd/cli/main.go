// journalview - systemd journal viewer
//
// journalview queries journalctl for recent entries, one boot, or the boot
// list, and prints them with priority labels and an optional filter.
package main

import (
	"os"

	"github.com/ccollicutt/journalview/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
