// windrow browses large SQLite tables through a windowed list that
// materializes only the rows near the viewport.
package main

import (
	"fmt"
	"os"

	"github.com/zjrosen/windrow/cmd"
)

// Set through -ldflags by the release build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
