// Command nudge watches AI agent activity files and fires a configured
// action once per hour while the agent sits idle.
package main

import "github.com/darjeeling/nudge/internal/cli"

func main() {
	cli.Execute()
}
