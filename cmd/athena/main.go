// Command athena is a terminal chat client for the Athena prompt service.
package main

import "github.com/monument-ai/athena/internal/commands"

func main() {
	commands.Execute()
}
