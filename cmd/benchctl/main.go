// Command benchctl discovers, inspects and configures the bench instruments
// from the shell.
package main

import "github.com/arloliu/go-scpi/cmd/benchctl/cmd"

func main() {
	cmd.Execute()
}
