// Command lowlevel exercises the containers of this module from the command
// line.
package main

import "github.com/sarchlab/lowlevel/lowlevel/cmd"

func main() {
	cmd.Execute()
}
