package main

import "github.com/copperwood-systems/datascout/cmd"

func main() {
	cmd.Execute()
}
