package main

import "github.com/anchore/condamatch/cmd"

func main() {
	cmd.Execute()
}
