package main

import "github.com/workforcehq/workforce-management/cmd"

func main() {
	cmd.Execute()
}
