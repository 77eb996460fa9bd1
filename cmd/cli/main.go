package main

import "github.com/field-access-analysis/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
