package main // Entry point package

import "github.com/iliyamo/campus-inventory/cmd/server/command"

func main() {
	command.Execute()
}
