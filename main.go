package main

import "github.com/dkralj/workshop-management/cmd"

func main() {
	cmd.Execute()
}
