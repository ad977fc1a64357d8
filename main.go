package main

import "github.com/notargets/gocpg/cmd"

func main() {
	cmd.Execute()
}
