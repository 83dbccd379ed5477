package main

import "github.com/scholarbench/mentionbench/cmd"

func main() {
	cmd.Execute()
}
