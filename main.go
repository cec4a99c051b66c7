package main

import "github.com/zanabooks/zana/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
