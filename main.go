package main

import "github.com/theirongolddev/wipflags/cmd"

func main() {
	cmd.Execute()
}
