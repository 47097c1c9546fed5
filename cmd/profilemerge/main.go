package main

import "github.com/kevinwang15/profilestate/cmd/profilemerge/cmd"

func main() {
	cmd.Execute()
}
