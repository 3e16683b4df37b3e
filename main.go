package main

import "github.com/kweyjibo/input-range/cmd"

func main() {
	cmd.Execute()
}
