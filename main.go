package main

import "github.com/giygas/drugs-eda/cmd"

func main() {
	cmd.Execute()
}
