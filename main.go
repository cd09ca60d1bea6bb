package main

import "github.com/ogdakke/pathfilter/cmd"

func main() {
	cmd.Execute()
}
