package main

import "ytdigest/cmd"

func main() {
	cmd.Execute()
}
