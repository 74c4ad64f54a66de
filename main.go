package main

import "github.com/eslsoft/pronadmin/cmd"

func main() {
	cmd.Execute()
}
