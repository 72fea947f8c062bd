package main

import "github.com/kunnaall04/Criminal-Face-Identification-System/cmd"

func main() {
	cmd.Execute()
}
