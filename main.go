package main

import "github.com/ValentinKolb/dPickle/cmd"

func main() {
	cmd.Execute()
}
