/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/iracelog-gap-analysis/cmd"

func main() {
	cmd.Execute()
}
