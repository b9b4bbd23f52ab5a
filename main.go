package main

import "github.com/ssk090/git-contri-merged/cmd/mergedcal"

func main() {
	mergedcal.Execute()
}
