package main

import "github.com/llehouerou/wavecast/cmd"

func main() {
	cmd.Execute()
}
