package main

import "github.com/LegacyCodeHQ/localize/cmd"

func main() {
	cmd.Execute()
}
