package main

import "github.com/Dhushyanthcpu/lib/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
