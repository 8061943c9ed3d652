// Command freelance prints monthly income reports in the terminal.
package main

import "github.com/warp/freelance-engine/cli"

func main() {
	cli.Execute()
}
