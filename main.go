package main

import "github.com/confetti-clj/s3-deploy/cmd"

func main() {
	cmd.Execute()
}
