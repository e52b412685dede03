package main

import "tg-otp-service/internal/cli"

func main() {
	cli.Execute()
}
