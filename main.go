package main

import "github.com/nikogura/referral-mailer/cmd"

func main() {
	cmd.Execute()
}
