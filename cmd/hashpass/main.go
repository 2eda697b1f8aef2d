// Command hashpass prints a bcrypt hash for ADMIN_PASSWORD_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"IsraBot/pkg/bcrypt"
	"IsraBot/pkg/log"
)

func main() {
	logger := log.NewLogger()

	password := ""
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			logger.Fatalf("Failed to read password: %v", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if password == "" {
		logger.Fatal("Password is empty")
	}

	hash, err := bcrypt.New().HashPassword(password)
	if err != nil {
		logger.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Println(hash)
}
