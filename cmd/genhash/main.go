// genhash prints a bcrypt hash for ADMIN_PASSWORD_HASH.
//
//	go run ./cmd/genhash -password 's3cret'
//	echo 's3cret' | go run ./cmd/genhash
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("password", "", "password to hash (read from stdin when empty)")
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()

	if *password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "genhash: no password given")
			os.Exit(2)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	h, err := bcrypt.GenerateFromPassword([]byte(*password), *cost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "genhash:", err)
		os.Exit(1)
	}
	fmt.Println(string(h))
}
