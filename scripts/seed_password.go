package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Hashes a console password for a SEED_FILE entry so the file never carries plain text.
// Usage: go run scripts/seed_password.go <user id> <password>
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run scripts/seed_password.go <user id> <password>")
		fmt.Println("Example: go run scripts/seed_password.go OP-002 s3nha-forte")
		os.Exit(1)
	}
	userID, password := os.Args[1], os.Args[2]

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error generating hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("# paste under the users entry with id %s\n", userID)
	fmt.Printf("    password: %q\n", string(hash))
}
