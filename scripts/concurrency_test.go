//go:build ignore
// +build ignore

// Package main provides a manual concurrency stress test for the borrow API.
//
// Usage:
//
//	go run ./scripts/concurrency_test.go <book_id> <count>
//
// Or use the convenience environment variables:
//
//	BOOK_ID=<uuid>  USERS=<count>  go run ./scripts/concurrency_test.go
//
// What it does:
//  1. Registers <count> throwaway accounts and logs each one in.
//  2. Fires one goroutine per account, all attempting to check out the same
//     book simultaneously.
//  3. Prints how many got a 201 borrow vs. a 400 "No copies available".
//
// With the book's available_copies at C and count > C, a correct server
// yields exactly C successes — the FOR UPDATE lock on the book row forbids
// the counter from going negative.
//
// Prerequisites:
//   - Server must be running and migrated; the target book must exist.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

const defaultServerAddr = "http://localhost:8080"

type borrowResult struct {
	Username   string
	StatusCode int
	Body       string
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	bookID := os.Getenv("BOOK_ID")
	count := 5
	if c := os.Getenv("USERS"); c != "" {
		count, _ = strconv.Atoi(c)
	}

	args := os.Args[1:]
	if len(args) >= 1 {
		bookID = args[0]
	}
	if len(args) >= 2 {
		count, _ = strconv.Atoi(args[1])
	}

	if bookID == "" || count < 1 {
		log.Fatal("Usage: BOOK_ID=<uuid> USERS=<n> go run ./scripts/concurrency_test.go\n" +
			"  or: go run ./scripts/concurrency_test.go <book_id> <count>")
	}

	fmt.Printf("=== Borrow Concurrency Test ===\n")
	fmt.Printf("Server : %s\n", serverAddr)
	fmt.Printf("Book   : %s\n", bookID)
	fmt.Printf("Users  : %d\n\n", count)

	// Prepare one fresh account + access token per goroutine.
	tokens := make([]string, count)
	usernames := make([]string, count)
	suffix := time.Now().UnixNano()
	for i := 0; i < count; i++ {
		usernames[i] = fmt.Sprintf("stress-%d-%d", suffix, i)
		token, err := registerAndLogin(serverAddr, usernames[i])
		if err != nil {
			log.Fatalf("failed to prepare user %s: %v", usernames[i], err)
		}
		tokens[i] = token
	}

	results := make([]borrowResult, count)
	var wg sync.WaitGroup

	// Fire all goroutines simultaneously using a barrier.
	start := make(chan struct{})

	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start // wait for the barrier
			results[idx] = attemptBorrow(serverAddr, bookID, usernames[idx], tokens[idx])
		}(i)
	}

	fmt.Println("Firing all requests simultaneously...")
	close(start)

	wg.Wait()
	fmt.Println("All requests completed.")
	fmt.Println()

	var borrowed, conflicts, failures int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failures++
			fmt.Printf("  [ERR ] user=%-28s err=%v\n", r.Username, r.Err)
		case r.StatusCode == http.StatusCreated:
			borrowed++
			fmt.Printf("  [BRRW] user=%-28s status=%d\n", r.Username, r.StatusCode)
		case r.StatusCode == http.StatusBadRequest:
			conflicts++
			fmt.Printf("  [CONF] user=%-28s status=%d body=%s\n", r.Username, r.StatusCode, r.Body)
		default:
			failures++
			fmt.Printf("  [FAIL] user=%-28s status=%d body=%s\n", r.Username, r.StatusCode, r.Body)
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Borrows   : %d\n", borrowed)
	fmt.Printf("Conflicts : %d\n", conflicts)
	fmt.Printf("Failures  : %d\n", failures)
	fmt.Printf("Total     : %d\n\n", count)

	fmt.Println("--- Invariant Check ---")
	fmt.Println("Borrows recorded must equal the book's available_copies before the run;")
	fmt.Println("every other request must be a 400 conflict, never a negative counter.")

	if failures > 0 {
		fmt.Printf("\n[WARNING] %d request(s) failed — check server logs for details.\n", failures)
		os.Exit(1)
	}
}

// registerAndLogin creates a throwaway account and returns its access token.
func registerAndLogin(serverAddr, username string) (string, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	regBody := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"stress-pass-123"}`, username, username)
	resp, err := client.Post(serverAddr+"/register", "application/json", bytes.NewBufferString(regBody))
	if err != nil {
		return "", err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("register returned %d", resp.StatusCode)
	}

	loginBody := fmt.Sprintf(`{"username":%q,"password":"stress-pass-123"}`, username)
	resp, err = client.Post(serverAddr+"/login", "application/json", bytes.NewBufferString(loginBody))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %d: %s", resp.StatusCode, raw)
	}

	var pair struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(raw, &pair); err != nil || pair.Access == "" {
		return "", fmt.Errorf("bad login response: %s", raw)
	}
	return pair.Access, nil
}

// attemptBorrow sends POST /borrow for the given book with the user's token.
func attemptBorrow(serverAddr, bookID, username, token string) borrowResult {
	body := fmt.Sprintf(`{"book_id":%q}`, bookID)
	req, err := http.NewRequest(http.MethodPost, serverAddr+"/borrow", bytes.NewBufferString(body))
	if err != nil {
		return borrowResult{Username: username, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return borrowResult{Username: username, Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return borrowResult{
		Username:   username,
		StatusCode: resp.StatusCode,
		Body:       string(bytes.TrimSpace(raw)),
	}
}
