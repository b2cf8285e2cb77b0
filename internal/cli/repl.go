package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	List(ctx context.Context) error
	Folders(ctx context.Context) error
	MkDir(ctx context.Context) error
	ChDir(ctx context.Context) error
	Upload(ctx context.Context) error
	Download(ctx context.Context) error
	Remove(ctx context.Context) error
	RmDir(ctx context.Context) error
	ShareURL(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the SkyVault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - ls             — list files in the current folder
//	  - folders        — list folders
//	  - mkdir          — create a folder
//	  - cd             — select a folder ("/" for top level)
//	  - upload         — upload local files
//	  - download       — download a file
//	  - rm             — delete a file
//	  - rmdir          — delete a folder and its files
//	  - url            — issue a temporary share/preview URL
//	  - logout         — sign out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers surface
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sv> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: ls, folders, mkdir, cd, upload, download, rm, rmdir, url, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "l", "ls":
			_ = a.List(ctx)

		case "folders":
			_ = a.Folders(ctx)

		case "mkdir":
			_ = a.MkDir(ctx)

		case "cd":
			_ = a.ChDir(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "download":
			_ = a.Download(ctx)

		case "rm":
			_ = a.Remove(ctx)

		case "rmdir":
			_ = a.RmDir(ctx)

		case "url":
			_ = a.ShareURL(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
