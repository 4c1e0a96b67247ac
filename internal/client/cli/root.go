package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		s = "logged in "
	}
	if a.app.Watcher.Online() {
		s = s + "online"
	} else {
		s = s + "offline"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to daydash CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("dd %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: tasks, addtask, done <id>, rm <id>, purge <id>, notes, addnote, sync, status, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, tasks, addtask, notes, addnote, status, exit")
			}

		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout()
		case "t", "tasks":
			a.listTasks()
		case "addtask":
			a.addTask(ctx)
		case "done":
			if len(args) == 0 {
				fmt.Println("Usage: done <id>")
				continue
			}
			a.doneTask(ctx, args[0])
		case "rm":
			if len(args) == 0 {
				fmt.Println("Usage: rm <id>")
				continue
			}
			a.removeTask(ctx, args[0])
		case "purge":
			if len(args) == 0 {
				fmt.Println("Usage: purge <id>")
				continue
			}
			a.purgeTask(ctx, args[0])
		case "n", "notes":
			a.listNotes()
		case "addnote":
			a.addNote(ctx)
		case "sync":
			a.sync(ctx)
		case "status":
			a.status()
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
