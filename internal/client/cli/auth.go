package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) register(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Enter user name (email)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := a.app.Session.Register(ctx, username, password); err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Println("Success!")
}

func (a *App) login(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Enter user name (email)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := a.app.Session.Login(ctx, username, password); err != nil {
		fmt.Println(err.Error())
		return
	}

	fmt.Println("Success!")
}

func (a *App) logout() {
	if err := a.app.Session.Logout(); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Logged out")
}
