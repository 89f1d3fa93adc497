package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	gs "github.com/dmitrijs2005/gophmarket/internal/server/grpc"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func (a *App) credentials(args []string) (string, []byte, error) {
	var userName string
	if len(args) > 0 {
		userName = args[0]
	} else {
		var err error
		if userName, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
			return "", nil, err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register creates an account. It does not log in.
func (a *App) Register(ctx context.Context, args []string) error {
	userName, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer wipe(password)

	var resp *gs.RegisterResponse
	err = a.call(ctx, func(ctx context.Context) error {
		resp, err = a.api.Register(ctx, &gs.RegisterRequest{Username: userName, Password: string(password)})
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %s)\n", userName, resp.UserID)
	return nil
}

// Login authenticates and, when the server is reachable, announces the
// device as online.
func (a *App) Login(ctx context.Context, args []string) error {
	userName, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer wipe(password)

	var resp *gs.LoginResponse
	err = a.call(ctx, func(ctx context.Context) error {
		resp, err = a.api.Login(ctx, &gs.LoginRequest{Username: userName, Password: string(password)})
		return err
	})
	if err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return errors.New("server returned an empty token")
	}

	a.mu.Lock()
	a.token = resp.AccessToken
	a.userName = userName
	a.mu.Unlock()
	a.setMode(ModeOnline)

	if err := a.announce(ctx, true); err != nil {
		log.Printf("presence update failed: %v", err)
	}
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout marks the device offline and forgets the token.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.announce(ctx, false); err != nil {
		log.Printf("presence update failed: %v", err)
	}

	a.mu.Lock()
	a.token = ""
	a.userName = ""
	a.mu.Unlock()
	return nil
}
