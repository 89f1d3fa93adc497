package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/client/config"
	gs "github.com/dmitrijs2005/gophmarket/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	api    marketAPI
	conn   io.Closer
	reader *bufio.Reader
	out    io.Writer

	mu       sync.Mutex
	token    string
	userName string
	Mode     Mode
}

func NewApp(c *config.Config) (*App, error) {
	conn, err := grpc.NewClient(c.ServerEndpointAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.ServerEndpointAddr, err)
	}

	app := newApp(c, gs.NewClient(conn), os.Stdin, os.Stdout)
	app.conn = conn
	return app, nil
}

func newApp(c *config.Config, api marketAPI, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: api, reader: bufio.NewReader(in), out: out}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token != ""
}

func (a *App) session() (token string, mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token, a.Mode
}

// setMode switches the connectivity mode and reports whether it changed.
func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode == mode {
		return false
	}
	a.Mode = mode
	log.Printf("Switched to %s mode\n", mode)
	return true
}

// call runs fn with the request timeout and the access token attached.
func (a *App) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if token, _ := a.session(); token != "" {
		ctx = gs.WithAccessToken(ctx, token)
	}
	return fn(ctx)
}

// announce reports the device's reachability to the server.
func (a *App) announce(ctx context.Context, online bool) error {
	return a.call(ctx, func(ctx context.Context) error {
		_, err := a.api.SetNetworkStatus(ctx, &gs.SetNetworkStatusRequest{Online: online})
		return err
	})
}

// checkOnline pings the server once and updates the mode. Coming back online
// while logged in re-announces presence.
func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	_, err := a.api.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	if a.setMode(ModeOnline) && a.isLoggedIn() {
		if err := a.announce(ctx, true); err != nil {
			log.Printf("presence update failed: %v", err)
		}
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.token != "" {
		s = a.userName + " "
	}
	s += string(a.Mode)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run starts the watcher and the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.conn != nil {
		defer a.conn.Close()
	}

	log.Println("Welcome to GophMarket CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a.commands(), a.isLoggedIn, a.getStatus, bufio.NewScanner(a.reader))

	if a.isLoggedIn() {
		_ = a.Logout(context.Background(), nil)
	}
}
