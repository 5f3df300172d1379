package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"
)

const onlineCheckInterval = 10 * time.Second

func (a *App) getStatus() string {
	return statusLine(string(a.mode()), a.session.Status(), terminalWidth())
}

func (a *App) Root(ctx context.Context) {
	log.Printf("Editing listing %s (type 'help' for commands)", a.session.EntityID())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)
	go a.watchStatus(ctx)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
