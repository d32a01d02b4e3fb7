package client

import (
	"context"
	"errors"
	"log"

	"github.com/cloo-solutions/jobfinder/internal/notice"
	"github.com/cloo-solutions/jobfinder/internal/session"
	"github.com/cloo-solutions/jobfinder/internal/state"
	"github.com/cloo-solutions/jobfinder/internal/worker"
)

// StartSync follows session changes made by other processes (another shell
// logging out, an admin revoking the profile) until stop is called or ctx
// ends. Polling runs every SyncInterval; stores with a change feed are also
// watched.
func (a *App) StartSync(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)

	syncer := session.NewSyncer(a.Session, func(loggedIn bool) {
		_, _ = a.State.Dispatch(state.SessionChanged{LoggedIn: loggedIn})
		if !loggedIn {
			a.Notifier.Notify(notice.Notice{Kind: notice.KindInfo, Title: "Session ended", Message: "You were logged out elsewhere."})
			return
		}
		a.Notifier.Notify(notice.Notice{Kind: notice.KindInfo, Title: "Session updated", Message: a.Session.CurrentUser().DisplayName()})
		a.LoadSaved(ctx)
	})

	var poller *worker.Worker
	if a.Config.SyncInterval > 0 {
		poller = worker.NewWorker("session-sync", syncer, a.Config.SyncInterval)
		go poller.Start(ctx)
	}

	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		if err := syncer.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("session sync: watch stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		if poller != nil {
			poller.Stop()
		}
		<-watchDone
	}
}
