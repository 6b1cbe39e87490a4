package notify

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// Send asks the dispatcher to deliver a message to a recipient's external
// channel.
type Send struct {
	RecipientID string
	Message     string
}

type dispatchActor struct {
	logger *zap.Logger
}

func (a *dispatchActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *Send:
		// Stand-in for the external provider call (email, SMS, push).
		time.Sleep(100 * time.Millisecond)
		a.logger.Info("notification dispatched",
			zap.String("recipient_id", msg.RecipientID),
			zap.String("message", msg.Message))

	case *actor.Started:
		a.logger.Info("notification dispatcher started")

	case *actor.Stopped:
		a.logger.Info("notification dispatcher stopped")
	}
}

// Dispatcher delivers notification messages through a single actor mailbox.
// A send into the mailbox is the at-most-once boundary: once handed over, the
// caller is done, and a message that fails in the actor is dropped.
type Dispatcher struct {
	system *actor.ActorSystem
	pid    *actor.PID
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &dispatchActor{logger: logger}
	})

	return &Dispatcher{
		system: system,
		pid:    system.Root.Spawn(props),
	}
}

func (d *Dispatcher) Dispatch(recipientID, message string) {
	d.system.Root.Send(d.pid, &Send{RecipientID: recipientID, Message: message})
}

func (d *Dispatcher) Close() {
	d.system.Root.Stop(d.pid)
	d.system.Shutdown()
}
