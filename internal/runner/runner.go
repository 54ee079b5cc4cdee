package runner

import (
	"context"
	"fmt"
	"log"

	"github.com/Capitan-Parrot/proctoring-demo/internal/controller"
	"github.com/Capitan-Parrot/proctoring-demo/internal/kafka"
	"github.com/Capitan-Parrot/proctoring-demo/internal/models"
)

// Commander is the command surface of the display controller
type Commander interface {
	Start()
	Stop()
	ApplyScenario(id models.ScenarioID) error
	StartAutoDemo() error
	State() controller.SessionState
}

// Runner выполняет команды сценариев из топика команд
type Runner struct {
	ctrl Commander
}

func New(ctrl Commander) *Runner {
	return &Runner{ctrl: ctrl}
}

// ListenAndRun выполняет команды, пока не отменён ctx или не закрыт канал.
// Отклонённые команды логируются и подтверждаются: при повторной доставке
// они будут отклонены снова.
func (r *Runner) ListenAndRun(ctx context.Context, commands <-chan kafka.Command) {
	log.Println("Runner: listening for Kafka commands")
	for {
		select {
		case <-ctx.Done():
			log.Println("Runner: shutting down")
			return
		case cmd, ok := <-commands:
			if !ok {
				log.Println("Runner: command stream closed")
				return
			}
			log.Printf("Runner: received command %+v", cmd.ScenarioCommand)

			if err := r.Dispatch(cmd.ScenarioCommand); err != nil {
				log.Printf("Runner: error processing command: %v", err)
			}
			cmd.Ack()
		}
	}
}

// Dispatch выполняет одну команду на контроллере
func (r *Runner) Dispatch(cmd models.ScenarioCommand) error {
	switch cmd.Action {
	case models.CommandStart:
		r.ctrl.Start()
	case models.CommandStop:
		r.ctrl.Stop()
	case models.CommandApply:
		if err := r.ctrl.ApplyScenario(cmd.Scenario); err != nil {
			return fmt.Errorf("apply %q: %w", cmd.Scenario, err)
		}
	case models.CommandAutoDemo:
		if err := r.ctrl.StartAutoDemo(); err != nil {
			return fmt.Errorf("auto demo: %w", err)
		}
	default:
		return fmt.Errorf("unknown command: %q", cmd.Action)
	}
	return nil
}
