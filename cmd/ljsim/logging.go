package main

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ljsim/internal/dynamo"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "ljsim",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// logObserver writes run progress as key/value lines. Stage transitions are
// logged at info, per-step progress at debug.
type logObserver struct {
	log *log.Logger
}

var _ dynamo.Observer = logObserver{}

func (o logObserver) OnEvent(e dynamo.Event) {
	switch e.Stage {
	case dynamo.StageEquilibrate:
		o.log.Info("equilibrate", "iteration", e.Step, "lambda", e.Lambda, "kinetic", e.Kinetic)
	case dynamo.StageProduce:
		o.log.Debug("produce", "step", e.Step, "of", e.Total,
			"kinetic", e.Kinetic, "potential", e.Potential, "total", e.Kinetic+e.Potential)
	case dynamo.StageComplete:
		o.log.Info("complete", "steps", e.Total, "lambda", e.Lambda,
			"mean_kinetic", e.Kinetic, "mean_potential", e.Potential)
	default:
		o.log.Info(string(e.Stage), "steps", e.Total, "msg", e.Message)
	}
}
