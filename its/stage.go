package its

import (
	"github.com/smartcontractkit/its-localnet/pkg/logger"
)

// Stage is the progress of a single Orchestrator call.
type Stage int

const (
	StageInit Stage = iota
	StageDestinationResolved
	StageTxSubmitted
	StageTxConfirmed
	StageRelayed
	StageDestinationHandleReady
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "INIT"
	case StageDestinationResolved:
		return "DESTINATION_RESOLVED"
	case StageTxSubmitted:
		return "TX_SUBMITTED"
	case StageTxConfirmed:
		return "TX_CONFIRMED"
	case StageRelayed:
		return "RELAYED"
	case StageDestinationHandleReady:
		return "DESTINATION_HANDLE_READY"
	default:
		return "UNKNOWN"
	}
}

// sequence tracks and logs the stage of one call. Stages only move forward.
type sequence struct {
	lggr  logger.Logger
	op    string
	stage Stage
}

func newSequence(lggr logger.Logger, op string) *sequence {
	s := &sequence{lggr: lggr, op: op, stage: StageInit}
	s.lggr.Debugw("Stage transition", "op", op, "stage", StageInit.String())

	return s
}

func (s *sequence) advance(stage Stage, keysAndValues ...any) {
	s.stage = stage
	s.lggr.Debugw("Stage transition", append([]any{"op", s.op, "stage", stage.String()}, keysAndValues...)...)
}

// fail logs err with the stage the call stopped at and returns err unchanged.
func (s *sequence) fail(err error) error {
	s.lggr.Debugw("Operation aborted", "op", s.op, "stage", s.stage.String(), "err", err)

	return err
}
