package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/marketlens/internal/db"
)

// Tx applies all ops inside a MULTI/EXEC block. Redis queues the commands and
// applies them atomically on EXEC, so a crash mid-commit leaves nothing
// partially visible.
func (s *Store) Tx(ctx context.Context, ops []db.TxOp) error {
	if len(ops) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(ops)+2)
	cmds = append(cmds, s.b().Multi().Build())

	for _, op := range ops {
		cmd, err := s.buildTxCmd(op)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, s.b().Exec().Build())

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpMulti, Err: fmt.Errorf("%w: command %d: %w", db.ErrTxFailed, i, err)}
		}
	}
	return nil
}

func (s *Store) buildTxCmd(op db.TxOp) (rueidis.Completed, error) {
	switch op.Kind {
	case db.TxSet:
		return s.b().Set().Key(op.Key).Value(string(op.Value)).Build(), nil
	case db.TxDel:
		return s.b().Del().Key(op.Key).Build(), nil
	case db.TxHSet:
		cmd := s.b().Hset().Key(op.Key).FieldValue()
		for k, v := range op.Fields {
			cmd = cmd.FieldValue(k, v)
		}
		return cmd.Build(), nil
	case db.TxZAdd:
		return s.b().Zadd().Key(op.Key).ScoreMember().ScoreMember(op.Score, op.Member).Build(), nil
	case db.TxZRem:
		return s.b().Zrem().Key(op.Key).Member(op.Member).Build(), nil
	default:
		return rueidis.Completed{}, &db.Error{Op: db.OpMulti, Err: fmt.Errorf("unknown tx op kind %d", op.Kind)}
	}
}
