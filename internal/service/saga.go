package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// step: одно обратимое действие внутри выдачи или возврата.
// undo может быть nil, если шаг последний и откатывать нечего.
type step struct {
	name string
	do   func(ctx context.Context) error
	undo func(ctx context.Context) error
}

// runSteps выполняет шаги по порядку как одно целое.
// Если шаг упал, уже сделанные откатываются в обратном порядке и возвращается исходная ошибка.
// Если не удался сам откат, возвращается ErrConsistency и пишется лог уровня error.
func runSteps(ctx context.Context, logger *zap.SugaredLogger, fields []any, steps ...step) error {
	for i, s := range steps {
		err := s.do(ctx)
		if err == nil {
			continue
		}
		logger.Warnw("compensating after failed step", append(fields, "step", s.name, "error", err)...)
		if cerr := compensate(ctx, steps[:i]); cerr != nil {
			logger.Errorw("CONSISTENCY VIOLATION: compensation failed, stock and borrowings diverged",
				append(fields, "step", s.name, "error", err, "compensation_error", cerr)...)
			return fmt.Errorf("%w: %s failed (%v), compensation failed: %w", ErrConsistency, s.name, err, cerr)
		}
		return err
	}
	return nil
}

func compensate(ctx context.Context, done []step) error {
	// откат не должен обрываться из-за отмены запроса
	ctx = context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		if done[i].undo == nil {
			continue
		}
		if err := done[i].undo(ctx); err != nil {
			return fmt.Errorf("undo %s: %w", done[i].name, err)
		}
	}
	return nil
}
