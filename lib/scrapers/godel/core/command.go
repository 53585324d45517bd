package core

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RunCommand submits a palette command and hands back the window it
// opened, fully loaded. The caller owns closing the window.
func (s *Session) RunCommand(ctx context.Context, command string) (*Window, error) {
	ctx, span := tracer.Start(ctx, "RunCommand")
	defer span.End()

	span.SetAttributes(attribute.String("command", command))

	before, err := s.WindowIds(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot windows")
		return nil, err
	}
	err = s.SendCommand(ctx, command)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send command")
		return nil, err
	}
	w, err := s.WaitNewWindow(ctx, before)
	if err != nil {
		return nil, err
	}
	err = s.WaitLoading(ctx, w)
	if err != nil {
		return nil, err
	}
	return w, nil
}
