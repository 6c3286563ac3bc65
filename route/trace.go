package route

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// A TraceFunc observes the decisions a Router made resolving a destination.
// It cannot change the outcome.
type TraceFunc func(ctx context.Context, t *Trace)

// A TraceStep records one Selector evaluation.
type TraceStep struct {
	Node      string
	Selector  string
	Index     int
	Succeeded bool
	Quality   float64
	Consumed  int
}

// A Trace is the full decision trail of one resolution attempt.
type Trace struct {
	// Router is the absolute root path of the Router resolving.
	Router      string
	Destination string
	Method      Method
	Steps       []TraceStep

	// Chosen is the path of the Node resolved to, empty on failure.
	Chosen  string
	Quality float64
	Failure string
}

func (t *Trace) record(n *Node, sel Selector, index int, eval Evaluation) {
	if t == nil {
		return
	}

	t.Steps = append(t.Steps, TraceStep{
		Node:      n.String(),
		Selector:  sel.String(),
		Index:     index,
		Succeeded: eval.Succeeded,
		Quality:   eval.Quality,
		Consumed:  eval.Consumed,
	})
}

func (t *Trace) choose(res Result) {
	if t == nil {
		return
	}

	t.Failure = res.Failure
	t.Quality = res.Quality
	if res.Route != nil {
		t.Chosen = res.Route.String()
	}
}

// TraceSpans records each Trace as an OpenTelemetry span,
// adding an event per evaluation.
func TraceSpans(tracer trace.Tracer) TraceFunc {
	return func(ctx context.Context, t *Trace) {
		_, span := tracer.Start(
			ctx,
			"junction.resolve",
			trace.WithAttributes(
				attribute.String("junction.router", t.Router),
				attribute.String("junction.destination", t.Destination),
				attribute.String("junction.method", t.Method.String()),
				attribute.Int("junction.steps", len(t.Steps)),
			),
		)
		defer span.End()

		for _, step := range t.Steps {
			span.AddEvent("evaluate", trace.WithAttributes(
				attribute.String("junction.node", step.Node),
				attribute.Int("junction.index", step.Index),
				attribute.Bool("junction.succeeded", step.Succeeded),
				attribute.Float64("junction.quality", step.Quality),
			))
		}

		if t.Failure != "" {
			span.SetStatus(codes.Error, t.Failure)
			return
		}

		span.SetAttributes(
			attribute.String("junction.route", t.Chosen),
			attribute.Float64("junction.quality", t.Quality),
		)
		span.SetStatus(codes.Ok, "")
	}
}
